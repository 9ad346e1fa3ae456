// Package signal models what a conversation is about: the topics under
// discussion, the files being touched, and the workflow phase. Signals
// are the scorer's view of a conversation — building one performs the
// keyword extraction, everything downstream is pure matching.
package signal

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// Signal is the distilled evidence from a conversation.
type Signal struct {
	Topics       []string `json:"topics"`
	FilesTouched []string `json:"filesTouched,omitempty"`
	Phase        Phase    `json:"phase"`
}

// FromText builds a Signal from raw conversation text, the files it
// touched, and a free-form phase tag. Paths are cleaned to forward-slash
// workspace-relative form so later comparisons are exact.
func FromText(text string, files []string, phase string) Signal {
	return Signal{
		Topics:       ExtractKeywords(text),
		FilesTouched: CleanPaths(files),
		Phase:        ParsePhase(phase),
	}
}

// Document is the JSON shape accepted on stdin and over MCP. Topics may
// be given directly or left empty to be extracted from Text.
type Document struct {
	Text         string   `json:"text,omitempty"`
	Topics       []string `json:"topics,omitempty"`
	FilesTouched []string `json:"filesTouched,omitempty"`
	Phase        string   `json:"phase,omitempty"`
}

// ParseDocument decodes a Signal document. Explicit topics are
// normalized through the extractor so the no-stemming and stop-word
// rules hold regardless of input source.
func ParseDocument(data []byte) (Signal, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Signal{}, fmt.Errorf("parsing signal document: %w", err)
	}
	sig := FromText(doc.Text, doc.FilesTouched, doc.Phase)
	if len(doc.Topics) > 0 {
		sig.Topics = ExtractKeywords(strings.Join(doc.Topics, " "))
	}
	return sig, nil
}

// CleanPaths normalizes a path list: forward slashes, no leading "./",
// blanks dropped, duplicates removed.
func CleanPaths(files []string) []string {
	var out []string
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		f = path.Clean(strings.TrimSpace(strings.ReplaceAll(f, "\\", "/")))
		if f == "" || f == "." || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
