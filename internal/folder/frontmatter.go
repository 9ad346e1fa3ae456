package folder

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrontmatter indicates the document does not start with a YAML fence.
	ErrNoFrontmatter = errors.New("folder: no frontmatter")
	// ErrMalformedFrontmatter indicates an opening fence without a closing one.
	ErrMalformedFrontmatter = errors.New("folder: malformed frontmatter")
)

// Meta is the machine-readable header a spec folder's markdown
// artifacts may carry. Every field is optional; artifacts without
// frontmatter contribute nothing.
type Meta struct {
	// Stage names the workflow stage (planning, implementation,
	// verification).
	Stage string `yaml:"stage,omitempty"`
	// Files lists workspace-relative paths this work stream owns.
	Files []string `yaml:"files,omitempty"`
	// Related links paths for cross-file conflict detection.
	Related map[string][]string `yaml:"related,omitempty"`
}

// ParseFrontmatter extracts the metadata block and body from a document
// fenced with `---` lines.
func ParseFrontmatter(content []byte) (Meta, []byte, error) {
	if len(content) == 0 {
		return Meta{}, nil, ErrNoFrontmatter
	}
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Meta{}, nil, ErrNoFrontmatter
	}
	rest := normalized[4:]
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) < 2 {
		// A closing fence at end-of-file without a trailing newline.
		if bytes.HasSuffix(rest, []byte("\n---")) {
			parts = [][]byte{rest[:len(rest)-4], nil}
		} else {
			return Meta{}, nil, ErrMalformedFrontmatter
		}
	}
	var meta Meta
	if err := yaml.Unmarshal(parts[0], &meta); err != nil {
		return Meta{}, nil, fmt.Errorf("folder: parse frontmatter: %w", err)
	}
	return meta, parts[1], nil
}

// WriteFrontmatter renders metadata and body with YAML fences.
func WriteFrontmatter(meta Meta, body []byte) ([]byte, error) {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("folder: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

func normalizeNewlines(content []byte) []byte {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(content, []byte("\r"), []byte("\n"))
}

// mergeMeta folds one artifact's metadata into the folder-level view:
// first stage wins, files and relations accumulate.
func mergeMeta(dst *Meta, src Meta) {
	if dst.Stage == "" {
		dst.Stage = src.Stage
	}
	dst.Files = append(dst.Files, src.Files...)
	if len(src.Related) > 0 && dst.Related == nil {
		dst.Related = make(map[string][]string)
	}
	for k, v := range src.Related {
		dst.Related[k] = append(dst.Related[k], v...)
	}
}
