package conflict

import (
	"fmt"
	"sort"
	"time"
)

// Activity is one self-reported or watched edit event. LineStart 0
// means the range is unknown (watcher events have no line data, so they
// can raise at most a same-file conflict).
type Activity struct {
	Agent      string    `json:"agent"`
	Path       string    `json:"path"`
	Op         string    `json:"op,omitempty"` // edit | create | delete | rename
	LineStart  int       `json:"lineStart,omitempty"`
	LineEnd    int       `json:"lineEnd,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

// span is a known line range attributed to an agent.
type span struct {
	agent      string
	start, end int
}

// FromActivity derives overlap records from raw activity. Same-path
// events by two or more agents become same_lines when any two agents'
// known ranges intersect, otherwise same_file. Distinct paths linked by
// the related map become related_file records. Output order is
// deterministic (paths ascending, agents ascending).
func FromActivity(events []Activity, related map[string][]string) []Record {
	byPath := make(map[string]map[string]bool) // path -> agent set
	spans := make(map[string][]span)           // path -> known ranges
	for _, e := range events {
		if e.Agent == "" || e.Path == "" {
			continue
		}
		if byPath[e.Path] == nil {
			byPath[e.Path] = make(map[string]bool)
		}
		byPath[e.Path][e.Agent] = true
		if s, ok := normalizeSpan(e); ok {
			spans[e.Path] = append(spans[e.Path], s)
		}
	}

	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var records []Record
	for _, p := range paths {
		agents := sortedAgents(byPath[p])
		if len(agents) < 2 {
			continue
		}
		if lines, ok := crossAgentOverlap(spans[p]); ok {
			records = append(records, Record{Path: p, Agents: agents, Kind: OverlapSameLines, Lines: lines})
			continue
		}
		records = append(records, Record{Path: p, Agents: agents, Kind: OverlapSameFile})
	}

	records = append(records, relatedRecords(byPath, paths, related)...)
	return records
}

func normalizeSpan(e Activity) (span, bool) {
	if e.LineStart <= 0 {
		return span{}, false
	}
	end := e.LineEnd
	if end < e.LineStart {
		end = e.LineStart
	}
	return span{agent: e.Agent, start: e.LineStart, end: end}, true
}

// crossAgentOverlap finds an intersection between ranges of two
// different agents and renders it as "start-end".
func crossAgentOverlap(spans []span) (string, bool) {
	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			a, b := spans[i], spans[j]
			if a.agent == b.agent {
				continue
			}
			if a.start <= b.end && b.start <= a.end {
				return fmt.Sprintf("%d-%d", max(a.start, b.start), min(a.end, b.end)), true
			}
		}
	}
	return "", false
}

// relatedRecords reports agent pairs working on distinct but linked
// paths. Links are symmetric; each unordered path pair yields at most
// one record.
func relatedRecords(byPath map[string]map[string]bool, paths []string, related map[string][]string) []Record {
	linked := func(p, q string) bool {
		for _, r := range related[p] {
			if r == q {
				return true
			}
		}
		for _, r := range related[q] {
			if r == p {
				return true
			}
		}
		return false
	}

	var records []Record
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			p, q := paths[i], paths[j]
			if !linked(p, q) {
				continue
			}
			// Both paths have at least one agent, so a union of two or
			// more always contains a cross-file agent pair.
			agents := unionAgents(byPath[p], byPath[q])
			if len(agents) < 2 {
				continue
			}
			records = append(records, Record{
				Path:   p + " ~ " + q,
				Agents: agents,
				Kind:   OverlapRelatedFile,
			})
		}
	}
	return records
}

func sortedAgents(set map[string]bool) []string {
	agents := make([]string, 0, len(set))
	for a := range set {
		agents = append(agents, a)
	}
	sort.Strings(agents)
	return agents
}

func unionAgents(a, b map[string]bool) []string {
	u := make(map[string]bool, len(a)+len(b))
	for k := range a {
		u[k] = true
	}
	for k := range b {
		u[k] = true
	}
	return sortedAgents(u)
}
