// Package conflict classifies overlapping work between parallel agents.
//
// Overlap records name a location, the agents involved, and how directly
// they collide (same lines, same file, related files). Classification
// reduces a batch of records to a single severity with a blocking
// verdict: only same-line collisions block, everything else warns. The
// classifier is pure and total — callers that cannot obtain records in
// the first place fail open to a NONE report rather than guessing.
package conflict

import (
	"fmt"
	"sort"
	"strings"
)

// OverlapKind is how directly two agents' work collides.
type OverlapKind string

const (
	OverlapSameLines   OverlapKind = "same_lines"
	OverlapSameFile    OverlapKind = "same_file"
	OverlapRelatedFile OverlapKind = "related_file"
)

// Record is one observed overlap between agents.
type Record struct {
	Path   string      `json:"path"`
	Agents []string    `json:"agents"`
	Kind   OverlapKind `json:"kind"`
	Lines  string      `json:"lines,omitempty"` // "start-end" when known
}

// Severity grades a conflict report.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityNone     Severity = "NONE"
)

var severityRank = map[Severity]int{
	SeverityNone:     0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// maxReasonLen caps the report reason; longer text is truncated.
const maxReasonLen = 500

// Finding is a record with its individual severity, kept for logging
// even when a stronger finding dominates the report.
type Finding struct {
	Record
	Severity Severity `json:"severity"`
}

// Report is the classification verdict. Severity is the highest found;
// lower findings never escalate the outcome, they only ride along in
// Findings.
type Report struct {
	Severity Severity  `json:"severity"`
	Block    bool      `json:"block"`
	Reason   string    `json:"reason,omitempty"`
	Findings []Finding `json:"findings,omitempty"`
}

// Classify reduces overlap records to a single report. Severity per
// record: same lines between two or more agents is CRITICAL (blocks),
// same file is HIGH, related files is MEDIUM, anything else NONE.
// Records with fewer than two distinct agents carry no conflict.
func Classify(records []Record) Report {
	report := Report{Severity: SeverityNone}
	for _, r := range records {
		f := Finding{Record: r, Severity: recordSeverity(r)}
		report.Findings = append(report.Findings, f)
		if severityRank[f.Severity] > severityRank[report.Severity] {
			report.Severity = f.Severity
		}
	}

	sort.SliceStable(report.Findings, func(i, j int) bool {
		ri, rj := severityRank[report.Findings[i].Severity], severityRank[report.Findings[j].Severity]
		if ri != rj {
			return ri > rj
		}
		return report.Findings[i].Path < report.Findings[j].Path
	})

	report.Block = report.Severity == SeverityCritical
	report.Reason = reasonFor(report)
	return report
}

func recordSeverity(r Record) Severity {
	if distinctAgents(r.Agents) < 2 {
		return SeverityNone
	}
	switch r.Kind {
	case OverlapSameLines:
		return SeverityCritical
	case OverlapSameFile:
		return SeverityHigh
	case OverlapRelatedFile:
		return SeverityMedium
	default:
		return SeverityNone
	}
}

func distinctAgents(agents []string) int {
	seen := make(map[string]bool, len(agents))
	for _, a := range agents {
		a = strings.TrimSpace(a)
		if a != "" {
			seen[a] = true
		}
	}
	return len(seen)
}

// reasonFor renders the findings at the report's severity into one
// truncated sentence list.
func reasonFor(report Report) string {
	if report.Severity == SeverityNone {
		return ""
	}
	var parts []string
	for _, f := range report.Findings {
		if f.Severity != report.Severity {
			continue
		}
		parts = append(parts, describe(f.Record))
	}
	return Truncate(strings.Join(parts, "; "), maxReasonLen)
}

func describe(r Record) string {
	agents := strings.Join(r.Agents, " and ")
	var s string
	switch r.Kind {
	case OverlapSameLines:
		s = fmt.Sprintf("%s editing the same lines of %s", agents, r.Path)
	case OverlapSameFile:
		s = fmt.Sprintf("%s editing %s", agents, r.Path)
	case OverlapRelatedFile:
		s = fmt.Sprintf("%s touching related files %s", agents, r.Path)
	default:
		s = fmt.Sprintf("%s overlapping on %s", agents, r.Path)
	}
	if r.Lines != "" {
		s += " (" + r.Lines + ")"
	}
	return s
}

// Truncate hard-caps s at limit bytes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit <= 3 {
		return s[:limit]
	}
	return s[:limit-3] + "..."
}
