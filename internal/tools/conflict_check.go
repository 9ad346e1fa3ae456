package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldez/specnav/internal/config"
	"github.com/pvaldez/specnav/internal/conflict"
	"github.com/pvaldez/specnav/internal/folder"
	"github.com/pvaldez/specnav/internal/journal"
)

// defaultWindowMinutes is how far back conflict_check looks for agent
// activity when the caller does not pass explicit records.
const defaultWindowMinutes = 30

// ConflictTool handles the conflict_check MCP tool. It classifies
// overlap between parallel agents, either from caller-supplied records
// or from the recent activity journal. Missing or malformed input fails
// open to a NONE report.
type ConflictTool struct {
	catalog folder.Store
	journal *journal.Journal // nullable — without it only explicit records work
	cfg     config.Config
}

// NewConflictTool creates a ConflictTool with its dependencies.
func NewConflictTool(catalog folder.Store, j *journal.Journal, cfg config.Config) *ConflictTool {
	return &ConflictTool{catalog: catalog, journal: j, cfg: cfg}
}

// Definition returns the MCP tool definition for registration.
func (t *ConflictTool) Definition() mcp.Tool {
	return mcp.NewTool("conflict_check",
		mcp.WithDescription(
			"Check whether parallel agents are stepping on each other. Classifies "+
				"overlap as CRITICAL (same lines, blocks), HIGH (same file), MEDIUM "+
				"(related files), or NONE. Without explicit records it derives overlap "+
				"from recent activity in the journal. Call this before starting edits "+
				"in a shared workspace.",
		),
		mcp.WithString("records",
			mcp.Description("JSON array of overlap records [{path, agents, kind, lines}]. "+
				"Omit to derive overlap from recent journal activity."),
		),
		mcp.WithNumber("window_minutes",
			mcp.Description("Activity window in minutes when deriving overlap (default 30)"),
		),
	)
}

// Handle processes the conflict_check tool call.
func (t *ConflictTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		records []conflict.Record
		note    string
	)

	if raw := strings.TrimSpace(req.GetString("records", "")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &records); err != nil {
			note = fmt.Sprintf("_Records not parseable (%v); reporting NONE._\n", err)
			records = nil
		}
	} else if t.journal != nil {
		window := time.Duration(intArg(req, "window_minutes", defaultWindowMinutes)) * time.Minute
		events, err := t.journal.ActivitySince(window)
		if err != nil {
			note = fmt.Sprintf("_Activity journal unreadable (%v); reporting NONE._\n", err)
		} else {
			records = conflict.FromActivity(events, t.relatedHints(ctx))
		}
	} else {
		note = "_No records given and no journal available; reporting NONE._\n"
	}

	report := conflict.Classify(records)

	if t.journal != nil {
		if _, err := t.journal.RecordConflict(report, records); err != nil {
			note += fmt.Sprintf("_Report not journaled: %v_\n", err)
		}
	}

	return mcp.NewToolResultText(renderReport(report, note)), nil
}

// relatedHints merges the config relation map with the hints spec
// folders declare in their frontmatter.
func (t *ConflictTool) relatedHints(ctx context.Context) map[string][]string {
	merged := make(map[string][]string, len(t.cfg.Related))
	for k, v := range t.cfg.Related {
		merged[k] = append(merged[k], v...)
	}
	if t.catalog == nil {
		return merged
	}
	fromCatalog, err := t.catalog.Relations(ctx)
	if err != nil {
		return merged
	}
	for k, v := range fromCatalog {
		merged[k] = append(merged[k], v...)
	}
	return merged
}

// renderReport builds the markdown conflict report.
func renderReport(report conflict.Report, note string) string {
	var sb strings.Builder
	sb.WriteString("# Conflict Report\n\n")
	fmt.Fprintf(&sb, "**Severity:** %s\n", report.Severity)
	fmt.Fprintf(&sb, "**Blocking:** %v\n", report.Block)
	if report.Reason != "" {
		fmt.Fprintf(&sb, "**Reason:** %s\n", report.Reason)
	}
	sb.WriteString("\n")

	switch {
	case report.Block:
		sb.WriteString("Stop before editing. Another agent is changing the same lines; ")
		sb.WriteString("coordinate or wait for it to finish.\n\n")
	case report.Severity != conflict.SeverityNone:
		sb.WriteString("Proceed with care and avoid the overlapping files where possible.\n\n")
	default:
		sb.WriteString("No overlapping work detected.\n\n")
	}

	if len(report.Findings) > 0 {
		sb.WriteString("## Findings\n\n")
		sb.WriteString("| Severity | Path | Agents | Kind | Lines |\n")
		sb.WriteString("|----------|------|--------|------|-------|\n")
		for _, f := range report.Findings {
			lines := f.Lines
			if lines == "" {
				lines = "-"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
				f.Severity, f.Path, strings.Join(f.Agents, ", "), f.Kind, lines)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(note)
	return sb.String()
}
