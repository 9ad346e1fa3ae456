package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldez/specnav/internal/journal"
)

// DecisionLogTool handles the decision_log MCP tool. It surfaces recent
// alignment decisions from the journal so an agent can see where past
// conversations were routed.
type DecisionLogTool struct {
	journal *journal.Journal // nullable — without it the log is unavailable
}

// NewDecisionLogTool creates a DecisionLogTool over the journal.
func NewDecisionLogTool(j *journal.Journal) *DecisionLogTool {
	return &DecisionLogTool{journal: j}
}

// Definition returns the MCP tool definition for registration.
func (t *DecisionLogTool) Definition() mcp.Tool {
	return mcp.NewTool("decision_log",
		mcp.WithDescription(
			"Show recent alignment decisions: which spec folder each conversation "+
				"was routed to, with what confidence, and the runner-up ranking.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum decisions to return (default 10)"),
		),
	)
}

// Handle processes the decision_log tool call.
func (t *DecisionLogTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.journal == nil {
		return mcp.NewToolResultText("The decision journal is not available in this session.\n"), nil
	}

	limit := intArg(req, "limit", 10)
	decisions, err := t.journal.RecentDecisions(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading decision journal: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("# Recent Alignment Decisions\n\n")
	if len(decisions) == 0 {
		sb.WriteString("No decisions recorded yet.\n")
		return mcp.NewToolResultText(sb.String()), nil
	}

	for _, d := range decisions {
		chosen := "-"
		if d.Chosen != nil {
			chosen = *d.Chosen
		}
		fmt.Fprintf(&sb, "## %s — %s\n\n", d.CreatedAt, d.Outcome)
		fmt.Fprintf(&sb, "- Chosen: %s (%.1f%%)\n", chosen, d.Total)
		if d.Session != "" {
			fmt.Fprintf(&sb, "- Session: %s\n", d.Session)
		}
		if d.Topics != "" {
			fmt.Fprintf(&sb, "- Topics: %s\n", d.Topics)
		}
		for _, r := range d.Ranks {
			fmt.Fprintf(&sb, "- #%d %s: %.1f%% (topic %.2f, files %.2f, phase %.2f, recency %.2f)\n",
				r.Rank, r.Candidate, r.Total, r.Topic, r.File, r.Phase, r.Recency)
		}
		sb.WriteString("\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}
