package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldez/specnav/internal/align"
	"github.com/pvaldez/specnav/internal/config"
	"github.com/pvaldez/specnav/internal/folder"
	"github.com/pvaldez/specnav/internal/journal"
	"github.com/pvaldez/specnav/internal/signal"
)

// AlignTool handles the align_check MCP tool. It scores the current
// conversation against the spec folder catalog and reports where the
// work belongs. Unknown ground yields a PromptUser or NoCandidates
// report, never an error.
type AlignTool struct {
	catalog folder.Store
	journal *journal.Journal // nullable — scoring works without history
	cfg     config.Config
}

// NewAlignTool creates an AlignTool with its dependencies.
func NewAlignTool(catalog folder.Store, j *journal.Journal, cfg config.Config) *AlignTool {
	return &AlignTool{catalog: catalog, journal: j, cfg: cfg}
}

// Definition returns the MCP tool definition for registration.
func (t *AlignTool) Definition() mcp.Tool {
	return mcp.NewTool("align_check",
		mcp.WithDescription(
			"Score the current conversation against the spec folder catalog and decide "+
				"where the work belongs. Returns the outcome (AutoSelected, PromptUser, or "+
				"NoCandidates) with the full ranking. Call this before saving specs, plans, "+
				"or progress notes so they land in the right folder.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Conversation excerpt or summary describing the work"),
		),
		mcp.WithString("files",
			mcp.Description("Files touched in this conversation, comma or newline separated"),
		),
		mcp.WithString("phase",
			mcp.Description("Workflow phase of the conversation"),
			mcp.Enum(signal.PhaseValues()...),
		),
		mcp.WithString("session",
			mcp.Description("Session identifier recorded with the decision"),
		),
		mcp.WithString("folder",
			mcp.Description("Force routing to this folder instead of the ranked winner"),
		),
		mcp.WithBoolean("auto_save",
			mcp.Description("Allow auto-selection above the confidence threshold (defaults to the configured value)"),
		),
	)
}

// Handle processes the align_check tool call.
func (t *AlignTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := strings.TrimSpace(req.GetString("text", ""))
	if text == "" {
		return mcp.NewToolResultError("'text' is required — describe the work being discussed"), nil
	}

	sig := signal.FromText(text, splitList(req.GetString("files", "")), req.GetString("phase", ""))

	candidates, err := t.catalog.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing spec folders: %v", err)), nil
	}

	opts := t.cfg.AlignOptions(time.Now())
	opts.AutoSave = boolArg(req, "auto_save", opts.AutoSave)
	if f := req.GetString("folder", ""); f != "" {
		opts.ExplicitFolder = f
	}

	dec := align.Score(sig, candidates, opts)

	journalNote := ""
	if t.journal != nil {
		if _, err := t.journal.RecordDecision(req.GetString("session", ""), sig, dec); err != nil {
			journalNote = fmt.Sprintf("\n_Decision not journaled: %v_\n", err)
		}
	}

	return mcp.NewToolResultText(renderDecision(sig, dec) + journalNote), nil
}

// renderDecision builds the markdown alignment report.
func renderDecision(sig signal.Signal, dec align.Decision) string {
	var sb strings.Builder
	sb.WriteString("# Alignment Report\n\n")
	fmt.Fprintf(&sb, "**Outcome:** %s\n", dec.Outcome)

	switch dec.Outcome {
	case align.AutoSelected:
		fmt.Fprintf(&sb, "**Chosen:** %s (%.1f%%)\n\n", dec.Chosen.CandidateID, dec.Chosen.Total)
		sb.WriteString("Save this conversation's artifacts under the chosen folder.\n\n")
	case align.PromptUser:
		sb.WriteString("\nNo candidate cleared the confidence threshold. ")
		sb.WriteString("Ask the user to pick a folder (or name a new one):\n\n")
		for i, r := range dec.Ranked {
			fmt.Fprintf(&sb, "%d. **%s** — %.1f%%\n", i+1, r.CandidateID, r.Total)
		}
		sb.WriteString("\n")
	case align.NoCandidates:
		sb.WriteString("\nNo spec folders are eligible for this signal. ")
		sb.WriteString("Suggest creating a new folder named after the work.\n\n")
	}

	if len(dec.Ranked) > 0 {
		sb.WriteString("## Ranking\n\n")
		sb.WriteString("| # | Folder | Total | Topic | Files | Phase | Recency |\n")
		sb.WriteString("|---|--------|-------|-------|-------|-------|--------|\n")
		for i, r := range dec.Ranked {
			fmt.Fprintf(&sb, "| %d | %s | %.1f%% | %.2f | %.2f | %.2f | %.2f |\n",
				i+1, r.CandidateID, r.Total, r.TopicScore, r.FileScore, r.PhaseScore, r.RecencyScore)
		}
		sb.WriteString("\n")
	}

	if len(sig.Topics) > 0 {
		fmt.Fprintf(&sb, "_Signal topics: %s_\n", strings.Join(sig.Topics, ", "))
	}
	return sb.String()
}
