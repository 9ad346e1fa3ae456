package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldez/specnav/internal/conflict"
	"github.com/pvaldez/specnav/internal/journal"
)

// ActivityLogTool handles the activity_log MCP tool. Agents call it to
// announce which file they are about to touch; conflict_check reads the
// same journal back to spot overlap.
type ActivityLogTool struct {
	journal *journal.Journal // nullable — recording degrades to a no-op note
}

// NewActivityLogTool creates an ActivityLogTool over the journal.
func NewActivityLogTool(j *journal.Journal) *ActivityLogTool {
	return &ActivityLogTool{journal: j}
}

// Definition returns the MCP tool definition for registration.
func (t *ActivityLogTool) Definition() mcp.Tool {
	return mcp.NewTool("activity_log",
		mcp.WithDescription(
			"Record that an agent is editing a file, optionally with a line range. "+
				"Parallel agents that announce their edits here let conflict_check "+
				"catch collisions before they happen.",
		),
		mcp.WithString("agent",
			mcp.Required(),
			mcp.Description("Name of the agent doing the work"),
		),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Workspace-relative path of the file being touched"),
		),
		mcp.WithString("op",
			mcp.Description("Operation kind, e.g. edit, create, delete"),
		),
		mcp.WithNumber("line_start",
			mcp.Description("First line of the edit, when known"),
		),
		mcp.WithNumber("line_end",
			mcp.Description("Last line of the edit, when known"),
		),
	)
}

// Handle processes the activity_log tool call.
func (t *ActivityLogTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agent := strings.TrimSpace(req.GetString("agent", ""))
	path := strings.TrimSpace(req.GetString("path", ""))
	if agent == "" || path == "" {
		return mcp.NewToolResultError("'agent' and 'path' are both required"), nil
	}

	if t.journal == nil {
		return mcp.NewToolResultText("Activity noted but not recorded: the journal is not available in this session.\n"), nil
	}

	act := conflict.Activity{
		Agent:      agent,
		Path:       path,
		Op:         req.GetString("op", "edit"),
		LineStart:  intArg(req, "line_start", 0),
		LineEnd:    intArg(req, "line_end", 0),
		RecordedAt: time.Now(),
	}
	if _, err := t.journal.RecordActivity(act); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recording activity: %v", err)), nil
	}

	lines := ""
	if act.LineStart > 0 {
		lines = fmt.Sprintf(" lines %d-%d", act.LineStart, act.LineEnd)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Recorded: %s %s %s%s\n", act.Agent, act.Op, act.Path, lines)), nil
}
