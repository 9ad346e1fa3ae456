package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ConflictsPrompt handles the specnav-conflicts MCP prompt.
// It instructs the AI to check for parallel-agent overlap before editing.
type ConflictsPrompt struct{}

// NewConflictsPrompt creates a ConflictsPrompt.
func NewConflictsPrompt() *ConflictsPrompt {
	return &ConflictsPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ConflictsPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("specnav-conflicts",
		mcp.WithPromptDescription(
			"Check whether other agents are working on the same files before "+
				"you start editing. Shows the overlap severity and whether it blocks.",
		),
	)
}

// Handle processes the specnav-conflicts prompt request.
func (p *ConflictsPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Parallel-agent conflict check",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please check for conflicts with other agents before editing.\n\n" +
						"1. Run `conflict_check` (no arguments needed, it reads recent activity)\n" +
						"2. If the report is blocking (CRITICAL), stop and tell me which agents collide on which lines\n" +
						"3. If it is HIGH or MEDIUM, list the overlapping files and proceed carefully around them\n" +
						"4. Before you start editing, run `activity_log` with your agent name and the file you are about to touch",
				),
			},
		},
	}, nil
}
