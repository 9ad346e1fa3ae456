// Package prompts implements MCP prompt handlers for spec alignment.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// RoutePrompt handles the specnav-route MCP prompt.
// It guides the AI to score the conversation and route its artifacts
// into the right spec folder.
type RoutePrompt struct{}

// NewRoutePrompt creates a RoutePrompt.
func NewRoutePrompt() *RoutePrompt {
	return &RoutePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *RoutePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("specnav-route",
		mcp.WithPromptDescription(
			"Figure out which spec folder the current conversation belongs to. "+
				"Scores the discussion against the folder catalog and either saves "+
				"silently or asks you to pick.",
		),
		mcp.WithArgument("phase",
			mcp.ArgumentDescription(
				"Workflow phase of the conversation: planning, implementation, or verification",
			),
		),
	)
}

// Handle processes the specnav-route prompt request.
func (p *RoutePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	phase := ""
	if args := req.Params.Arguments; args != nil {
		phase = args["phase"]
	}

	phaseLine := "If the workflow phase is clear from context, pass it as phase."
	if phase != "" {
		phaseLine = fmt.Sprintf("Pass phase='%s'.", phase)
	}

	return &mcp.GetPromptResult{
		Description: "Route this conversation to a spec folder",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please figure out where this conversation's notes and specs belong.\n\n"+
						"1. Summarize what we have been discussing in one or two sentences\n"+
						"2. Run `align_check` with that summary as text and every file we touched as files. %s\n"+
						"3. If the outcome is AutoSelected, save any pending artifacts under the chosen folder and tell me where they went\n"+
						"4. If the outcome is PromptUser, show me the ranked candidates and let me pick (or name a new folder)\n"+
						"5. If the outcome is NoCandidates, suggest a short kebab-case folder name for this work and ask me to confirm",
					phaseLine,
				)),
			},
		},
	}, nil
}
