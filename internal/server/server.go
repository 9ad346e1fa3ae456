// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on abstractions.
// No business logic lives here — only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/pvaldez/specnav/internal/config"
	"github.com/pvaldez/specnav/internal/folder"
	"github.com/pvaldez/specnav/internal/journal"
	"github.com/pvaldez/specnav/internal/prompts"
	"github.com/pvaldez/specnav/internal/resources"
	"github.com/pvaldez/specnav/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the journal's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if the journal failed
// to open.
func New(cfg config.Config) (*server.MCPServer, func(), error) {
	if cfg.SpecRoot == "" {
		return nil, noop, fmt.Errorf("spec root not configured")
	}

	catalog := folder.NewDirStore(cfg.SpecRoot, "")

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"specnav",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Open the journal ---
	//
	// The journal is an independent subsystem: if it fails to open,
	// scoring and conflict classification still work from explicit
	// input. We log a warning and hand the tools a nil journal — every
	// tool degrades to a note instead of an error.

	cleanup := noop
	var j *journal.Journal
	if cfg.Journal {
		opened, err := journal.Open(journal.DefaultConfig(cfg.SpecRoot))
		if err != nil {
			log.Printf("WARNING: journal disabled: %v", err)
		} else {
			j = opened
			cleanup = func() {
				if err := j.Close(); err != nil {
					log.Printf("WARNING: journal close: %v", err)
				}
			}
		}
	}

	// --- Register alignment tools ---

	alignTool := tools.NewAlignTool(catalog, j, cfg)
	s.AddTool(alignTool.Definition(), alignTool.Handle)

	conflictTool := tools.NewConflictTool(catalog, j, cfg)
	s.AddTool(conflictTool.Definition(), conflictTool.Handle)

	folderListTool := tools.NewFolderListTool(catalog)
	s.AddTool(folderListTool.Definition(), folderListTool.Handle)

	decisionLogTool := tools.NewDecisionLogTool(j)
	s.AddTool(decisionLogTool.Definition(), decisionLogTool.Handle)

	activityLogTool := tools.NewActivityLogTool(j)
	s.AddTool(activityLogTool.Definition(), activityLogTool.Handle)

	// --- Register prompts ---

	routePrompt := prompts.NewRoutePrompt()
	s.AddPrompt(routePrompt.Definition(), routePrompt.Handle)

	conflictsPrompt := prompts.NewConflictsPrompt()
	s.AddPrompt(conflictsPrompt.Definition(), conflictsPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(j)
	s.AddResource(resourceHandler.JournalResource(), resourceHandler.HandleJournal)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the
// journal is disabled or failed to open.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use specnav effectively.
func serverInstructions() string {
	return `You have access to specnav, a spec-folder alignment MCP server.

## What specnav does

Workspaces organize specs, plans, and progress notes into per-work-stream
folders. specnav answers two questions:
1. Which spec folder does the current conversation belong to?
2. Are parallel agents about to step on each other's edits?

## WHEN TO USE align_check

You MUST call align_check before saving any spec, plan, design note, or
progress update to disk, whenever:
- The user asks you to "save this", "write that up", or "note this down"
- You finish a planning or design discussion that produced artifacts
- You are about to create or update files under the spec folder root

Pass a one-or-two sentence summary of the conversation as text, every
file path touched in the conversation as files, and the workflow phase
(planning, implementation, verification) if it is clear.

How to act on the outcome:
- AutoSelected: save under the chosen folder without asking. Mention
  where the artifacts went.
- PromptUser: show the user the ranked list exactly as returned and let
  them pick. Never silently pick for them below the threshold.
- NoCandidates: suggest a short kebab-case folder name derived from the
  work and ask the user to confirm before creating it.

Do NOT call align_check for conversations that produce no artifacts
(questions, explanations, quick fixes with nothing to file).

## WHEN TO USE conflict_check and activity_log

When you work in a shared workspace alongside other agents:
1. Call activity_log with your agent name and the file you are about to
   edit (include line_start/line_end when you know the range)
2. Call conflict_check before starting a batch of edits
3. A blocking report (CRITICAL) means another agent is on the same
   lines — stop and tell the user instead of editing
4. HIGH and MEDIUM reports warn — proceed, but avoid the listed files
   where you can

## Other tools

- folder_list shows the catalog the scorer ranks against
- decision_log shows where recent conversations were routed and why

The journal behind conflict_check and decision_log may be unavailable;
the tools will say so. That is a degraded mode, not an error — scoring
still works.`
}
