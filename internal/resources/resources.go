// Package resources implements MCP resource handlers for the journal.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (specnav://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldez/specnav/internal/journal"
)

// recentLimit caps how many journal rows one resource read returns.
const recentLimit = 20

// Handler serves journal-backed resource endpoints.
type Handler struct {
	journal *journal.Journal
}

// NewHandler creates a resource Handler over the journal.
func NewHandler(j *journal.Journal) *Handler {
	return &Handler{journal: j}
}

// JournalResource returns the MCP resource definition for recent
// journal entries.
func (h *Handler) JournalResource() mcp.Resource {
	return mcp.NewResource(
		"specnav://journal/recent",
		"Recent Alignment Journal",
		mcp.WithResourceDescription("Recent alignment decisions and conflict reports"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleJournal returns recent decisions and conflict reports as JSON.
func (h *Handler) HandleJournal(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.journal == nil {
		return errorResource(req.Params.URI, "journal not available"), nil
	}

	decisions, err := h.journal.RecentDecisions(recentLimit)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	conflicts, err := h.journal.RecentConflicts(recentLimit)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	payload := struct {
		Decisions []journal.Decision      `json:"decisions"`
		Conflicts []journal.ConflictEntry `json:"conflicts"`
	}{decisions, conflicts}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling journal: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
