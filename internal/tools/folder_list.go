package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldez/specnav/internal/folder"
)

// FolderListTool handles the folder_list MCP tool. It shows the spec
// folder catalog the way the scorer sees it.
type FolderListTool struct {
	catalog folder.Store
}

// NewFolderListTool creates a FolderListTool backed by the catalog.
func NewFolderListTool(catalog folder.Store) *FolderListTool {
	return &FolderListTool{catalog: catalog}
}

// Definition returns the MCP tool definition for registration.
func (t *FolderListTool) Definition() mcp.Tool {
	return mcp.NewTool("folder_list",
		mcp.WithDescription(
			"List the spec folders in the catalog with their workflow stage, known "+
				"files, and last activity. Archived folders are hidden unless asked for.",
		),
		mcp.WithBoolean("include_excluded",
			mcp.Description("Also list archived and otherwise excluded folders"),
		),
	)
}

// Handle processes the folder_list tool call.
func (t *FolderListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	includeExcluded := boolArg(req, "include_excluded", false)

	candidates, err := t.catalog.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing spec folders: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString("# Spec Folders\n\n")
	fmt.Fprintf(&sb, "Root: `%s`\n\n", t.catalog.Root())

	shown := 0
	hidden := 0
	for _, c := range candidates {
		if c.Excluded && !includeExcluded {
			hidden++
			continue
		}
		if shown == 0 {
			sb.WriteString("| Folder | Stage | Known Files | Last Modified |\n")
			sb.WriteString("|--------|-------|-------------|---------------|\n")
		}
		files := strings.Join(c.KnownFiles, ", ")
		if files == "" {
			files = "-"
		}
		name := c.ID
		if c.Excluded {
			name += " (excluded)"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
			name, c.Stage, files, c.LastModified.Format("2006-01-02 15:04:05"))
		shown++
	}

	if shown == 0 {
		sb.WriteString("No spec folders found. Create one when the next piece of work needs a home.\n")
	} else {
		sb.WriteString("\n")
	}
	if hidden > 0 {
		fmt.Fprintf(&sb, "_%d excluded folder(s) hidden. Pass include_excluded to see them._\n", hidden)
	}

	return mcp.NewToolResultText(sb.String()), nil
}
