package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldez/specnav/internal/config"
	"github.com/pvaldez/specnav/internal/conflict"
	"github.com/pvaldez/specnav/internal/folder"
	"github.com/pvaldez/specnav/internal/journal"
)

// --- Test helpers ---

// setupCatalog builds a workspace with a spec root holding two live
// folders and one archived one. The known file exists on disk with a
// fresh mtime so file matches earn the freshness boost.
func setupCatalog(t *testing.T) (folder.Store, string) {
	t.Helper()
	workspace := t.TempDir()
	root := filepath.Join(workspace, "specs")

	writeSpec(t, filepath.Join(root, "tab-menu-fix"),
		"---\nstage: implementation\nfiles:\n  - src/ui/tabs.css\n---\n\n# Tab menu fix\n")
	writeSpec(t, filepath.Join(root, "auth-retry"),
		"---\nstage: planning\n---\n\n# Auth retry\n")
	writeSpec(t, filepath.Join(root, "z_old-experiment"), "# Old experiment\n")

	cssDir := filepath.Join(workspace, "src", "ui")
	if err := os.MkdirAll(cssDir, 0o755); err != nil {
		t.Fatalf("setup: mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cssDir, "tabs.css"), []byte(".tab {}\n"), 0o644); err != nil {
		t.Fatalf("setup: write css: %v", err)
	}

	return folder.NewDirStore(root, workspace), root
}

func writeSpec(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("setup: mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "spec.md"), []byte(content), 0o644); err != nil {
		t.Fatalf("setup: write spec: %v", err)
	}
}

func newToolJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(journal.Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("setup: open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func testConfig(root string) config.Config {
	cfg := config.DefaultConfig()
	cfg.SpecRoot = root
	return cfg
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// --- AlignTool ---

func TestAlignTool_Handle_AutoSelects(t *testing.T) {
	catalog, root := setupCatalog(t)
	tool := NewAlignTool(catalog, newToolJournal(t), testConfig(root))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"text":  "fix tab menu",
		"files": "src/ui/tabs.css",
		"phase": "implementation",
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}

	text := getResultText(result)
	if !strings.Contains(text, "AutoSelected") {
		t.Errorf("result should report AutoSelected, got: %s", text)
	}
	if !strings.Contains(text, "tab-menu-fix") {
		t.Errorf("result should name the chosen folder, got: %s", text)
	}
	if !strings.Contains(text, "Ranking") {
		t.Error("result should include the ranking table")
	}
}

func TestAlignTool_Handle_MissingText(t *testing.T) {
	catalog, root := setupCatalog(t)
	tool := NewAlignTool(catalog, nil, testConfig(root))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("should return error when text is missing")
	}
}

func TestAlignTool_Handle_PromptsOnWeakMatch(t *testing.T) {
	catalog, root := setupCatalog(t)
	tool := NewAlignTool(catalog, nil, testConfig(root))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"text": "database migration rollout",
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "PromptUser") {
		t.Errorf("weak signal should prompt, got: %s", text)
	}
	if !strings.Contains(text, "1. **") {
		t.Error("prompt should list numbered candidates for the user")
	}
}

func TestAlignTool_Handle_NoCandidates(t *testing.T) {
	workspace := t.TempDir()
	root := filepath.Join(workspace, "specs")
	catalog := folder.NewDirStore(root, workspace)
	tool := NewAlignTool(catalog, nil, testConfig(root))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"text": "fix tab menu",
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "NoCandidates") {
		t.Errorf("empty catalog should report NoCandidates, got: %s", text)
	}
	if !strings.Contains(text, "creating a new folder") {
		t.Error("NoCandidates should suggest creating a folder")
	}
}

func TestAlignTool_Handle_ExplicitFolderWins(t *testing.T) {
	catalog, root := setupCatalog(t)
	tool := NewAlignTool(catalog, nil, testConfig(root))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"text":   "fix tab menu",
		"folder": "auth-retry",
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "AutoSelected") {
		t.Errorf("explicit folder should auto-select, got: %s", text)
	}
	if !strings.Contains(text, "**Chosen:** auth-retry") {
		t.Errorf("explicit folder should win over the ranked leader, got: %s", text)
	}
}

func TestAlignTool_Handle_AutoSaveOff(t *testing.T) {
	catalog, root := setupCatalog(t)
	tool := NewAlignTool(catalog, nil, testConfig(root))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"text":      "fix tab menu",
		"files":     "src/ui/tabs.css",
		"phase":     "implementation",
		"auto_save": false,
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "PromptUser") {
		t.Errorf("auto_save=false should force a prompt even on a strong match, got: %s", text)
	}
}

func TestAlignTool_Handle_RecordsDecision(t *testing.T) {
	catalog, root := setupCatalog(t)
	j := newToolJournal(t)
	tool := NewAlignTool(catalog, j, testConfig(root))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"text":    "fix tab menu",
		"files":   "src/ui/tabs.css",
		"phase":   "implementation",
		"session": "sess-42",
	}

	if _, err := tool.Handle(context.Background(), req); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	decisions, err := j.RecentDecisions(5)
	if err != nil {
		t.Fatalf("RecentDecisions failed: %v", err)
	}
	if len(decisions) != 1 {
		t.Fatalf("got %d journaled decisions, want 1", len(decisions))
	}
	d := decisions[0]
	if d.Outcome != "AutoSelected" {
		t.Errorf("journaled outcome = %s, want AutoSelected", d.Outcome)
	}
	if d.Chosen == nil || *d.Chosen != "tab-menu-fix" {
		t.Errorf("journaled chosen = %v, want tab-menu-fix", d.Chosen)
	}
	if d.Session != "sess-42" {
		t.Errorf("journaled session = %s, want sess-42", d.Session)
	}
}

func TestAlignTool_Handle_ExcludedFolderHidden(t *testing.T) {
	catalog, root := setupCatalog(t)
	tool := NewAlignTool(catalog, nil, testConfig(root))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"text": "old experiment",
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if strings.Contains(text, "z_old-experiment") {
		t.Errorf("archived folders must never appear in the ranking: %s", text)
	}
}

// --- ConflictTool ---

func TestConflictTool_Handle_ExplicitRecords(t *testing.T) {
	tool := NewConflictTool(nil, nil, config.DefaultConfig())

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"records": `[{"path":"src/api.go","agents":["alpha","beta"],"kind":"same_lines","lines":"10-20"}]`,
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}

	text := getResultText(result)
	if !strings.Contains(text, "CRITICAL") {
		t.Errorf("same-line overlap should be CRITICAL, got: %s", text)
	}
	if !strings.Contains(text, "**Blocking:** true") {
		t.Errorf("CRITICAL should block, got: %s", text)
	}
	if !strings.Contains(text, "Stop before editing") {
		t.Error("blocking report should tell the agent to stop")
	}
}

func TestConflictTool_Handle_MalformedRecordsFailsOpen(t *testing.T) {
	tool := NewConflictTool(nil, nil, config.DefaultConfig())

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"records": "this is not json",
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatal("malformed records must fail open, not error")
	}

	text := getResultText(result)
	if !strings.Contains(text, "NONE") {
		t.Errorf("malformed records should report NONE, got: %s", text)
	}
	if !strings.Contains(text, "not parseable") {
		t.Error("report should note that records were unreadable")
	}
}

func TestConflictTool_Handle_DerivesFromJournal(t *testing.T) {
	j := newToolJournal(t)
	now := time.Now()
	for _, a := range []conflict.Activity{
		{Agent: "alpha", Path: "src/api.go", Op: "edit", LineStart: 10, LineEnd: 20, RecordedAt: now},
		{Agent: "beta", Path: "src/api.go", Op: "edit", LineStart: 15, LineEnd: 30, RecordedAt: now},
	} {
		if _, err := j.RecordActivity(a); err != nil {
			t.Fatalf("RecordActivity failed: %v", err)
		}
	}

	tool := NewConflictTool(nil, j, config.DefaultConfig())

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "CRITICAL") {
		t.Errorf("overlapping line ranges should be CRITICAL, got: %s", text)
	}
	if !strings.Contains(text, "15-20") {
		t.Errorf("report should carry the intersecting range, got: %s", text)
	}
}

func TestConflictTool_Handle_WindowFiltersStale(t *testing.T) {
	j := newToolJournal(t)
	stale := time.Now().Add(-2 * time.Hour)
	for _, a := range []conflict.Activity{
		{Agent: "alpha", Path: "src/api.go", RecordedAt: stale},
		{Agent: "beta", Path: "src/api.go", RecordedAt: stale},
	} {
		if _, err := j.RecordActivity(a); err != nil {
			t.Fatalf("RecordActivity failed: %v", err)
		}
	}

	tool := NewConflictTool(nil, j, config.DefaultConfig())

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "NONE") {
		t.Errorf("activity outside the window should not conflict, got: %s", text)
	}
}

func TestConflictTool_Handle_RelatedFiles(t *testing.T) {
	j := newToolJournal(t)
	now := time.Now()
	for _, a := range []conflict.Activity{
		{Agent: "alpha", Path: "src/api/handler.go", RecordedAt: now},
		{Agent: "beta", Path: "src/api/handler_test.go", RecordedAt: now},
	} {
		if _, err := j.RecordActivity(a); err != nil {
			t.Fatalf("RecordActivity failed: %v", err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Related = map[string][]string{
		"src/api/handler.go": {"src/api/handler_test.go"},
	}
	tool := NewConflictTool(nil, j, cfg)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "MEDIUM") {
		t.Errorf("linked paths should be MEDIUM, got: %s", text)
	}
	if !strings.Contains(text, "**Blocking:** false") {
		t.Error("MEDIUM must not block")
	}
}

func TestConflictTool_Handle_FrontmatterRelations(t *testing.T) {
	j := newToolJournal(t)
	now := time.Now()
	for _, a := range []conflict.Activity{
		{Agent: "alpha", Path: "src/schema.sql", RecordedAt: now},
		{Agent: "beta", Path: "src/models/user.go", RecordedAt: now},
	} {
		if _, err := j.RecordActivity(a); err != nil {
			t.Fatalf("RecordActivity failed: %v", err)
		}
	}

	// The relation hint lives in a folder's frontmatter, not the config.
	workspace := t.TempDir()
	root := filepath.Join(workspace, "specs")
	writeSpec(t, filepath.Join(root, "user-model"),
		"---\nrelated:\n  src/schema.sql:\n    - src/models/user.go\n---\n\n# User model\n")
	catalog := folder.NewDirStore(root, workspace)

	tool := NewConflictTool(catalog, j, config.DefaultConfig())

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "MEDIUM") {
		t.Errorf("frontmatter-linked paths should be MEDIUM, got: %s", text)
	}
	if !strings.Contains(text, "src/models/user.go ~ src/schema.sql") {
		t.Errorf("report should name the linked pair, got: %s", text)
	}
}

func TestConflictTool_Handle_PersistsReport(t *testing.T) {
	j := newToolJournal(t)
	tool := NewConflictTool(nil, j, config.DefaultConfig())

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"records": `[{"path":"src/api.go","agents":["alpha","beta"],"kind":"same_file"}]`,
	}

	if _, err := tool.Handle(context.Background(), req); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	entries, err := j.RecentConflicts(5)
	if err != nil {
		t.Fatalf("RecentConflicts failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d journaled reports, want 1", len(entries))
	}
	if entries[0].Severity != "HIGH" {
		t.Errorf("journaled severity = %s, want HIGH", entries[0].Severity)
	}
	if entries[0].Agents != "alpha, beta" {
		t.Errorf("journaled agents = %q, want %q", entries[0].Agents, "alpha, beta")
	}
}

func TestConflictTool_Handle_NoJournalNoRecords(t *testing.T) {
	tool := NewConflictTool(nil, nil, config.DefaultConfig())

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "NONE") {
		t.Errorf("nothing to examine should report NONE, got: %s", text)
	}
	if !strings.Contains(text, "no journal available") {
		t.Error("report should note the journal is missing")
	}
}

// --- FolderListTool ---

func TestFolderListTool_Handle_ListsFolders(t *testing.T) {
	catalog, _ := setupCatalog(t)
	tool := NewFolderListTool(catalog)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "tab-menu-fix") || !strings.Contains(text, "auth-retry") {
		t.Errorf("listing should show live folders, got: %s", text)
	}
	if strings.Contains(text, "z_old-experiment") {
		t.Error("archived folders should be hidden by default")
	}
	if !strings.Contains(text, "excluded folder(s) hidden") {
		t.Error("listing should count hidden folders")
	}
	if !strings.Contains(text, "implementation") {
		t.Error("listing should show workflow stages")
	}
}

func TestFolderListTool_Handle_IncludeExcluded(t *testing.T) {
	catalog, _ := setupCatalog(t)
	tool := NewFolderListTool(catalog)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"include_excluded": true,
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "z_old-experiment (excluded)") {
		t.Errorf("include_excluded should show archived folders flagged, got: %s", text)
	}
}

func TestFolderListTool_Handle_EmptyRoot(t *testing.T) {
	workspace := t.TempDir()
	catalog := folder.NewDirStore(filepath.Join(workspace, "specs"), workspace)
	tool := NewFolderListTool(catalog)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "No spec folders found") {
		t.Errorf("empty catalog should say so, got: %s", text)
	}
}

// --- DecisionLogTool ---

func TestDecisionLogTool_Handle_Empty(t *testing.T) {
	tool := NewDecisionLogTool(newToolJournal(t))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "No decisions recorded yet") {
		t.Errorf("empty journal should say so, got: %s", text)
	}
}

func TestDecisionLogTool_Handle_ShowsDecisions(t *testing.T) {
	catalog, root := setupCatalog(t)
	j := newToolJournal(t)
	alignTool := NewAlignTool(catalog, j, testConfig(root))

	seed := mcp.CallToolRequest{}
	seed.Params.Arguments = map[string]interface{}{
		"text":  "fix tab menu",
		"files": "src/ui/tabs.css",
		"phase": "implementation",
	}
	if _, err := alignTool.Handle(context.Background(), seed); err != nil {
		t.Fatalf("seed Handle failed: %v", err)
	}

	tool := NewDecisionLogTool(j)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"limit": 5.0,
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "AutoSelected") {
		t.Errorf("log should show the outcome, got: %s", text)
	}
	if !strings.Contains(text, "tab-menu-fix") {
		t.Error("log should show the chosen folder")
	}
	if !strings.Contains(text, "#1") {
		t.Error("log should show the ranking")
	}
}

func TestDecisionLogTool_Handle_NilJournal(t *testing.T) {
	tool := NewDecisionLogTool(nil)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "not available") {
		t.Errorf("missing journal should be reported, got: %s", text)
	}
}

// --- ActivityLogTool ---

func TestActivityLogTool_Handle_Records(t *testing.T) {
	j := newToolJournal(t)
	tool := NewActivityLogTool(j)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"agent": "alpha",
		"path":  "src/api.go",
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}

	text := getResultText(result)
	if !strings.Contains(text, "Recorded: alpha edit src/api.go") {
		t.Errorf("confirmation should echo the event, got: %s", text)
	}

	events, err := j.ActivitySince(time.Hour)
	if err != nil {
		t.Fatalf("ActivitySince failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d journaled events, want 1", len(events))
	}
	if events[0].Agent != "alpha" || events[0].Path != "src/api.go" {
		t.Errorf("journaled event = %+v", events[0])
	}
}

func TestActivityLogTool_Handle_LineRange(t *testing.T) {
	j := newToolJournal(t)
	tool := NewActivityLogTool(j)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"agent":      "beta",
		"path":       "src/api.go",
		"op":         "edit",
		"line_start": 10.0,
		"line_end":   20.0,
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "lines 10-20") {
		t.Errorf("confirmation should include the range, got: %s", text)
	}

	events, err := j.ActivitySince(time.Hour)
	if err != nil {
		t.Fatalf("ActivitySince failed: %v", err)
	}
	if len(events) != 1 || events[0].LineStart != 10 || events[0].LineEnd != 20 {
		t.Errorf("journaled range wrong: %+v", events)
	}
}

func TestActivityLogTool_Handle_MissingFields(t *testing.T) {
	tool := NewActivityLogTool(newToolJournal(t))

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{name: "missing agent", args: map[string]interface{}{"path": "src/api.go"}},
		{name: "missing path", args: map[string]interface{}{"agent": "alpha"}},
		{name: "missing both", args: map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Arguments = tt.args

			result, err := tool.Handle(context.Background(), req)
			if err != nil {
				t.Fatalf("Handle failed: %v", err)
			}
			if !isErrorResult(result) {
				t.Error("should return error when agent or path is missing")
			}
		})
	}
}

func TestActivityLogTool_Handle_NilJournal(t *testing.T) {
	tool := NewActivityLogTool(nil)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{
		"agent": "alpha",
		"path":  "src/api.go",
	}

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatal("missing journal should degrade, not error")
	}

	text := getResultText(result)
	if !strings.Contains(text, "not recorded") {
		t.Errorf("degraded path should say the event was not recorded, got: %s", text)
	}
}

// --- splitList ---

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "commas", input: "a.go, b.go,c.go", want: []string{"a.go", "b.go", "c.go"}},
		{name: "newlines", input: "a.go\nb.go\n", want: []string{"a.go", "b.go"}},
		{name: "mixed blanks", input: " a.go ,\n, b.go ", want: []string{"a.go", "b.go"}},
		{name: "empty", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitList(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitList(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitList(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
