// Package tools implements the MCP tool handlers for spec alignment.
//
// Each tool follows the same pattern:
// - A struct with dependencies (folder.Store, journal.Journal) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a markdown report
//
// The journal dependency is nullable everywhere. Tools answer from live
// workspace state; history is recorded when available and skipped when not.
package tools

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// splitList splits a comma or newline separated list into trimmed,
// non-empty entries.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
