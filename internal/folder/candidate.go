// Package folder catalogs the spec folders of a workspace. Each
// top-level directory under the spec root is one candidate work stream;
// the catalog reads folder names, artifact frontmatter, and mtimes into
// plain Candidate values for the scorer. Reads are always fresh — there
// is no cache to go stale between a folder rename and the next score.
package folder

import (
	"strings"
	"time"

	"github.com/pvaldez/specnav/internal/signal"
)

// Candidate is a spec folder as the scorer sees it. All paths are
// workspace-relative with forward slashes.
type Candidate struct {
	ID           string       `json:"id"`
	NameTokens   []string     `json:"nameTokens"`
	KnownFiles   []string     `json:"knownFiles,omitempty"`
	Stage        signal.Phase `json:"workflowStage"`
	LastModified time.Time    `json:"lastModified"`
	Excluded     bool         `json:"excluded,omitempty"`

	// FileTimes carries modification times for KnownFiles entries that
	// resolve on disk, keyed by the same relative path. The scorer uses
	// them for the freshness boost; missing entries simply earn none.
	FileTimes map[string]time.Time `json:"-"`
}

// IsExcludedName reports whether a folder name is excluded from scoring:
// archived folders ("z_" prefix, the archiver's rename convention),
// anything containing "archive", and "old"-prefixed leftovers. Matching
// is case-insensitive.
func IsExcludedName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "z_") ||
		strings.HasPrefix(lower, "old") ||
		strings.Contains(lower, "archive")
}
