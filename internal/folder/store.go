package folder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pvaldez/specnav/internal/signal"
)

// SpecFileName is the artifact Create writes into a new folder.
const SpecFileName = "spec.md"

var (
	// ErrNotFound indicates the folder does not exist under the root.
	ErrNotFound = errors.New("folder: not found")
	// ErrExists indicates a Create collision.
	ErrExists = errors.New("folder: already exists")
)

// Store is the read surface the scorer and tools depend on.
// Abstracted for testability.
type Store interface {
	List(ctx context.Context) ([]Candidate, error)
	Load(ctx context.Context, id string) (Candidate, error)
	Create(ctx context.Context, id string, meta Meta) (Candidate, error)
	Relations(ctx context.Context) (map[string][]string, error)
	Exists(id string) bool
	Root() string
}

// DirStore reads spec folders straight from the filesystem on every
// call. Nothing is cached, so a rename or an archive is visible to the
// very next score.
type DirStore struct {
	root      string
	workspace string
}

// NewDirStore creates a catalog over root. Known-file mtimes resolve
// against workspace; an empty workspace defaults to the root's parent
// directory.
func NewDirStore(root, workspace string) *DirStore {
	if workspace == "" {
		workspace = filepath.Dir(root)
	}
	return &DirStore{root: root, workspace: workspace}
}

// Root returns the catalog's spec-folder root.
func (s *DirStore) Root() string {
	return s.root
}

// Exists reports whether a folder directory is present.
func (s *DirStore) Exists(id string) bool {
	info, err := os.Stat(filepath.Join(s.root, id))
	return err == nil && info.IsDir()
}

// List returns every folder under the root as a candidate, excluded
// ones included (flagged) so callers can display them. A missing root
// is an empty catalog, not an error. Folders that cannot be read are
// skipped.
func (s *DirStore) List(ctx context.Context) ([]Candidate, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading spec root: %w", err)
	}

	var result []Candidate
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		cand, err := s.load(entry.Name())
		if err != nil {
			continue
		}
		result = append(result, cand)
	}
	return result, nil
}

// Load reads one folder by name.
func (s *DirStore) Load(ctx context.Context, id string) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	return s.load(id)
}

// Create makes a new spec folder with a frontmatter-carrying spec.md.
// The id must already be in slug form (see SlugifyName).
func (s *DirStore) Create(ctx context.Context, id string, meta Meta) (Candidate, error) {
	if err := ctx.Err(); err != nil {
		return Candidate{}, err
	}
	if id == "" || id != SlugifyName(id) {
		return Candidate{}, fmt.Errorf("folder: invalid name %q", id)
	}
	dir := filepath.Join(s.root, id)
	if _, err := os.Stat(dir); err == nil {
		return Candidate{}, fmt.Errorf("%s: %w", id, ErrExists)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Candidate{}, fmt.Errorf("creating folder: %w", err)
	}

	body := fmt.Sprintf("# %s\n", strings.ReplaceAll(id, "-", " "))
	content, err := WriteFrontmatter(meta, []byte(body))
	if err != nil {
		return Candidate{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, SpecFileName), content, 0o644); err != nil {
		return Candidate{}, fmt.Errorf("writing %s: %w", SpecFileName, err)
	}
	return s.load(id)
}

// Relations merges every folder's related map into one catalog-wide
// view for conflict detection.
func (s *DirStore) Relations(ctx context.Context) (map[string][]string, error) {
	candidates, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	related := make(map[string][]string)
	for _, c := range candidates {
		meta, err := s.readMeta(filepath.Join(s.root, c.ID))
		if err != nil {
			continue
		}
		for k, v := range meta.Related {
			related[k] = append(related[k], v...)
		}
	}
	return related, nil
}

func (s *DirStore) load(id string) (Candidate, error) {
	dir := filepath.Join(s.root, id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Candidate{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	cand := Candidate{
		ID:           id,
		NameTokens:   signal.TokenizeName(id),
		Stage:        signal.PhaseUnknown,
		LastModified: info.ModTime(),
		Excluded:     IsExcludedName(id),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return cand, nil
	}

	meta := Meta{}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
		if fi, err := entry.Info(); err == nil && fi.ModTime().After(cand.LastModified) {
			cand.LastModified = fi.ModTime()
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		m, _, err := ParseFrontmatter(content)
		if err != nil {
			continue
		}
		mergeMeta(&meta, m)
	}

	if stage := signal.ParsePhase(meta.Stage); stage.Known() {
		cand.Stage = stage
	} else {
		cand.Stage = inferStage(names)
	}
	cand.KnownFiles = signal.CleanPaths(meta.Files)
	cand.FileTimes = s.statKnown(cand.KnownFiles)
	return cand, nil
}

// readMeta parses only the frontmatter of a folder's markdown files.
func (s *DirStore) readMeta(dir string) (Meta, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Meta{}, err
	}
	meta := Meta{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if m, _, err := ParseFrontmatter(content); err == nil {
			mergeMeta(&meta, m)
		}
	}
	return meta, nil
}

func (s *DirStore) statKnown(files []string) map[string]time.Time {
	if len(files) == 0 {
		return nil
	}
	times := make(map[string]time.Time, len(files))
	for _, f := range files {
		info, err := os.Stat(filepath.Join(s.workspace, filepath.FromSlash(f)))
		if err != nil {
			continue
		}
		times[f] = info.ModTime()
	}
	return times
}

// inferStage guesses the workflow stage from which artifacts a folder
// carries, for folders whose frontmatter does not say.
func inferStage(names []string) signal.Phase {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[strings.ToLower(n)] = true
	}
	switch {
	case present["verification.md"] || present["review.md"]:
		return signal.PhaseVerification
	case present["tasks.md"] || present["implementation.md"] || present["progress.md"]:
		return signal.PhaseImplementation
	case present["requirements.md"] || present["design.md"] || present["proposal.md"] || present["plan.md"]:
		return signal.PhasePlanning
	default:
		return signal.PhaseUnknown
	}
}
