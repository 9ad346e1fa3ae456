// Package watch records workspace file events as agent activity. Each
// create, write, rename, or remove under the watched root becomes one
// activity row attributed to the agent running the watcher. The watcher
// has no view of line ranges, so its events can flag file-level overlap
// but never line-level overlap.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pvaldez/specnav/internal/conflict"
)

// Recorder persists one activity event.
type Recorder interface {
	RecordActivity(conflict.Activity) (int64, error)
}

// Watcher streams file events from a workspace root into a Recorder.
type Watcher struct {
	root     string
	agent    string
	recorder Recorder
	fsw      *fsnotify.Watcher

	// Logf receives non-fatal watcher problems. Defaults to discard.
	Logf func(format string, args ...any)
}

// New sets up a recursive watcher over root. Call Run to start
// delivering events and Close to release the inotify handles.
func New(root, agent string, rec Recorder) (*Watcher, error) {
	if agent == "" {
		return nil, fmt.Errorf("watch: agent name required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: root %s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		agent:    agent,
		recorder: rec,
		fsw:      fsw,
		Logf:     func(string, ...any) {},
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run delivers events until the context is cancelled or the event
// channel closes.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.Logf("watch error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil || skipPath(rel) {
		return
	}

	// New directories join the watch set so nested edits keep arriving.
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.Logf("watch subtree %s: %v", rel, err)
			}
			return
		}
	}

	op := opName(ev.Op)
	if op == "" {
		return
	}

	activity := conflict.Activity{
		Agent:      w.agent,
		Path:       filepath.ToSlash(rel),
		Op:         op,
		RecordedAt: time.Now(),
	}
	if _, err := w.recorder.RecordActivity(activity); err != nil {
		w.Logf("record %s %s: %v", op, rel, err)
	}
}

// addTree registers dir and every non-skipped directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return err
		}
		if rel != "." && skipPath(rel) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", rel, err)
		}
		return nil
	})
}

// skipPath reports whether a root-relative path sits inside a directory
// the watcher ignores.
func skipPath(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "node_modules" || (strings.HasPrefix(part, ".") && part != ".") {
			return true
		}
	}
	return false
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "edit"
	case op.Has(fsnotify.Remove):
		return "delete"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}
