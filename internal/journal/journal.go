// Package journal persists alignment decisions, conflict reports, and
// agent activity in a SQLite database under the workspace spec root.
//
// The journal is an audit trail rather than a dependency: scoring and
// conflict classification run entirely in memory, so callers treat a
// missing or broken journal as a warning, not a failure.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pvaldez/specnav/internal/align"
	"github.com/pvaldez/specnav/internal/conflict"
	"github.com/pvaldez/specnav/internal/signal"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const dbFileName = "journal.db"

// ─── Types ───────────────────────────────────────────────────────────────────

// Decision is a persisted alignment decision with its ranked scores.
type Decision struct {
	ID        string  `json:"id"`
	Session   string  `json:"session,omitempty"`
	Outcome   string  `json:"outcome"`
	Chosen    *string `json:"chosen,omitempty"`
	Total     float64 `json:"total"`
	Topics    string  `json:"topics,omitempty"`
	CreatedAt string  `json:"created_at"`
	Ranks     []Rank  `json:"ranks,omitempty"`
}

// Rank is one candidate's scores within a persisted decision.
type Rank struct {
	Rank      int     `json:"rank"`
	Candidate string  `json:"candidate"`
	Total     float64 `json:"total"`
	Topic     float64 `json:"topic"`
	File      float64 `json:"file"`
	Phase     float64 `json:"phase"`
	Recency   float64 `json:"recency"`
}

// ConflictEntry is a persisted conflict classification.
type ConflictEntry struct {
	ID        string `json:"id"`
	Severity  string `json:"severity"`
	Block     bool   `json:"block"`
	Reason    string `json:"reason,omitempty"`
	Agents    string `json:"agents,omitempty"`
	Paths     string `json:"paths,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds journal storage configuration.
type Config struct {
	// Dir is the directory holding journal.db. Created if missing.
	Dir string
}

// DefaultConfig returns the journal configuration for a spec root.
func DefaultConfig(root string) Config {
	return Config{Dir: filepath.Join(root, ".specnav")}
}

// ─── Journal ─────────────────────────────────────────────────────────────────

// Journal is the persistent audit log backed by SQLite.
type Journal struct {
	db *sql.DB
}

// Open creates the journal directory if needed, opens SQLite with WAL
// mode, and runs migrations.
func Open(cfg Config) (*Journal, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("journal: empty directory")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal: create dir: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFileName)
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("journal: pragma %q: %w", p, err)
		}
	}

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		return nil, fmt.Errorf("journal: migration: %w", err)
	}
	return j, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (j *Journal) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS decisions (
			id         TEXT PRIMARY KEY,
			session    TEXT NOT NULL DEFAULT '',
			outcome    TEXT NOT NULL,
			chosen     TEXT,
			total      REAL NOT NULL DEFAULT 0,
			topics     TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_decisions_created ON decisions(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_decisions_session ON decisions(session);

		CREATE TABLE IF NOT EXISTS decision_ranks (
			decision_id TEXT    NOT NULL,
			rank        INTEGER NOT NULL,
			candidate   TEXT    NOT NULL,
			total       REAL    NOT NULL,
			topic       REAL    NOT NULL,
			file        REAL    NOT NULL,
			phase       REAL    NOT NULL,
			recency     REAL    NOT NULL,
			FOREIGN KEY (decision_id) REFERENCES decisions(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_ranks_decision ON decision_ranks(decision_id, rank);

		CREATE TABLE IF NOT EXISTS conflict_reports (
			id         TEXT PRIMARY KEY,
			severity   TEXT    NOT NULL,
			block      INTEGER NOT NULL DEFAULT 0,
			reason     TEXT    NOT NULL DEFAULT '',
			agents     TEXT    NOT NULL DEFAULT '',
			paths      TEXT    NOT NULL DEFAULT '',
			created_at TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_conflicts_created ON conflict_reports(created_at DESC);

		CREATE TABLE IF NOT EXISTS activity (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			agent       TEXT    NOT NULL,
			path        TEXT    NOT NULL,
			op          TEXT    NOT NULL DEFAULT '',
			line_start  INTEGER NOT NULL DEFAULT 0,
			line_end    INTEGER NOT NULL DEFAULT 0,
			recorded_at TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_activity_recorded ON activity(recorded_at DESC);
		CREATE INDEX IF NOT EXISTS idx_activity_agent    ON activity(agent);
	`
	_, err := j.db.Exec(schema)
	return err
}

// ─── Decisions ───────────────────────────────────────────────────────────────

// RecordDecision stores an alignment decision and its full ranking.
// It returns the generated decision ID.
func (j *Journal) RecordDecision(session string, sig signal.Signal, dec align.Decision) (string, error) {
	id := uuid.New().String()

	var chosen any
	total := 0.0
	if dec.Chosen != nil {
		chosen = dec.Chosen.CandidateID
		total = dec.Chosen.Total
	} else if len(dec.Ranked) > 0 {
		total = dec.Ranked[0].Total
	}

	tx, err := j.db.Begin()
	if err != nil {
		return "", fmt.Errorf("journal: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO decisions (id, session, outcome, chosen, total, topics) VALUES (?, ?, ?, ?, ?, ?)`,
		id, session, string(dec.Outcome), chosen, total, strings.Join(sig.Topics, " "),
	)
	if err != nil {
		return "", fmt.Errorf("journal: insert decision: %w", err)
	}

	for i, r := range dec.Ranked {
		_, err = tx.Exec(
			`INSERT INTO decision_ranks (decision_id, rank, candidate, total, topic, file, phase, recency)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i+1, r.CandidateID, r.Total, r.TopicScore, r.FileScore, r.PhaseScore, r.RecencyScore,
		)
		if err != nil {
			return "", fmt.Errorf("journal: insert rank: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("journal: commit: %w", err)
	}
	return id, nil
}

// RecentDecisions returns the most recent decisions, newest first,
// with their rankings attached.
func (j *Journal) RecentDecisions(limit int) ([]Decision, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := j.db.Query(
		`SELECT id, session, outcome, chosen, total, topics, created_at
		 FROM decisions ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Decision
	for rows.Next() {
		var d Decision
		var chosen sql.NullString
		if err := rows.Scan(&d.ID, &d.Session, &d.Outcome, &chosen, &d.Total, &d.Topics, &d.CreatedAt); err != nil {
			return nil, err
		}
		if chosen.Valid {
			d.Chosen = &chosen.String
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		ranks, err := j.decisionRanks(results[i].ID)
		if err != nil {
			return nil, err
		}
		results[i].Ranks = ranks
	}
	return results, nil
}

func (j *Journal) decisionRanks(decisionID string) ([]Rank, error) {
	rows, err := j.db.Query(
		`SELECT rank, candidate, total, topic, file, phase, recency
		 FROM decision_ranks WHERE decision_id = ? ORDER BY rank`, decisionID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ranks []Rank
	for rows.Next() {
		var r Rank
		if err := rows.Scan(&r.Rank, &r.Candidate, &r.Total, &r.Topic, &r.File, &r.Phase, &r.Recency); err != nil {
			return nil, err
		}
		ranks = append(ranks, r)
	}
	return ranks, rows.Err()
}

// ─── Conflicts ───────────────────────────────────────────────────────────────

// RecordConflict stores a conflict classification along with the agents
// and paths that were examined. It returns the generated report ID.
func (j *Journal) RecordConflict(rep conflict.Report, records []conflict.Record) (string, error) {
	id := uuid.New().String()

	agents := map[string]bool{}
	paths := map[string]bool{}
	for _, rec := range records {
		for _, a := range rec.Agents {
			agents[a] = true
		}
		paths[rec.Path] = true
	}

	_, err := j.db.Exec(
		`INSERT INTO conflict_reports (id, severity, block, reason, agents, paths) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(rep.Severity), rep.Block, rep.Reason, joinSorted(agents), joinSorted(paths),
	)
	if err != nil {
		return "", fmt.Errorf("journal: insert conflict: %w", err)
	}
	return id, nil
}

// RecentConflicts returns the most recent conflict reports, newest first.
func (j *Journal) RecentConflicts(limit int) ([]ConflictEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := j.db.Query(
		`SELECT id, severity, block, reason, agents, paths, created_at
		 FROM conflict_reports ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []ConflictEntry
	for rows.Next() {
		var c ConflictEntry
		if err := rows.Scan(&c.ID, &c.Severity, &c.Block, &c.Reason, &c.Agents, &c.Paths, &c.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// ─── Activity ────────────────────────────────────────────────────────────────

// RecordActivity stores one agent file-touch event. A zero RecordedAt
// is stamped with the current time.
func (j *Journal) RecordActivity(a conflict.Activity) (int64, error) {
	if a.Agent == "" || a.Path == "" {
		return 0, fmt.Errorf("journal: activity needs agent and path")
	}
	at := a.RecordedAt
	if at.IsZero() {
		at = time.Now()
	}

	res, err := j.db.Exec(
		`INSERT INTO activity (agent, path, op, line_start, line_end, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.Agent, a.Path, a.Op, a.LineStart, a.LineEnd, formatTime(at),
	)
	if err != nil {
		return 0, fmt.Errorf("journal: insert activity: %w", err)
	}
	return res.LastInsertId()
}

// ActivitySince returns all activity recorded within the given window,
// oldest first.
func (j *Journal) ActivitySince(window time.Duration) ([]conflict.Activity, error) {
	cutoff := formatTime(time.Now().Add(-window))

	rows, err := j.db.Query(
		`SELECT agent, path, op, line_start, line_end, recorded_at
		 FROM activity WHERE recorded_at >= ? ORDER BY recorded_at, id`, cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []conflict.Activity
	for rows.Next() {
		var a conflict.Activity
		var at string
		if err := rows.Scan(&a.Agent, &a.Path, &a.Op, &a.LineStart, &a.LineEnd, &at); err != nil {
			return nil, err
		}
		a.RecordedAt, _ = time.Parse(time.RFC3339, at)
		events = append(events, a)
	}
	return events, rows.Err()
}

// PruneActivity deletes activity older than the given age and returns
// the number of rows removed.
func (j *Journal) PruneActivity(olderThan time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().Add(-olderThan))

	res, err := j.db.Exec(`DELETE FROM activity WHERE recorded_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("journal: prune activity: %w", err)
	}
	return res.RowsAffected()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// formatTime renders a timestamp as fixed-width RFC 3339 UTC so that
// string comparison in SQL matches chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func joinSorted(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
