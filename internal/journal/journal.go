// Package journal records tool invocations in a local SQLite sidecar.
//
// The journal is optional observability, never load-bearing: the server
// runs fine without one, and a nil *Journal accepts every call as a
// no-op. Entries feed the draft_stats tool and the stats resource.
package journal

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ─── Types ───────────────────────────────────────────────────────────────────

// Config holds journal settings.
type Config struct {
	// DataDir is where journal.db lives. Created if missing.
	DataDir string
}

// Entry is one recorded invocation.
type Entry struct {
	ID         string `json:"id"`
	Tool       string `json:"tool"`
	Kind       string `json:"kind"`
	Success    bool   `json:"success"`
	DurationMS int64  `json:"duration_ms"`
	ErrorCount int    `json:"error_count"`
	CreatedAt  string `json:"created_at"`
}

// ToolStats aggregates one tool's history.
type ToolStats struct {
	Tool     string `json:"tool"`
	Calls    int    `json:"calls"`
	Failures int    `json:"failures"`
}

// Stats aggregates the whole journal.
type Stats struct {
	TotalInvocations int         `json:"total_invocations"`
	TotalFailures    int         `json:"total_failures"`
	SuccessRate      float64     `json:"success_rate"`
	PerTool          []ToolStats `json:"per_tool"`
}

// Journal is a SQLite-backed invocation log. A nil *Journal is valid
// and ignores every call.
type Journal struct {
	db *sql.DB
}

// ─── Open / Close ────────────────────────────────────────────────────────────

// New opens (or creates) the journal database under cfg.DataDir with
// WAL mode and runs migrations.
func New(cfg Config) (*Journal, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, errors.Wrap(err, "journal: create data dir")
	}

	dbPath := filepath.Join(cfg.DataDir, "journal.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "journal: open database")
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, errors.Wrapf(err, "journal: pragma %q", p)
		}
	}

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		return nil, errors.Wrap(err, "journal: migration")
	}

	return j, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (j *Journal) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS invocations (
			id          TEXT PRIMARY KEY,
			tool        TEXT    NOT NULL,
			kind        TEXT    NOT NULL,
			success     INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			created_at  TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_inv_tool    ON invocations(tool);
		CREATE INDEX IF NOT EXISTS idx_inv_created ON invocations(created_at DESC);
	`
	_, err := j.db.Exec(schema)
	return err
}

// ─── Recording ───────────────────────────────────────────────────────────────

// Record inserts one invocation. Called from the registry observer on
// every invocation, success or not.
func (j *Journal) Record(e Entry) error {
	if j == nil {
		return nil
	}

	_, err := j.db.Exec(
		`INSERT INTO invocations (id, tool, kind, success, duration_ms, error_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Tool, e.Kind, boolToInt(e.Success), e.DurationMS, e.ErrorCount,
	)
	if err != nil {
		return errors.Wrap(err, "journal: record invocation")
	}
	return nil
}

// ─── Queries ─────────────────────────────────────────────────────────────────

// Stats aggregates the journal. A nil journal reports zeroes.
func (j *Journal) Stats() (Stats, error) {
	var stats Stats
	if j == nil {
		return stats, nil
	}

	if err := j.db.QueryRow("SELECT COUNT(*) FROM invocations").Scan(&stats.TotalInvocations); err != nil {
		return stats, errors.Wrap(err, "journal: counting invocations")
	}
	if err := j.db.QueryRow("SELECT COUNT(*) FROM invocations WHERE success = 0").Scan(&stats.TotalFailures); err != nil {
		return stats, errors.Wrap(err, "journal: counting failures")
	}
	if stats.TotalInvocations > 0 {
		ok := stats.TotalInvocations - stats.TotalFailures
		stats.SuccessRate = float64(ok) / float64(stats.TotalInvocations)
	}

	rows, err := j.db.Query(`
		SELECT tool,
		       COUNT(*) AS calls,
		       SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END) AS failures
		FROM invocations
		GROUP BY tool
		ORDER BY calls DESC, tool ASC`)
	if err != nil {
		return stats, errors.Wrap(err, "journal: per-tool stats")
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var ts ToolStats
		if err := rows.Scan(&ts.Tool, &ts.Calls, &ts.Failures); err != nil {
			return stats, errors.Wrap(err, "journal: scanning per-tool row")
		}
		stats.PerTool = append(stats.PerTool, ts)
	}
	if err := rows.Err(); err != nil {
		return stats, errors.Wrap(err, "journal: per-tool stats")
	}

	return stats, nil
}

// Recent returns the latest entries, newest first. A nil journal
// returns nothing.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	if j == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := j.db.Query(`
		SELECT id, tool, kind, success, duration_ms, error_count, created_at
		FROM invocations
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "journal: recent invocations")
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var success int
		if err := rows.Scan(&e.ID, &e.Tool, &e.Kind, &success, &e.DurationMS, &e.ErrorCount, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "journal: scanning entry")
		}
		e.Success = success != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "journal: recent invocations")
	}

	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
