package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultSQLiteDBName = "runlog.db"

type SQLiteService struct {
	db     *sql.DB
	retain int
}

func NewSQLiteServiceFromEnv() (*SQLiteService, error) {
	dbPath, err := sqlitePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteService(dbPath)
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteRunSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{
		db:     db,
		retain: envIntOrDefault("RUNLOG_RETAIN", defaultRetainLimit),
	}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) RecordRunStart(ctx context.Context, start RunStart) (int64, error) {
	if start.StartedAt.IsZero() {
		start.StartedAt = time.Now().UTC()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	nowMs := time.Now().UTC().UnixMilli()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
INSERT INTO run_history (class, ascension, seed, started_at_ms, created_at_ms)
VALUES (?, ?, ?, ?, ?)
`, start.Class, start.Ascension, start.Seed, start.StartedAt.UTC().UnixMilli(), nowMs)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if s.retain > 0 {
		if _, err := tx.ExecContext(ctx, `
DELETE FROM run_history
WHERE id IN (
    SELECT id
    FROM run_history
    ORDER BY started_at_ms DESC, id DESC
    LIMIT -1 OFFSET ?
)
`, s.retain); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *SQLiteService) RecordRunEnd(ctx context.Context, runID int64, end RunEnd) error {
	if runID == 0 {
		return ErrNotFound
	}
	if end.EndedAt.IsZero() {
		end.EndedAt = time.Now().UTC()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE run_history
SET ended_at_ms = ?,
    victory = ?,
    score = ?,
    floor = ?,
    faults = ?,
    tape_path = ?
WHERE id = ?
`, end.EndedAt.UTC().UnixMilli(), boolToInt(end.Victory), end.Score, end.Floor, end.Faults, end.TapePath, runID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteService) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, class, ascension, seed, started_at_ms, ended_at_ms, victory, score, floor, faults, tape_path
FROM run_history
ORDER BY started_at_ms DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunRecord, 0, limit)
	for rows.Next() {
		var r RunRecord
		var startedAtMs int64
		var endedAtMs sql.NullInt64
		var victory int64
		if err := rows.Scan(&r.ID, &r.Class, &r.Ascension, &r.Seed, &startedAtMs, &endedAtMs, &victory, &r.Score, &r.Floor, &r.Faults, &r.TapePath); err != nil {
			return nil, err
		}
		r.StartedAt = time.UnixMilli(startedAtMs).UTC()
		if endedAtMs.Valid {
			t := time.UnixMilli(endedAtMs.Int64).UTC()
			r.EndedAt = &t
		}
		r.Victory = victory == 1
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func ensureSQLiteRunSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS run_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    class TEXT NOT NULL DEFAULT '',
    ascension INTEGER NOT NULL DEFAULT 0,
    seed TEXT NOT NULL DEFAULT '',
    started_at_ms INTEGER NOT NULL,
    ended_at_ms INTEGER,
    victory INTEGER NOT NULL DEFAULT 0,
    score INTEGER NOT NULL DEFAULT 0,
    floor INTEGER NOT NULL DEFAULT 0,
    faults INTEGER NOT NULL DEFAULT 0,
    tape_path TEXT NOT NULL DEFAULT '',
    created_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_run_history_recent ON run_history(started_at_ms DESC, id DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func sqlitePathFromEnv() (string, error) {
	if v := strings.TrimSpace(os.Getenv("RUNLOG_SQLITE_PATH")); v != "" {
		return filepath.Clean(v), nil
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "spirepilot", defaultSQLiteDBName), nil
}

func boolToInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
