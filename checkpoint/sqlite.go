package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a Store backed by a SQLite database at dbPath,
// creating the file and schema as needed. Checkpoint ids are assigned by
// the database and increase monotonically across all threads.
func NewSQLiteStore(dbPath string) (Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// WAL keeps concurrent readers off the writer's back.
	dsn := dbPath + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &sqliteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *sqliteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS checkpoints (
		checkpoint_id INTEGER PRIMARY KEY AUTOINCREMENT,
		thread_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		snapshot TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_checkpoints_thread ON checkpoints(thread_id, checkpoint_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *sqliteStore) Save(ctx context.Context, threadID string, snapshot []byte) error {
	query := `INSERT INTO checkpoints (thread_id, created_at, snapshot) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, threadID, time.Now().Unix(), string(snapshot)); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}

func (s *sqliteStore) Latest(ctx context.Context, threadID string) ([]byte, error) {
	query := `
		SELECT snapshot FROM checkpoints
		WHERE thread_id = ?
		ORDER BY checkpoint_id DESC LIMIT 1`

	var snapshot string
	err := s.db.QueryRowContext(ctx, query, threadID).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, threadID)
	}
	if err != nil {
		return nil, fmt.Errorf("load latest checkpoint: %w", err)
	}
	return []byte(snapshot), nil
}

func (s *sqliteStore) History(ctx context.Context, threadID string) ([]Record, error) {
	query := `
		SELECT checkpoint_id, created_at, snapshot FROM checkpoints
		WHERE thread_id = ?
		ORDER BY checkpoint_id`

	rows, err := s.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var createdAt int64
		var snapshot string
		if err := rows.Scan(&rec.CheckpointID, &createdAt, &snapshot); err != nil {
			return nil, fmt.Errorf("scan checkpoint row: %w", err)
		}
		rec.ThreadID = threadID
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		rec.Snapshot = []byte(snapshot)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return records, nil
}

func (s *sqliteStore) Threads(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT thread_id FROM checkpoints ORDER BY thread_id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query threads: %w", err)
	}
	defer rows.Close()

	var threads []string
	for rows.Next() {
		var threadID string
		if err := rows.Scan(&threadID); err != nil {
			return nil, fmt.Errorf("scan thread row: %w", err)
		}
		threads = append(threads, threadID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate threads: %w", err)
	}

	return threads, nil
}

func (s *sqliteStore) Clear(ctx context.Context, threadID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE thread_id = ?`, threadID)
	if err != nil {
		return 0, fmt.Errorf("clear thread: %w", err)
	}
	return result.RowsAffected()
}

func (s *sqliteStore) ClearAll(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints`)
	if err != nil {
		return 0, fmt.Errorf("clear all threads: %w", err)
	}
	return result.RowsAffected()
}

func (s *sqliteStore) Info(ctx context.Context, threadID string) (*Info, error) {
	query := `
		SELECT COUNT(*), MIN(checkpoint_id), MAX(checkpoint_id)
		FROM checkpoints WHERE thread_id = ?`

	var info Info
	var first, last sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, threadID).Scan(&info.CheckpointCount, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("query thread info: %w", err)
	}
	if info.CheckpointCount == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, threadID)
	}

	info.ThreadID = threadID
	info.FirstCheckpoint = first.Int64
	info.LastCheckpoint = last.Int64
	return &info, nil
}

func (s *sqliteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
