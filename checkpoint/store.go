// Package checkpoint persists per-thread session snapshots. Each session
// is keyed by its thread identifier; saves append numbered checkpoints so
// a session's history can be inspected or replayed. The store assumes
// at-most-one logical writer per thread id at a time.
package checkpoint

import (
	"context"
	"encoding/json"
	"time"
)

// Record is one persisted checkpoint for a thread.
type Record struct {
	ThreadID     string          `json:"thread_id"`
	CheckpointID int64           `json:"checkpoint_id"`
	CreatedAt    time.Time       `json:"created_at"`
	Snapshot     json.RawMessage `json:"snapshot"`
}

// Info summarizes the stored history for one thread.
type Info struct {
	ThreadID        string `json:"thread_id"`
	CheckpointCount int    `json:"checkpoint_count"`
	FirstCheckpoint int64  `json:"first_checkpoint"`
	LastCheckpoint  int64  `json:"last_checkpoint"`
}

// Store persists session snapshots keyed by thread identifier.
// Implementations must be safe for concurrent use across threads; writes
// for a single thread id are serialized by the orchestrator.
type Store interface {
	// Save appends a checkpoint for the thread.
	Save(ctx context.Context, threadID string, snapshot []byte) error
	// Latest returns the most recent snapshot for the thread.
	// Returns ErrNotFound when the thread has no checkpoints.
	Latest(ctx context.Context, threadID string) ([]byte, error)
	// History returns all checkpoints for the thread in checkpoint order.
	History(ctx context.Context, threadID string) ([]Record, error)
	// Threads returns all thread ids with stored checkpoints, sorted.
	Threads(ctx context.Context) ([]string, error)
	// Clear deletes all checkpoints for the thread, returning the count.
	Clear(ctx context.Context, threadID string) (int64, error)
	// ClearAll deletes every checkpoint across all threads, returning
	// the count.
	ClearAll(ctx context.Context) (int64, error)
	// Info returns history metadata for the thread, or ErrNotFound.
	Info(ctx context.Context, threadID string) (*Info, error)
	// Close releases any underlying resources.
	Close() error
}
