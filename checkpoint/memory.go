package checkpoint

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"
)

// memoryStore keeps checkpoints in process memory. History is lost on
// exit; intended for development and tests.
type memoryStore struct {
	mu      sync.RWMutex
	records map[string][]Record
	nextID  int64
}

// NewMemoryStore creates a Store backed by process memory.
func NewMemoryStore() Store {
	return &memoryStore{records: make(map[string][]Record)}
}

func (m *memoryStore) Save(_ context.Context, threadID string, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.records[threadID] = append(m.records[threadID], Record{
		ThreadID:     threadID,
		CheckpointID: m.nextID,
		CreatedAt:    time.Now().UTC(),
		Snapshot:     slices.Clone(snapshot),
	})
	return nil
}

func (m *memoryStore) Latest(_ context.Context, threadID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.records[threadID]
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, threadID)
	}
	return slices.Clone(records[len(records)-1].Snapshot), nil
}

func (m *memoryStore) History(_ context.Context, threadID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := slices.Clone(m.records[threadID])
	for i := range records {
		records[i].Snapshot = slices.Clone(records[i].Snapshot)
	}
	return records, nil
}

func (m *memoryStore) Threads(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	threads := make([]string, 0, len(m.records))
	for threadID := range m.records {
		threads = append(threads, threadID)
	}
	sort.Strings(threads)
	return threads, nil
}

func (m *memoryStore) Clear(_ context.Context, threadID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := int64(len(m.records[threadID]))
	delete(m.records, threadID)
	return deleted, nil
}

func (m *memoryStore) ClearAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for _, records := range m.records {
		deleted += int64(len(records))
	}
	m.records = make(map[string][]Record)
	return deleted, nil
}

func (m *memoryStore) Info(_ context.Context, threadID string) (*Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.records[threadID]
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, threadID)
	}

	return &Info{
		ThreadID:        threadID,
		CheckpointCount: len(records),
		FirstCheckpoint: records[0].CheckpointID,
		LastCheckpoint:  records[len(records)-1].CheckpointID,
	}, nil
}

func (m *memoryStore) Close() error {
	return nil
}
