package checkpoint_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/merchant-advisory/advisor/checkpoint"
)

func TestDefaultConfig(t *testing.T) {
	cfg := checkpoint.DefaultConfig()
	if cfg.Backend != "memory" {
		t.Errorf("Backend = %q, want %q", cfg.Backend, "memory")
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := checkpoint.DefaultConfig()
	cfg.Merge(&checkpoint.Config{Backend: "sqlite", Path: "state/checkpoints.db"})

	if cfg.Backend != "sqlite" {
		t.Errorf("Backend = %q, want %q", cfg.Backend, "sqlite")
	}
	if cfg.Path != "state/checkpoints.db" {
		t.Errorf("Path = %q, want %q", cfg.Path, "state/checkpoints.db")
	}

	cfg.Merge(&checkpoint.Config{})
	if cfg.Backend != "sqlite" || cfg.Path != "state/checkpoints.db" {
		t.Errorf("empty merge changed config: %+v", cfg)
	}
}

func TestNew_MemoryBackend(t *testing.T) {
	for _, backend := range []string{"", "memory"} {
		cfg := checkpoint.Config{Backend: backend}
		store, err := checkpoint.New(&cfg)
		if err != nil {
			t.Fatalf("New(backend=%q) error = %v", backend, err)
		}
		store.Close()
	}
}

func TestNew_SQLiteBackend(t *testing.T) {
	cfg := checkpoint.Config{
		Backend: "sqlite",
		Path:    filepath.Join(t.TempDir(), "checkpoints.db"),
	}
	store, err := checkpoint.New(&cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := checkpoint.Config{Backend: "redis"}
	_, err := checkpoint.New(&cfg)
	if !errors.Is(err, checkpoint.ErrUnknownBackend) {
		t.Errorf("New() error = %v, want %v", err, checkpoint.ErrUnknownBackend)
	}
}

func TestRegisterBackend(t *testing.T) {
	checkpoint.RegisterBackend("test-backend", func(*checkpoint.Config) (checkpoint.Store, error) {
		return checkpoint.NewMemoryStore(), nil
	})

	cfg := checkpoint.Config{Backend: "test-backend"}
	store, err := checkpoint.New(&cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	store.Close()
}
