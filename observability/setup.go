package observability

import (
	"log/slog"
	"sync"
)

// Config selects the process-wide default observer. Observer is a
// registry name; Logger, when set, replaces the "slog" observer's target
// before resolution.
type Config struct {
	Observer string       `json:"observer,omitempty"`
	Logger   *slog.Logger `json:"-"`
}

var (
	setupOnce       sync.Once
	defaultObserver Observer = NoOpObserver{}
)

// Setup installs the process-wide default observer. Called once by the
// orchestrator at startup; later calls are no-ops. Instrumentation here
// is always an explicit call, never a package-import side effect.
func Setup(cfg Config) error {
	var err error
	setupOnce.Do(func() {
		if cfg.Logger != nil {
			RegisterObserver("slog", NewSlogObserver(cfg.Logger))
		}

		name := cfg.Observer
		if name == "" {
			name = "slog"
		}

		var obs Observer
		obs, err = GetObserver(name)
		if err != nil {
			return
		}
		defaultObserver = obs
	})
	return err
}

// Default returns the observer installed by Setup, or NoOpObserver when
// Setup has not run.
func Default() Observer {
	return defaultObserver
}
