// Package observability delivers structured events from the advisory
// runtime to pluggable sinks. Severity values follow the OpenTelemetry
// SeverityNumber ranges so records map onto OTel collectors without
// translation.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is an event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

// String returns the OTel severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps the level to the corresponding slog.Level.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names the kind of event. Emitting packages define their own
// constants (e.g. "advisor.cache.miss", "advisor.session.snapshot").
type EventType string

// Event is one structured record bound for a sink. Data values must be
// JSON-serializable primitives: span-level attributes for identifiers and
// counts, event payloads for state snapshots.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events for logging, tracing, or metrics export.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
