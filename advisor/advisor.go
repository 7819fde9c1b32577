// Package advisor composes the agent capability, the session-memory
// layer, the checkpoint store, and the observability sink into the
// single-merchant advisory runtime.
//
// The advisor initializes from configuration via New; functional options
// allow test overrides of any subsystem.
//
//	a, err := advisor.New(&cfg)
//	conv, err := a.StartSession(ctx, "adv_001", "789456", "TechRetail", session.SegmentMidMarket)
//	reply, err := a.RunQuery(ctx, conv, "What should I know about this merchant?")
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/merchant-advisory/advisor/agent"
	"github.com/merchant-advisory/advisor/checkpoint"
	"github.com/merchant-advisory/advisor/core/protocol"
	"github.com/merchant-advisory/advisor/observability"
	"github.com/merchant-advisory/advisor/session"
)

// Conversation is one live advisory session: the thread identifier that
// keys all external records plus the current state value. A Conversation
// has exactly one logical owner; concurrent RunQuery calls on the same
// Conversation would race at the write-back (last writer wins), so hosts
// must serialize per thread id.
type Conversation struct {
	ThreadID string
	State    session.State
}

// Option configures an Advisor after config-driven initialization.
type Option func(*Advisor)

// WithAgent overrides the config-created agent.
func WithAgent(a agent.Agent) Option {
	return func(adv *Advisor) { adv.agent = a }
}

// WithCheckpointStore overrides the config-created checkpoint store.
func WithCheckpointStore(s checkpoint.Store) Option {
	return func(adv *Advisor) { adv.checkpoints = s }
}

// WithObserver overrides the config-selected observer.
func WithObserver(o observability.Observer) Option {
	return func(adv *Advisor) { adv.observer = o }
}

// WithCacheConfig overrides the config-derived cache TTL table.
func WithCacheConfig(cfg session.CacheConfig) Option {
	return func(adv *Advisor) { adv.cache = cfg }
}

// Advisor is the orchestrator for single-merchant advisory conversations.
type Advisor struct {
	agent        agent.Agent
	checkpoints  checkpoint.Store
	observer     observability.Observer
	cache        session.CacheConfig
	systemPrompt string
}

// New creates an Advisor from configuration. Subsystems are initialized
// from their config sections; options applied afterwards can override any
// of them.
func New(cfg *Config, opts ...Option) (*Advisor, error) {
	a, err := agent.New(&cfg.Agent)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	store, err := checkpoint.New(&cfg.Checkpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkpoint store: %w", err)
	}

	observer := observability.Default()
	if cfg.Observer != "" {
		observer, err = observability.GetObserver(cfg.Observer)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
	}

	adv := &Advisor{
		agent:        a,
		checkpoints:  store,
		observer:     observer,
		cache:        cfg.Cache.CacheConfig(),
		systemPrompt: cfg.SystemPrompt,
	}

	for _, opt := range opts {
		opt(adv)
	}

	return adv, nil
}

// Checkpoints returns the advisor's checkpoint store.
func (a *Advisor) Checkpoints() checkpoint.Store {
	return a.checkpoints
}

// CacheConfig returns the advisor's cache TTL table.
func (a *Advisor) CacheConfig() session.CacheConfig {
	return a.cache
}

// StartSession creates the session state and thread identifier for a new
// merchant conversation and persists the initial checkpoint.
func (a *Advisor) StartSession(ctx context.Context, advisorID, merchantID, merchantName string, segment session.Segment) (*Conversation, error) {
	state, err := session.New(advisorID, merchantID, merchantName, segment)
	if err != nil {
		return nil, err
	}

	conv := &Conversation{
		ThreadID: session.NewThreadID(state.MerchantID, time.Now().UTC()),
		State:    state,
	}

	a.observer.OnEvent(ctx, observability.Event{
		Type:      EventSessionStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "advisor.StartSession",
		Data: map[string]any{
			"thread_id":   conv.ThreadID,
			"advisor_id":  advisorID,
			"merchant_id": state.MerchantID,
			"segment":     string(segment),
		},
	})

	if err := a.saveCheckpoint(ctx, conv); err != nil {
		return nil, err
	}

	return conv, nil
}

// RunQuery sends one advisor query through the agent and threads the
// response through the session mutators: the user and assistant messages
// join the transcript mirror and the query counter advances. Before/after
// state snapshots go to the observer and the updated state is
// checkpointed. Returns the agent's reply text.
func (a *Advisor) RunQuery(ctx context.Context, conv *Conversation, query string) (string, error) {
	runID := uuid.NewString()

	a.observer.OnEvent(ctx, observability.Event{
		Type:      EventQueryStart,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "advisor.RunQuery",
		Data: map[string]any{
			"run_id":       runID,
			"thread_id":    conv.ThreadID,
			"query_length": len(query),
		},
	})
	a.emitSnapshot(ctx, conv, runID, "before")

	// Advisory check only: a query mentioning another merchant is worth a
	// warning, but the session stays bound to its own merchant.
	if mentioned, ok := session.ExtractMerchantID(query); ok && !conv.State.ValidateMerchantMatch(mentioned) {
		a.observer.OnEvent(ctx, observability.Event{
			Type:      EventMerchantMismatch,
			Level:     observability.LevelWarning,
			Timestamp: time.Now(),
			Source:    "advisor.RunQuery",
			Data: map[string]any{
				"run_id":                runID,
				"thread_id":             conv.ThreadID,
				"session_merchant_id":   conv.State.MerchantID,
				"mentioned_merchant_id": mentioned,
			},
		})
	}

	userMsg := protocol.NewMessage(protocol.RoleUser, query)

	reply, err := a.agent.Invoke(ctx, a.buildMessages(conv.State, userMsg), agent.InvokeConfig{
		ThreadID: conv.ThreadID,
	})
	if err != nil {
		a.observer.OnEvent(ctx, observability.Event{
			Type:      EventError,
			Level:     observability.LevelError,
			Timestamp: time.Now(),
			Source:    "advisor.RunQuery",
			Data: map[string]any{
				"run_id":    runID,
				"thread_id": conv.ThreadID,
				"error":     err.Error(),
			},
		})
		return "", fmt.Errorf("agent call failed: %w", err)
	}

	conv.State = conv.State.
		AddMessage(userMsg).
		AddMessage(reply).
		IncrementQueryCount()

	a.emitSnapshot(ctx, conv, runID, "after")
	a.observer.OnEvent(ctx, observability.Event{
		Type:      EventQueryComplete,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "advisor.RunQuery",
		Data: map[string]any{
			"run_id":          runID,
			"thread_id":       conv.ThreadID,
			"total_queries":   conv.State.TotalQueries,
			"response_length": len(reply.Content),
		},
	})

	if err := a.saveCheckpoint(ctx, conv); err != nil {
		return "", err
	}

	return reply.Content, nil
}

// CacheData stores a payload in the conversation's session cache.
func (a *Advisor) CacheData(conv *Conversation, name string, payload any) {
	conv.State = conv.State.CacheData(name, payload)
}

// CachedData reads a payload from the session cache, emitting a cache
// hit or miss event for the tracing sink. The boolean reports a hit.
func (a *Advisor) CachedData(ctx context.Context, conv *Conversation, name string) (any, bool) {
	payload, result := conv.State.GetCached(name, a.cache)

	data := map[string]any{
		"thread_id":         conv.ThreadID,
		"cache.data_type":   name,
		"cache.hit":         result.Hit,
		"cache.age_seconds": result.Age.Seconds(),
		"cache.ttl_seconds": result.TTL.Seconds(),
	}

	eventType := EventCacheHit
	if !result.Hit {
		eventType = EventCacheMiss
		data["cache.miss_reason"] = string(result.Reason)
	}

	a.observer.OnEvent(ctx, observability.Event{
		Type:      eventType,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "advisor.CachedData",
		Data:      data,
	})

	return payload, result.Hit
}

func (a *Advisor) buildMessages(state session.State, userMsg protocol.Message) []protocol.Message {
	messages := make([]protocol.Message, 0, len(state.Messages)+2)
	if a.systemPrompt != "" {
		messages = append(messages, protocol.NewMessage(protocol.RoleSystem, a.systemPrompt))
	}
	messages = append(messages, state.Messages...)
	messages = append(messages, userMsg)
	return messages
}

func (a *Advisor) emitSnapshot(ctx context.Context, conv *Conversation, runID, phase string) {
	data := conv.State.Snapshot(conv.ThreadID)
	data["run_id"] = runID
	data["phase"] = phase

	a.observer.OnEvent(ctx, observability.Event{
		Type:      EventSessionSnapshot,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "advisor.RunQuery",
		Data:      data,
	})
}

func (a *Advisor) saveCheckpoint(ctx context.Context, conv *Conversation) error {
	snapshot, err := json.Marshal(conv.State)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := a.checkpoints.Save(ctx, conv.ThreadID, snapshot); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	return nil
}
