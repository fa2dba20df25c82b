package agent

import (
	"context"
	"sync"
	"time"

	"github.com/tbxark/roadmapagent"
	"github.com/tbxark/roadmapagent/types"
)

// State is the per-session view: the submitted form and the rendered roadmap.
type State struct {
	Phase   types.Phase         `json:"phase" jsonschema:"enum=collecting,enum=generating,enum=rendered"`
	Form    types.Request       `json:"form"`
	Roadmap *types.Roadmap      `json:"roadmap,omitempty"`
	Source  roadmapagent.Source `json:"source,omitempty"`
}

// StateReadWriter provides read/write access to state using context for routing.
type StateReadWriter interface {
	InitState(ctx context.Context) *State
	Remove(ctx context.Context) error
	Read(ctx context.Context) (*State, error)
	Write(ctx context.Context, state *State) error
}

type stateKeyContext struct{}

const defaultStateKey = "default"

// WithStateKey sets a routing key for state storage in the context.
func WithStateKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, stateKeyContext{}, key)
}

// StateKeyFromContext gets the routing key from the context.
func StateKeyFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(stateKeyContext{})
	if value == nil {
		return "", false
	}
	key, ok := value.(string)
	return key, ok
}

func stateKeyOrDefault(ctx context.Context) string {
	key, ok := StateKeyFromContext(ctx)
	if ok && key != "" {
		return key
	}
	return defaultStateKey
}

func sessionKey(ctx context.Context) (string, bool) {
	return stateKeyOrDefault(ctx), true
}

// MemoryStateReadWriter keeps session state in process memory only.
type MemoryStateReadWriter struct {
	mu      sync.Mutex
	states  map[string]*stateEntry
	idleTTL time.Duration
	now     func() time.Time
}

type stateEntry struct {
	state    State
	lastUsed time.Time
}

// NewMemoryStateReadWriter accepts the same options as NewMemoryCache; WithIdleTTL expires abandoned sessions.
func NewMemoryStateReadWriter(opts ...MemoryCacheOption) *MemoryStateReadWriter {
	o := &memoryCacheOptions{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return &MemoryStateReadWriter{
		states:  make(map[string]*stateEntry),
		idleTTL: o.idleTTL,
		now:     o.now,
	}
}

func (m *MemoryStateReadWriter) InitState(ctx context.Context) *State {
	return &State{Phase: types.PhaseCollecting}
}

func (m *MemoryStateReadWriter) expired(e *stateEntry, now time.Time) bool {
	return m.idleTTL > 0 && now.Sub(e.lastUsed) > m.idleTTL
}

// Read returns a copy so callers cannot mutate stored state.
func (m *MemoryStateReadWriter) Read(ctx context.Context) (*State, error) {
	key := stateKeyOrDefault(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.states[key]
	if !ok {
		return m.InitState(ctx), nil
	}
	now := m.now()
	if m.expired(e, now) {
		delete(m.states, key)
		return m.InitState(ctx), nil
	}
	e.lastUsed = now
	cp := e.state
	return &cp, nil
}

func (m *MemoryStateReadWriter) Write(ctx context.Context, state *State) error {
	cp := *state
	if cp.Phase == "" {
		cp.Phase = types.PhaseCollecting
	}
	m.mu.Lock()
	m.states[stateKeyOrDefault(ctx)] = &stateEntry{state: cp, lastUsed: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStateReadWriter) Remove(ctx context.Context) error {
	m.mu.Lock()
	delete(m.states, stateKeyOrDefault(ctx))
	m.mu.Unlock()
	return nil
}

// Sweep drops every expired session and reports how many were removed.
func (m *MemoryStateReadWriter) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for key, e := range m.states {
		if m.expired(e, now) {
			delete(m.states, key)
			removed++
		}
	}
	return removed
}

func (m *MemoryStateReadWriter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}
