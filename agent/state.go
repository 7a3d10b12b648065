package agent

import (
	"context"
	"fmt"
	"sync"
)

// StateReadWriter provides read/write access to session state using the
// context routing key.
type StateReadWriter interface {
	Read(ctx context.Context) (*State, error)
	Write(ctx context.Context, state *State) error
	Remove(ctx context.Context) error
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

// MemoryStateReadWriter is an in-memory implementation for testing and local usage.
// Read returns nil for unknown keys.
type MemoryStateReadWriter struct {
	mu     sync.RWMutex
	states map[string]*State
}

func NewMemoryStateReadWriter() *MemoryStateReadWriter {
	return &MemoryStateReadWriter{
		states: make(map[string]*State),
	}
}

func (m *MemoryStateReadWriter) Read(ctx context.Context) (*State, error) {
	m.mu.RLock()
	state, ok := m.states[stateKeyOrDefault(ctx)]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return state.Clone(), nil
}

func (m *MemoryStateReadWriter) Write(ctx context.Context, state *State) error {
	m.mu.Lock()
	m.states[stateKeyOrDefault(ctx)] = state.Clone()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStateReadWriter) Remove(ctx context.Context) error {
	m.mu.Lock()
	delete(m.states, stateKeyOrDefault(ctx))
	m.mu.Unlock()
	return nil
}

// CacheStateReadWriter stores states in a Cache under "<namespace>:<key>".
type CacheStateReadWriter struct {
	store Store[State]
}

func NewCacheStateReadWriter(core Cache[State], namespace string) *CacheStateReadWriter {
	return &CacheStateReadWriter{
		store: NewStore(core, namespace),
	}
}

func (c *CacheStateReadWriter) Read(ctx context.Context) (*State, error) {
	state, ok, err := c.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return state.Clone(), nil
}

func (c *CacheStateReadWriter) Write(ctx context.Context, state *State) error {
	if state == nil {
		return c.Remove(ctx)
	}
	if err := c.store.Set(ctx, *state.Clone()); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func (c *CacheStateReadWriter) Remove(ctx context.Context) error {
	return c.store.Del(ctx)
}
