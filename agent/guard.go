package agent

import (
	"context"
	"sync"
)

// InflightGuard allows one outstanding request per routing key.
type InflightGuard struct {
	mu      sync.Mutex
	pending map[string]context.CancelFunc
}

func NewInflightGuard() *InflightGuard {
	return &InflightGuard{pending: map[string]context.CancelFunc{}}
}

// Acquire registers a request for key. It returns a derived context and a
// release func, or ErrRequestPending when key already has a request.
func (g *InflightGuard) Acquire(ctx context.Context, key string) (context.Context, func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.pending[key]; ok {
		return nil, nil, ErrRequestPending
	}
	ctx, cancel := context.WithCancel(ctx)
	g.pending[key] = cancel
	var once sync.Once
	release := func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.pending, key)
			g.mu.Unlock()
			cancel()
		})
	}
	return ctx, release, nil
}

// Cancel aborts the outstanding request for key, if any.
func (g *InflightGuard) Cancel(key string) bool {
	g.mu.Lock()
	cancel, ok := g.pending[key]
	g.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

func (g *InflightGuard) Pending(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.pending[key]
	return ok
}
