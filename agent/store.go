package agent

import "context"

// Store is a Cache view for one namespace. Entries are addressed by the
// routing key carried in the context, so each session sees only its own value.
type Store[S any] struct {
	core      Cache[S]
	namespace string
}

func NewStore[S any](core Cache[S], namespace string) Store[S] {
	return Store[S]{core: core, namespace: namespace}
}

// Key is the cache key for the session routed by ctx.
func (s Store[S]) Key(ctx context.Context) string {
	if s.namespace == "" {
		return stateKeyOrDefault(ctx)
	}
	return s.namespace + ":" + stateKeyOrDefault(ctx)
}

func (s Store[S]) Set(ctx context.Context, val S) error {
	return s.core.Set(ctx, s.Key(ctx), val)
}

func (s Store[S]) Get(ctx context.Context) (S, bool, error) {
	return s.core.Get(ctx, s.Key(ctx))
}

func (s Store[S]) Del(ctx context.Context) error {
	return s.core.Del(ctx, s.Key(ctx))
}

func (s Store[S]) Exists(ctx context.Context) (bool, error) {
	return s.core.Exists(ctx, s.Key(ctx))
}
