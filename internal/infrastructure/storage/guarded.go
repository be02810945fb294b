package storage

import (
	"context"

	"github.com/GriffinCanCode/vshell/internal/infrastructure/resilience"
)

// Guarded routes every call of a remote store through a circuit breaker
// so an unreachable database or bucket fails fast.
type Guarded struct {
	store   Store
	breaker *resilience.Breaker
}

// NewGuarded wraps store with breaker.
func NewGuarded(store Store, breaker *resilience.Breaker) *Guarded {
	return &Guarded{store: store, breaker: breaker}
}

// Breaker returns the breaker guarding the store.
func (g *Guarded) Breaker() *resilience.Breaker {
	return g.breaker
}

func (g *Guarded) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data  []byte
		found bool
	)
	err := g.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		data, found, err = g.store.Get(ctx, key)
		return err
	})
	return data, found, err
}

func (g *Guarded) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return g.breaker.Do(ctx, func(ctx context.Context) error {
		return g.store.Put(ctx, key, data)
	})
}

func (g *Guarded) Delete(ctx context.Context, key string) error {
	return g.breaker.Do(ctx, func(ctx context.Context) error {
		return g.store.Delete(ctx, key)
	})
}

func (g *Guarded) Close() error { return g.store.Close() }

// Remote reports whether a backend talks to a service over the network.
func Remote(backend string) bool {
	switch backend {
	case BackendPostgres, BackendS3:
		return true
	}
	return false
}
