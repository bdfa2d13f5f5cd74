package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/junioryono/singleton"
)

// NewFactories returns a factory builder with ctors registered.
func NewFactories(t *testing.T, ctors ...any) *singleton.FactoryBuilder {
	t.Helper()

	factories := singleton.NewFactoryBuilder()
	for _, ctor := range ctors {
		require.NoError(t, factories.Register(ctor))
	}
	return factories
}

// NewCache returns a cache with a silent logger that is closed when the test ends.
// Options in opts override the silent logger.
func NewCache(t *testing.T, opts ...singleton.Option) *singleton.Cache {
	t.Helper()

	all := append([]singleton.Option{singleton.WithLogger(DiscardLogger())}, opts...)
	cache := singleton.New(all...)
	t.Cleanup(func() {
		require.NoError(t, cache.Close())
	})
	return cache
}

// NewCacheWith returns a silent cache over factories built from ctors.
func NewCacheWith(t *testing.T, mode singleton.LockingMode, ctors ...any) *singleton.Cache {
	t.Helper()

	return NewCache(t,
		singleton.WithLocking(mode),
		singleton.WithBuilder(NewFactories(t, ctors...)),
	)
}
