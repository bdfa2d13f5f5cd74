package singleton

import (
	"reflect"
	"sync"
)

var (
	defaultMu        sync.RWMutex
	defaultCache     *Cache
	defaultFactories = NewFactoryBuilder()
)

// Default returns the process-wide cache used by the package-level functions.
// It is created on first use with DefaultFactories as its builder.
//
// Prefer passing a *Cache to the components that need it; the default cache
// exists for code that has no other way to reach one.
func Default() *Cache {
	defaultMu.RLock()
	c := defaultCache
	defaultMu.RUnlock()
	if c != nil {
		return c
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCache == nil {
		defaultCache = New(WithBuilder(defaultFactories))
	}
	return defaultCache
}

// SetDefault replaces the process-wide cache. This is similar to slog.SetDefault.
// Pass nil to have the next Default call create a fresh cache.
func SetDefault(c *Cache) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCache = c
}

// DefaultFactories returns the factory builder behind the lazily created default cache.
func DefaultFactories() *FactoryBuilder {
	return defaultFactories
}

// RegisterFactory registers ctor with DefaultFactories.
func RegisterFactory(ctor any) error {
	return defaultFactories.Register(ctor)
}

// GetInstance calls GetInstance on the default cache.
func GetInstance(t reflect.Type) (any, bool) {
	return Default().GetInstance(t)
}

// GetInstanceWith calls GetInstanceWith on the default cache.
func GetInstanceWith(t reflect.Type, paramTypes []reflect.Type, args []any) (any, bool) {
	return Default().GetInstanceWith(t, paramTypes, args)
}

// ClearCache removes every instance from the default cache.
func ClearCache() {
	Default().Clear()
}
