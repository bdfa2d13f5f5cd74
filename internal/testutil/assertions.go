package testutil

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/singleton"
)

// RequireInstance resolves T from cache and fails the test on error.
func RequireInstance[T any](t *testing.T, cache *singleton.Cache) T {
	t.Helper()
	instance, err := singleton.ResolveAs[T](cache)
	require.NoError(t, err, "failed to resolve %v", reflect.TypeOf((*T)(nil)).Elem())
	return instance
}

// RequireInstanceWith resolves T built from args and fails the test on error.
func RequireInstanceWith[T any](t *testing.T, cache *singleton.Cache, paramTypes []reflect.Type, args ...any) T {
	t.Helper()
	instance, err := singleton.ResolveWithAs[T](cache, paramTypes, args...)
	require.NoError(t, err, "failed to resolve %v with %v", reflect.TypeOf((*T)(nil)).Elem(), args)
	return instance
}

// AssertAllSame checks every element of instances is the same pointer.
func AssertAllSame(t *testing.T, instances []any) {
	t.Helper()
	require.NotEmpty(t, instances)
	for i, instance := range instances {
		assert.Same(t, instances[0], instance, "instance %d differs", i)
	}
}

// RunConcurrently starts n goroutines that call fn together and waits for them.
// The results are returned in goroutine order.
func RunConcurrently(n int, fn func(i int) any) []any {
	results := make([]any, n)
	start := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = fn(i)
		}(i)
	}

	close(start)
	wg.Wait()
	return results
}
