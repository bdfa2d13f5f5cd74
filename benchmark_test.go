package singleton_test

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/junioryono/singleton"
	"github.com/junioryono/singleton/internal/testutil"
)

type BenchService struct {
	Name string
}

func NewBenchService() *BenchService {
	return &BenchService{Name: "bench"}
}

type BenchSized struct {
	Size int
}

func NewBenchSized(size int) *BenchSized {
	return &BenchSized{Size: size}
}

func setupBenchCache(b *testing.B, mode singleton.LockingMode) *singleton.Cache {
	b.Helper()

	factories := singleton.NewFactoryBuilder()
	factories.MustRegister(NewBenchService)
	factories.MustRegister(NewBenchSized)

	cache := singleton.New(
		singleton.WithLocking(mode),
		singleton.WithBuilder(factories),
		singleton.WithLogger(testutil.DiscardLogger()),
	)
	b.Cleanup(func() { _ = cache.Close() })
	return cache
}

func BenchmarkGetInstance_Hit(b *testing.B) {
	benchType := reflect.TypeOf((**BenchService)(nil)).Elem()

	for _, mode := range testutil.LockingModes {
		b.Run(mode.String(), func(b *testing.B) {
			cache := setupBenchCache(b, mode)
			cache.GetInstance(benchType)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cache.GetInstance(benchType)
			}
		})
	}
}

func BenchmarkGetInstanceWith_Hit(b *testing.B) {
	sizedType := reflect.TypeOf((**BenchSized)(nil)).Elem()
	params := []reflect.Type{reflect.TypeOf((*int)(nil)).Elem()}
	args := []any{16}

	for _, mode := range testutil.LockingModes {
		b.Run(mode.String(), func(b *testing.B) {
			cache := setupBenchCache(b, mode)
			cache.GetInstanceWith(sizedType, params, args)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cache.GetInstanceWith(sizedType, params, args)
			}
		})
	}
}

func BenchmarkGetInstance_Parallel(b *testing.B) {
	benchType := reflect.TypeOf((**BenchService)(nil)).Elem()

	for _, mode := range testutil.LockingModes {
		b.Run(mode.String(), func(b *testing.B) {
			cache := setupBenchCache(b, mode)
			cache.GetInstance(benchType)

			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					cache.GetInstance(benchType)
				}
			})
		})
	}
}

func BenchmarkGetInstance_Miss(b *testing.B) {
	benchType := reflect.TypeOf((**BenchService)(nil)).Elem()

	for _, mode := range testutil.LockingModes {
		b.Run(mode.String(), func(b *testing.B) {
			cache := setupBenchCache(b, mode)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cache.Clear()
				cache.GetInstance(benchType)
			}
		})
	}
}

func BenchmarkGetGeneric(b *testing.B) {
	cache := setupBenchCache(b, singleton.SerializedLocking)
	singleton.Get[*BenchService](cache)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		singleton.Get[*BenchService](cache)
	}
}

func BenchmarkKeyWith(b *testing.B) {
	sizedType := reflect.TypeOf((**BenchSized)(nil)).Elem()
	args := make([]any, 4)
	for i := range args {
		args[i] = "arg" + strconv.Itoa(i)
	}

	for _, format := range []singleton.KeyFormat{singleton.PipeKeys, singleton.LengthPrefixedKeys} {
		b.Run(format.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = singleton.KeyWith(sizedType, args, format)
			}
		})
	}
}

func BenchmarkDigBuilder_Miss(b *testing.B) {
	builder := singleton.NewDigBuilder()
	if err := builder.Provide(NewBenchService); err != nil {
		b.Fatal(err)
	}

	cache := singleton.New(
		singleton.WithBuilder(builder),
		singleton.WithLogger(testutil.DiscardLogger()),
	)
	b.Cleanup(func() { _ = cache.Close() })
	benchType := reflect.TypeOf((**BenchService)(nil)).Elem()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Clear()
		cache.GetInstance(benchType)
	}
}
