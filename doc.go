// Package singleton provides a concurrency-safe cache that lazily constructs
// and holds one instance per type, or per type and constructor arguments.
//
// # Overview
//
// Application code asks the cache for "the" instance of a type without
// tracking whether it was already built:
//   - One instance per type, built on first request
//   - One instance per (type, argument list) for small families of parameterized singletons
//   - At most one construction per key, even under concurrent requests
//   - Failed constructions are not cached and are retried on the next request
//   - Explicit Clear and Close instead of finalizers
//
// # Basic Usage
//
// Register factories, create a cache, request instances:
//
//	factories := singleton.NewFactoryBuilder()
//	factories.MustRegister(NewConfig)       // func() *Config
//	factories.MustRegister(NewPoolOfSize)   // func(int) (*Pool, error)
//
//	cache := singleton.New(singleton.WithBuilder(factories))
//	defer cache.Close()
//
//	cfg, ok := singleton.Get[*Config](cache)
//	small, ok := singleton.GetWith[*Pool](cache, singleton.ParamTypes(4), 4)
//	large, ok := singleton.GetWith[*Pool](cache, singleton.ParamTypes(64), 64)
//
// Types without a registered factory and without arguments are created as
// zero values when they are structs or pointers to structs.
//
// # Keys
//
// The key of a zero-argument request is the fully-qualified type name, for
// example "*github.com/acme/app/db.Pool". Argument-bearing requests append
// "|" and fmt.Sprint(arg) for every argument in order, so [1, 2] and [2, 1]
// are different instances. Arguments must be non-nil. WithKeyFormat
// (LengthPrefixedKeys) prefixes each argument with its length so that
// arguments containing "|" cannot collide.
//
// # Failures
//
// GetInstance and GetInstanceWith report failures as an absent result and log
// them through the configured github.com/charmbracelet/log logger. Resolve and
// ResolveWith return the error instead:
//
//	_, err := cache.Resolve(reflect.TypeFor[*Pool]())
//	var constructionErr singleton.ConstructionError
//	if errors.As(err, &constructionErr) {
//	    // builder failed; nothing was cached
//	}
//
// # Concurrency
//
// By default one lock covers lookup, construction and insert, so a slow
// constructor delays every other request. WithLocking(PerKeyLocking) locks
// construction per key instead. Cached instances are shared without further
// synchronization.
//
// # Builders
//
// FactoryBuilder calls registered factory functions. DigBuilder resolves
// types through go.uber.org/dig constructors. Any Builder or BuilderFunc can
// be supplied with WithBuilder.
//
// # Default Cache
//
// Default, GetInstance, GetInstanceWith, RegisterFactory and ClearCache work
// on a lazily created process-wide cache.
package singleton
