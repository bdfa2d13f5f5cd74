package singleton

import (
	"errors"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/junioryono/singleton/internal/reflection"
)

// Cache lazily constructs and holds one instance per key.
//
// A key is the fully-qualified type name, or the type name followed by the
// string forms of the constructor arguments. For a given key the builder
// runs at most once between calls to Clear, even when many goroutines
// request the key at the same time. Failed constructions store nothing, so
// a later request retries.
//
// Instances are shared with every caller as-is; their own thread safety is
// their concern. The zero value is ready to use with default options.
type Cache struct {
	initOnce sync.Once

	id        string
	builder   Builder
	logger    *log.Logger
	metrics   *cacheMetrics
	locking   LockingMode
	keyFormat KeyFormat

	onConstructed        func(key string, instance any, duration time.Duration)
	onConstructionFailed func(key string, err error)

	mu        sync.Mutex
	instances map[string]any
	flights   singleflight.Group
	closed    atomic.Bool
}

// New creates a cache configured by opts.
func New(opts ...Option) *Cache {
	c := &Cache{}
	o := newCacheOptions(opts)
	c.initOnce.Do(func() {
		c.configure(o)
	})
	return c
}

func (c *Cache) ensureInit() {
	c.initOnce.Do(func() {
		c.configure(newCacheOptions(nil))
	})
}

func (c *Cache) configure(o *cacheOptions) {
	c.id = uuid.NewString()
	c.builder = o.builder
	c.logger = o.logger.With("cache", c.id)
	c.locking = o.locking
	c.keyFormat = o.keyFormat
	c.onConstructed = o.onConstructed
	c.onConstructionFailed = o.onConstructionFailed
	c.instances = make(map[string]any)

	metrics, err := newCacheMetrics(o.meterProvider, c.id)
	if err != nil {
		c.logger.Warn("cache metrics disabled", "err", err)
		metrics = noopCacheMetrics(c.id)
	}
	c.metrics = metrics
}

// ID returns the unique identifier of the cache, used in logs and metrics.
func (c *Cache) ID() string {
	c.ensureInit()
	return c.id
}

// GetInstance returns the instance of t, constructing it with no arguments
// on first request. It returns false if no instance is available; the
// reason is logged.
func (c *Cache) GetInstance(t reflect.Type) (any, bool) {
	instance, err := c.Resolve(t)
	if err != nil {
		c.logRejected(t, err)
		return nil, false
	}
	return instance, true
}

// GetInstanceWith returns the instance of t built from args, where args[i]
// is passed as paramTypes[i]. Different argument lists are distinct
// instances; argument order matters. It returns false if no instance is
// available; the reason is logged.
func (c *Cache) GetInstanceWith(t reflect.Type, paramTypes []reflect.Type, args []any) (any, bool) {
	instance, err := c.ResolveWith(t, paramTypes, args)
	if err != nil {
		c.logRejected(t, err)
		return nil, false
	}
	return instance, true
}

// Resolve is like GetInstance but returns the reason no instance is available.
// Construction failures are wrapped in ConstructionError.
func (c *Cache) Resolve(t reflect.Type) (any, error) {
	c.ensureInit()

	if t == nil {
		return nil, ErrTypeNil
	}

	return c.getOrCreate(Key(t), t, nil, nil)
}

// ResolveWith is like GetInstanceWith but returns the reason no instance is
// available. Nil arguments and mismatched list lengths fail with an error
// matching ErrInvalidArgument before the builder is called.
func (c *Cache) ResolveWith(t reflect.Type, paramTypes []reflect.Type, args []any) (any, error) {
	c.ensureInit()

	if t == nil {
		return nil, ErrTypeNil
	}

	if len(paramTypes) != len(args) {
		return nil, ArgumentCountError{Type: t, Params: len(paramTypes), Args: len(args)}
	}

	key, err := KeyWith(t, args, c.keyFormat)
	if err != nil {
		return nil, err
	}

	return c.getOrCreate(key, t, paramTypes, args)
}

func (c *Cache) getOrCreate(key string, t reflect.Type, paramTypes []reflect.Type, args []any) (any, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	if c.locking == PerKeyLocking {
		return c.getOrCreatePerKey(key, t, paramTypes, args)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	if instance, ok := c.instances[key]; ok {
		c.metrics.recordHit(TypeName(t))
		return instance, nil
	}

	instance, duration, err := c.construct(key, t, paramTypes, args)
	if err != nil {
		return nil, err
	}

	c.instances[key] = instance
	c.stored(key, instance, duration)

	return instance, nil
}

func (c *Cache) getOrCreatePerKey(key string, t reflect.Type, paramTypes []reflect.Type, args []any) (any, error) {
	if instance, ok := c.lookup(key); ok {
		c.metrics.recordHit(TypeName(t))
		return instance, nil
	}

	// built is set only on the goroutine that ran the builder; callers that
	// joined its flight or found the instance on re-check count as hits.
	var built bool
	instance, err, _ := c.flights.Do(key, func() (any, error) {
		// A flight for this key may have stored the instance after our lookup.
		if instance, ok := c.lookup(key); ok {
			return instance, nil
		}

		built = true
		instance, duration, err := c.construct(key, t, paramTypes, args)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.closed.Load() {
			c.mu.Unlock()
			return nil, ErrCacheClosed
		}
		c.instances[key] = instance
		c.mu.Unlock()

		c.stored(key, instance, duration)
		return instance, nil
	})

	if !built {
		if err != nil {
			c.metrics.recordMiss(TypeName(t))
		} else {
			c.metrics.recordHit(TypeName(t))
		}
	}

	if err != nil {
		return nil, err
	}

	return instance, nil
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	instance, ok := c.instances[key]
	return instance, ok
}

// construct runs the builder for a missing key. It never panics and never
// returns a nil instance without an error.
func (c *Cache) construct(key string, t reflect.Type, paramTypes []reflect.Type, args []any) (any, time.Duration, error) {
	typeName := TypeName(t)
	c.metrics.recordMiss(typeName)

	start := time.Now()
	instance, err := c.build(t, paramTypes, args)
	duration := time.Since(start)

	if err == nil {
		err = checkInstance(t, instance)
	}

	c.metrics.recordConstruction(typeName, duration, err)

	if err != nil {
		err = ConstructionError{Key: key, Type: t, Cause: err}
		c.logger.Error("failed to construct instance", "key", key, "type", typeName, "err", err)
		if c.onConstructionFailed != nil {
			c.onConstructionFailed(key, err)
		}
		return nil, duration, err
	}

	return instance, duration, nil
}

func (c *Cache) build(t reflect.Type, paramTypes []reflect.Type, args []any) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = ConstructorPanicError{
				Constructor: reflect.TypeOf(c.builder),
				Panic:       r,
			}
		}
	}()

	return c.builder.Build(t, paramTypes, args)
}

func (c *Cache) stored(key string, instance any, duration time.Duration) {
	c.logger.Debug("constructed instance", "key", key, "duration", duration)
	if c.onConstructed != nil {
		c.onConstructed(key, instance, duration)
	}
}

// checkInstance rejects nil products and products not assignable to t.
func checkInstance(t reflect.Type, instance any) error {
	v := reflect.ValueOf(instance)
	if reflection.IsNil(v) {
		return ErrNilInstance
	}

	if !v.Type().AssignableTo(t) {
		return TypeMismatchError{Expected: t, Actual: v.Type(), Context: "built instance"}
	}

	return nil
}

// logRejected logs errors raised before construction; construction
// failures are logged where they happen.
func (c *Cache) logRejected(t reflect.Type, err error) {
	var constructionErr ConstructionError
	if errors.As(err, &constructionErr) {
		return
	}
	c.logger.Error("instance request rejected", "type", TypeName(t), "err", err)
}

// Clear removes every cached instance. Constructions already in progress
// are not cancelled. Instances are dropped, not closed.
func (c *Cache) Clear() {
	c.ensureInit()

	c.mu.Lock()
	n := len(c.instances)
	c.instances = make(map[string]any)
	c.mu.Unlock()

	c.metrics.recordClear()
	c.logger.Debug("cleared cache", "entries", n)
}

// Close clears the cache and rejects later requests with ErrCacheClosed.
// Cached instances are dropped, not closed. Close is idempotent.
func (c *Cache) Close() error {
	c.ensureInit()

	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.Clear()
	c.logger.Debug("closed cache")
	return nil
}

// IsClosed reports whether Close has been called.
func (c *Cache) IsClosed() bool {
	return c.closed.Load()
}

// Len returns the number of cached instances.
func (c *Cache) Len() int {
	c.ensureInit()

	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.instances)
}

// Contains reports whether an instance is cached under key.
func (c *Cache) Contains(key string) bool {
	c.ensureInit()

	_, ok := c.lookup(key)
	return ok
}

// Keys returns the cached keys in sorted order.
func (c *Cache) Keys() []string {
	c.ensureInit()

	c.mu.Lock()
	keys := make([]string, 0, len(c.instances))
	for k := range c.instances {
		keys = append(keys, k)
	}
	c.mu.Unlock()

	sort.Strings(keys)
	return keys
}
