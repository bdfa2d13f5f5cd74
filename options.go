package singleton

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// LockingMode selects how a Cache serializes get-or-create calls.
type LockingMode int

const (
	// SerializedLocking holds one lock across lookup, construction and insert
	// for every key. A slow constructor delays lookups of unrelated keys.
	SerializedLocking LockingMode = iota

	// PerKeyLocking holds the map lock only for reads and writes and
	// serializes construction per key, so unrelated keys build in parallel.
	PerKeyLocking
)

// String returns the string representation of the locking mode.
func (m LockingMode) String() string {
	switch m {
	case SerializedLocking:
		return "Serialized"
	case PerKeyLocking:
		return "PerKey"
	default:
		return fmt.Sprintf("LockingMode(%d)", int(m))
	}
}

// IsValid checks if the locking mode is known.
func (m LockingMode) IsValid() bool {
	return m == SerializedLocking || m == PerKeyLocking
}

// Option configures a Cache.
type Option interface {
	apply(*cacheOptions)
}

// cacheOptions holds cache configuration.
type cacheOptions struct {
	builder       Builder
	logger        *log.Logger
	meterProvider metric.MeterProvider
	locking       LockingMode
	keyFormat     KeyFormat

	onConstructed        func(key string, instance any, duration time.Duration)
	onConstructionFailed func(key string, err error)
}

// optionFunc adapts a function to Option.
type optionFunc func(*cacheOptions)

func (f optionFunc) apply(opts *cacheOptions) {
	f(opts)
}

// WithBuilder sets the builder invoked on cache misses.
// Defaults to a new FactoryBuilder.
func WithBuilder(b Builder) Option {
	return optionFunc(func(opts *cacheOptions) {
		opts.builder = b
	})
}

// WithLogger sets the logger that receives construction failures.
func WithLogger(logger *log.Logger) Option {
	return optionFunc(func(opts *cacheOptions) {
		opts.logger = logger
	})
}

// WithMeterProvider sets the OpenTelemetry meter provider for cache metrics.
// Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return optionFunc(func(opts *cacheOptions) {
		opts.meterProvider = mp
	})
}

// WithLocking sets the locking mode.
func WithLocking(mode LockingMode) Option {
	return optionFunc(func(opts *cacheOptions) {
		opts.locking = mode
	})
}

// WithKeyFormat sets how constructor arguments are encoded into keys.
func WithKeyFormat(format KeyFormat) Option {
	return optionFunc(func(opts *cacheOptions) {
		opts.keyFormat = format
	})
}

// WithOnConstructed registers a callback run after an instance is built and stored.
// It runs on the constructing goroutine and, in SerializedLocking mode, under the cache lock.
func WithOnConstructed(fn func(key string, instance any, duration time.Duration)) Option {
	return optionFunc(func(opts *cacheOptions) {
		opts.onConstructed = fn
	})
}

// WithOnConstructionFailed registers a callback run when the builder fails.
func WithOnConstructionFailed(fn func(key string, err error)) Option {
	return optionFunc(func(opts *cacheOptions) {
		opts.onConstructionFailed = fn
	})
}

func newCacheOptions(opts []Option) *cacheOptions {
	o := &cacheOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(o)
		}
	}

	if o.builder == nil {
		o.builder = NewFactoryBuilder()
	}

	if o.logger == nil {
		o.logger = newDefaultLogger()
	}

	if o.meterProvider == nil {
		o.meterProvider = otel.GetMeterProvider()
	}

	if !o.locking.IsValid() {
		o.logger.Warn("unknown locking mode, using serialized", "mode", o.locking)
		o.locking = SerializedLocking
	}

	if !o.keyFormat.IsValid() {
		o.logger.Warn("unknown key format, using pipe keys", "format", o.keyFormat)
		o.keyFormat = PipeKeys
	}

	return o
}

func newDefaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "singleton",
		Level:           log.WarnLevel,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
}
