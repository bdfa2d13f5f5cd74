package singleton

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/junioryono/singleton"

// cacheMetrics records cache activity through OpenTelemetry instruments.
type cacheMetrics struct {
	cacheID attribute.KeyValue

	hits                metric.Int64Counter
	misses              metric.Int64Counter
	constructions       metric.Int64Counter
	failures            metric.Int64Counter
	clears              metric.Int64Counter
	constructionLatency metric.Float64Histogram
}

func newCacheMetrics(mp metric.MeterProvider, cacheID string) (*cacheMetrics, error) {
	meter := mp.Meter(meterName)

	m := &cacheMetrics{cacheID: attribute.String("cache.id", cacheID)}
	var err error

	if m.hits, err = meter.Int64Counter("singleton.cache.hits",
		metric.WithDescription("Number of requests served from the cache"),
	); err != nil {
		return nil, err
	}

	if m.misses, err = meter.Int64Counter("singleton.cache.misses",
		metric.WithDescription("Number of requests that found no cached instance"),
	); err != nil {
		return nil, err
	}

	if m.constructions, err = meter.Int64Counter("singleton.cache.constructions",
		metric.WithDescription("Number of instances built and stored"),
	); err != nil {
		return nil, err
	}

	if m.failures, err = meter.Int64Counter("singleton.cache.failures",
		metric.WithDescription("Number of failed construction attempts"),
	); err != nil {
		return nil, err
	}

	if m.clears, err = meter.Int64Counter("singleton.cache.clears",
		metric.WithDescription("Number of times the cache was cleared"),
	); err != nil {
		return nil, err
	}

	if m.constructionLatency, err = meter.Float64Histogram("singleton.cache.construction_ms",
		metric.WithDescription("Builder latency in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// noopCacheMetrics returns metrics that record nothing.
func noopCacheMetrics(cacheID string) *cacheMetrics {
	m, _ := newCacheMetrics(noop.NewMeterProvider(), cacheID)
	return m
}

func (m *cacheMetrics) attrs(typeName string) metric.MeasurementOption {
	return metric.WithAttributes(m.cacheID, attribute.String("type", typeName))
}

func (m *cacheMetrics) recordHit(typeName string) {
	m.hits.Add(context.Background(), 1, m.attrs(typeName))
}

func (m *cacheMetrics) recordMiss(typeName string) {
	m.misses.Add(context.Background(), 1, m.attrs(typeName))
}

func (m *cacheMetrics) recordConstruction(typeName string, duration time.Duration, err error) {
	ctx := context.Background()
	attrs := m.attrs(typeName)

	m.constructionLatency.Record(ctx, float64(duration.Microseconds())/1000.0, attrs)
	if err != nil {
		m.failures.Add(ctx, 1, attrs)
		return
	}
	m.constructions.Add(ctx, 1, attrs)
}

func (m *cacheMetrics) recordClear() {
	m.clears.Add(context.Background(), 1, metric.WithAttributes(m.cacheID))
}
