package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Pipeline 캐시/업스트림/정리 작업 메트릭
// A nil *Pipeline is valid and records nothing.
type Pipeline struct {
	CacheLookups     metric.Int64Counter
	UpstreamRequests metric.Int64Counter
	UpstreamDuration metric.Float64Histogram
	Fallbacks        metric.Int64Counter
	Degraded         metric.Int64Counter
	BreakerState     metric.Int64Gauge

	CleanupTotal    metric.Int64Counter
	CleanupDeleted  metric.Int64Counter
	CleanupDuration metric.Float64Histogram
	CleanupErrors   metric.Int64Counter
}

// NewPipeline registers instruments on the global meter provider, so call it
// after InitMeter. Without an exporter the instruments are no-ops.
func NewPipeline(serviceName string) (*Pipeline, error) {
	m := otel.Meter(serviceName)
	p := &Pipeline{}

	var err error
	if p.CacheLookups, err = m.Int64Counter(
		"places.cache.lookups",
		metric.WithDescription("Cache lookups by result (hit, miss, error)"),
	); err != nil {
		return nil, err
	}
	if p.UpstreamRequests, err = m.Int64Counter(
		"places.upstream.requests",
		metric.WithDescription("Upstream text-search requests by status"),
	); err != nil {
		return nil, err
	}
	if p.UpstreamDuration, err = m.Float64Histogram(
		"places.upstream.duration",
		metric.WithDescription("Upstream request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if p.Fallbacks, err = m.Int64Counter(
		"places.fallbacks",
		metric.WithDescription("Fallbacks taken by kind"),
	); err != nil {
		return nil, err
	}
	if p.Degraded, err = m.Int64Counter(
		"places.degraded_responses",
		metric.WithDescription("Responses served with the unavailable flag"),
	); err != nil {
		return nil, err
	}
	if p.BreakerState, err = m.Int64Gauge(
		"places.breaker.state",
		metric.WithDescription("Circuit state by key (0 closed, 1 open, 2 half-open)"),
	); err != nil {
		return nil, err
	}
	if p.CleanupTotal, err = m.Int64Counter(
		"places.cleanup.total",
		metric.WithDescription("Total number of cache cleanup runs"),
	); err != nil {
		return nil, err
	}
	if p.CleanupDeleted, err = m.Int64Counter(
		"places.cleanup.deleted",
		metric.WithDescription("Cache entries deleted by cleanup"),
	); err != nil {
		return nil, err
	}
	if p.CleanupDuration, err = m.Float64Histogram(
		"places.cleanup.duration",
		metric.WithDescription("Duration of cleanup runs in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if p.CleanupErrors, err = m.Int64Counter(
		"places.cleanup.errors",
		metric.WithDescription("Total number of failed cleanup runs"),
	); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordCacheLookup result: hit, miss, error
func (p *Pipeline) RecordCacheLookup(ctx context.Context, result string) {
	if p == nil {
		return
	}
	p.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordUpstream 업스트림 요청 상태와 소요 시간 기록
func (p *Pipeline) RecordUpstream(ctx context.Context, status string, d time.Duration) {
	if p == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	p.UpstreamRequests.Add(ctx, 1, attrs)
	p.UpstreamDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordFallback kind: first_page, store_write
func (p *Pipeline) RecordFallback(ctx context.Context, kind string) {
	if p == nil {
		return
	}
	p.Fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordDegraded reason: circuit_open, boundary_tripped, timeout, error
func (p *Pipeline) RecordDegraded(ctx context.Context, reason string) {
	if p == nil {
		return
	}
	p.Degraded.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordBreakerState 회로 상태 기록
func (p *Pipeline) RecordBreakerState(ctx context.Context, key string, state int64) {
	if p == nil {
		return
	}
	p.BreakerState.Record(ctx, state, metric.WithAttributes(attribute.String("key", key)))
}

// RecordCleanup cleanup 결과 기록
func (p *Pipeline) RecordCleanup(ctx context.Context, deleted int64, d time.Duration, err error) {
	if p == nil {
		return
	}
	p.CleanupTotal.Add(ctx, 1)
	p.CleanupDuration.Record(ctx, d.Seconds())
	if err != nil {
		p.CleanupErrors.Add(ctx, 1)
		return
	}
	p.CleanupDeleted.Add(ctx, deleted)
}
