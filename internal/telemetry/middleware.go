package telemetry

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const spanLocalsKey = "otel-span"

// Config holds the configuration for the tracing middleware
type Config struct {
	ServiceName string
	Skip        func(*fiber.Ctx) bool
}

// DefaultConfig skips probe and scrape endpoints.
func DefaultConfig() Config {
	return Config{
		ServiceName: ServiceName,
		Skip: func(c *fiber.Ctx) bool {
			switch c.Path() {
			case "/healthz", "/v1/liveness", "/v1/readiness", "/metrics":
				return true
			}
			return false
		},
	}
}

// New returns a tracing middleware for Fiber. The request span context is
// set as the user context, so handlers pass c.UserContext() downstream.
func New(config ...Config) fiber.Handler {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		start := time.Now()
		method := c.Method()
		path := c.Path()

		if HTTPActiveRequests != nil {
			HTTPActiveRequests.Add(c.Context(), 1, metric.WithAttributes(
				attribute.String("method", method),
			))
			defer HTTPActiveRequests.Add(c.Context(), -1, metric.WithAttributes(
				attribute.String("method", method),
			))
		}

		tr := otel.GetTracerProvider().Tracer(cfg.ServiceName)
		ctx := otel.GetTextMapPropagator().Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := tr.Start(ctx, method+" "+path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethodKey.String(method),
				semconv.HTTPURLKey.String(c.OriginalURL()),
				semconv.HTTPTargetKey.String(path),
				semconv.NetHostNameKey.String(c.Hostname()),
				semconv.HTTPUserAgentKey.String(string(c.Request().Header.UserAgent())),
			),
		)
		defer span.End()

		c.Locals(spanLocalsKey, span)
		c.SetUserContext(ctx)

		err := c.Next()

		status := c.Response().StatusCode()
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(status))
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("error", true))
		}

		// 라우트 템플릿 기준으로 집계 (slug별 카디널리티 방지)
		route := c.Route().Path
		if route == "" {
			route = path
		}
		attrs := metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", route),
			attribute.String("status", strconv.Itoa(status)),
		)
		if HTTPRequestsTotal != nil {
			HTTPRequestsTotal.Add(c.Context(), 1, attrs)
		}
		if HTTPRequestDuration != nil {
			HTTPRequestDuration.Record(c.Context(), time.Since(start).Seconds(), attrs)
		}

		return err
	}
}

// SpanFromContext gets the current span from fiber context
func SpanFromContext(c *fiber.Ctx) trace.Span {
	span, ok := c.Locals(spanLocalsKey).(trace.Span)
	if !ok {
		return nil
	}
	return span
}
