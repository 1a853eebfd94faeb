package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP 요청 수
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localdirectory_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP 요청 지연시간
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localdirectory_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	httpActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localdirectory_http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	// 응답 크기
	httpResponseSize = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "localdirectory_http_response_size_bytes",
			Help:       "HTTP response size in bytes",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"method", "path"},
	)

	// 저하 응답 (unavailable) 수
	placesUnavailableTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "localdirectory_places_unavailable_responses_total",
			Help: "Places responses served with unavailable=true",
		},
	)

	rateLimitRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localdirectory_rate_limit_rejected_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)
)

// PrometheusMiddleware Prometheus 메트릭 수집 미들웨어
func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if strings.HasPrefix(path, "/metrics") {
			return c.Next()
		}

		start := time.Now()
		httpActiveConnections.Inc()
		defer httpActiveConnections.Dec()

		err := c.Next()

		// 라우트 템플릿 사용 (/v1/places/:keyword/:location)
		routePath := c.Route().Path
		if routePath == "" {
			routePath = path
		}
		method := c.Method()
		status := strconv.Itoa(c.Response().StatusCode())

		httpRequestsTotal.WithLabelValues(method, routePath, status).Inc()
		httpRequestDuration.WithLabelValues(method, routePath).Observe(time.Since(start).Seconds())
		httpResponseSize.WithLabelValues(method, routePath).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// RecordUnavailable 저하 응답 카운트
func RecordUnavailable() {
	placesUnavailableTotal.Inc()
}

// PrometheusHandler Prometheus scrape 엔드포인트
func PrometheusHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
