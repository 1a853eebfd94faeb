package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggorockee/localdirectory/internal/ratelimit"
)

// recordingChecker allows max requests per IP and remembers which IPs it saw.
type recordingChecker struct {
	mu     sync.Mutex
	max    int64
	counts map[string]int64
	seen   []string
}

func (r *recordingChecker) Check(_ context.Context, ip string) (*ratelimit.Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int64{}
	}
	r.counts[ip]++
	r.seen = append(r.seen, ip)
	n := r.counts[ip]
	return &ratelimit.Decision{
		Allowed: n <= r.max,
		IP:      ratelimit.Usage{Count: n, Limit: r.max, Remaining: max(r.max-n, 0), ResetAt: time.Now().Add(time.Hour)},
	}, nil
}

func newLimitedApp(cfg fiber.Config, checker Checker) *fiber.App {
	app := fiber.New(cfg)
	app.Post("/", RateLimit(checker), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func forwardedRequest(forwardedFor string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(fiber.HeaderXForwardedFor, forwardedFor)
	req.Header.Set("X-Real-IP", forwardedFor)
	return req
}

func TestRateLimit_IgnoresForwardedHeadersWithoutTrustedProxies(t *testing.T) {
	checker := &recordingChecker{max: 2}
	app := newLimitedApp(ProxyConfig(fiber.Config{}, fiber.HeaderXForwardedFor, nil), checker)

	codes := []int{}
	for _, ip := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		resp, err := app.Test(forwardedRequest(ip), -1)
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}

	// 헤더를 바꿔도 같은 소켓 주소로 집계
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	require.Len(t, checker.seen, 3)
	assert.Equal(t, checker.seen[0], checker.seen[2])
	assert.NotContains(t, checker.seen, "203.0.113.1")
}

func TestRateLimit_UsesProxyHeaderFromTrustedProxy(t *testing.T) {
	checker := &recordingChecker{max: 1}
	app := newLimitedApp(ProxyConfig(fiber.Config{}, fiber.HeaderXForwardedFor, []string{"0.0.0.0/0", "::/0"}), checker)

	for _, ip := range []string{"203.0.113.1, 10.0.0.1", "203.0.113.2, 10.0.0.1"} {
		resp, err := app.Test(forwardedRequest(ip), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, []string{"203.0.113.1", "203.0.113.2"}, checker.seen)
}

func TestProxyConfig_NoTrustedProxies(t *testing.T) {
	cfg := ProxyConfig(fiber.Config{AppName: "x"}, fiber.HeaderXForwardedFor, nil)
	assert.Empty(t, cfg.ProxyHeader)
	assert.False(t, cfg.EnableTrustedProxyCheck)
	assert.Equal(t, "x", cfg.AppName)
}
