package middleware

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ggorockee/localdirectory/internal/logger"
	"github.com/ggorockee/localdirectory/internal/ratelimit"
)

// Checker ratelimit.Limiter 인터페이스
type Checker interface {
	Check(ctx context.Context, ip string) (*ratelimit.Decision, error)
}

// RateLimit rejects with 429 once the global or per-IP window is exhausted.
// When the counter store fails the request is let through.
func RateLimit(limiter Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()

		d, err := limiter.Check(c.UserContext(), ip)
		if err != nil {
			logger.GetLogger("ratelimit").Errorf("rate limit check failed for %s: %v", ip, err)
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.FormatInt(d.IP.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(d.IP.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(d.IP.ResetAt.Unix(), 10))

		if !d.Allowed {
			scope := ratelimit.ScopeIP
			if d.Global.Count > d.Global.Limit {
				scope = ratelimit.ScopeGlobal
			}
			rateLimitRejectedTotal.WithLabelValues(scope).Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests. Please try again later.",
			})
		}
		return c.Next()
	}
}

// ProxyConfig makes c.IP() read header, but only for requests arriving from
// one of trusted. With no trusted proxies forwarded headers are ignored.
func ProxyConfig(cfg fiber.Config, header string, trusted []string) fiber.Config {
	if len(trusted) == 0 || header == "" {
		return cfg
	}
	cfg.ProxyHeader = header
	cfg.EnableTrustedProxyCheck = true
	cfg.TrustedProxies = trusted
	cfg.EnableIPValidation = true
	return cfg
}
