package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger 의존 저장소 연결 확인
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns the health status of the API
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
	})
}

// LivenessCheck 프로세스 생존 확인 (k8s liveness probe)
func LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessCheck 저장소 연결이 가능할 때만 ready (k8s readiness probe)
func ReadinessCheck(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
				"error":  "database unavailable",
			})
		}
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	}
}
