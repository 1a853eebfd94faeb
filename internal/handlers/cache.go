package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ggorockee/localdirectory/internal/logger"
	"github.com/ggorockee/localdirectory/internal/middleware"
	"github.com/ggorockee/localdirectory/internal/services"
)

type CacheHandler struct {
	maintenance *services.CacheMaintenance
}

func NewCacheHandler(maintenance *services.CacheMaintenance) *CacheHandler {
	return &CacheHandler{maintenance: maintenance}
}

// SetupCacheRoutes cleanup 계열은 관리자 키 필요, status는 공개
func SetupCacheRoutes(router fiber.Router, maintenance *services.CacheMaintenance, adminKey string) {
	h := NewCacheHandler(maintenance)
	admin := middleware.AdminKeyRequired(adminKey)

	router.Post("/cleanup", admin, h.Cleanup)
	router.Get("/cleanup", admin, h.CleanupStatus)
	router.Post("/cleanup-schedule", admin, h.ScheduledCleanup)
	router.Get("/status", h.Status)
}

func (h *CacheHandler) ping(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()
	return h.maintenance.Ping(ctx)
}

// Cleanup handles POST /v1/cache/cleanup
func (h *CacheHandler) Cleanup(c *fiber.Ctx) error {
	log := logger.GetLogger("cache.handler")

	if err := h.ping(c); err != nil {
		log.Errorf("Database connection error: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "Database connection failed"})
	}

	stats, err := h.maintenance.CleanupExpiredCache(c.UserContext())
	if err != nil {
		log.Errorf("Error in cache cleanup: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to cleanup cache: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Cache cleanup completed successfully",
		"stats":   stats,
	})
}

// CleanupStatus handles GET /v1/cache/cleanup
func (h *CacheHandler) CleanupStatus(c *fiber.Ctx) error {
	if err := h.ping(c); err != nil {
		logger.GetLogger("cache.handler").Errorf("Database connection error: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "Database connection failed"})
	}

	return c.JSON(fiber.Map{
		"status":    "Cache service is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ScheduledCleanup handles POST /v1/cache/cleanup-schedule (external cron)
func (h *CacheHandler) ScheduledCleanup(c *fiber.Ctx) error {
	stats, err := h.maintenance.CleanupExpiredCache(c.UserContext())
	if err != nil {
		logger.GetLogger("cache.handler").Errorf("Error in scheduled cache cleanup: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to run scheduled cache cleanup",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Scheduled cache cleanup completed successfully",
		"stats":   stats,
	})
}

// Status handles GET /v1/cache/status
func (h *CacheHandler) Status(c *fiber.Ctx) error {
	stats, err := h.maintenance.GetCacheStats(c.UserContext())
	if err != nil {
		logger.GetLogger("cache.handler").Errorf("Error getting cache status: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  "Failed to get cache status",
		})
	}

	return c.JSON(fiber.Map{
		"status": "healthy",
		"stats":  stats,
	})
}
