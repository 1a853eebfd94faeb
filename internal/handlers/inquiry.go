package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ggorockee/localdirectory/internal/logger"
	"github.com/ggorockee/localdirectory/internal/middleware"
	"github.com/ggorockee/localdirectory/internal/services"
)

type InquiryHandler struct {
	service *services.InquiryService
}

func NewInquiryHandler(service *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{service: service}
}

// SetupInquiryRoutes 문의 등록은 rate limit 적용
func SetupInquiryRoutes(router fiber.Router, service *services.InquiryService, limiter middleware.Checker) {
	h := NewInquiryHandler(service)

	router.Post("/", middleware.RateLimit(limiter), h.Create)
}

// Create handles POST /v1/inquiries
func (h *InquiryHandler) Create(c *fiber.Ctx) error {
	var req services.InquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid form data",
		})
	}

	result, err := h.service.Submit(c.UserContext(), req, services.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	})

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid form data",
			"errors":  verr.Fields,
		})
	case err != nil:
		logger.GetLogger("inquiry.handler").Errorf("Inquiry submission error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to submit inquiry",
		})
	}

	return c.JSON(result)
}
