package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ggorockee/localdirectory/internal/logger"
	"github.com/ggorockee/localdirectory/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ErrorHandler is the custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:  "Invalid request",
			Errors: verr.Fields,
		})
	}

	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		logger.GetLogger("http").Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(ErrorResponse{
		Error: message,
	})
}
