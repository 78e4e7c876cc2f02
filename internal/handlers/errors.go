package handlers

import (
	"errors"
	"fmt"

	"foodshare/internal/middleware"
	"foodshare/internal/services"
	"foodshare/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// errorStatus maps a service error onto an HTTP status and an error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest, "validation_error"
	case errors.Is(err, services.ErrDuplicateIdentity):
		return fiber.StatusBadRequest, "duplicate_identity"
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusBadRequest, "invalid_credentials"
	case errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized, "unauthorized"
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrRequestDecided), errors.Is(err, services.ErrDonationUnavailable):
		return fiber.StatusConflict, "conflict"
	default:
		return fiber.StatusInternalServerError, "internal_error"
	}
}

// respondError writes the JSON error body for err. Store and other
// unexpected errors are logged and answered without detail.
func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		logger.ErrorContext(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
		message = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"code":    code,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"code":    "validation_error",
	})
}

// validateStruct runs the validator and writes the 400 field error map when
// it fails. It reports whether the request may continue.
func validateStruct(c *fiber.Ctx, validate *validator.Validate, v any) (bool, error) {
	err := validate.Struct(v)
	if err == nil {
		return true, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false, badRequest(c, err.Error())
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"code":    "validation_error",
		"errors":  errorMessages,
	})
}

// paramID parses a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(middleware.LocalUserID).(uint)
	return id
}
