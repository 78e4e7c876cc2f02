package middleware

import (
	"context"
	"strings"

	"foodshare/internal/models"
	"foodshare/internal/services"
	"foodshare/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthRequired.
const (
	LocalUserID = "user_id"
	LocalName   = "name"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			logger.WarnContext(c.UserContext(), "JWT validation failed", "error", err)
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalName, claims.Name)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)
		c.SetUserContext(context.WithValue(c.UserContext(), logger.UserIDKey, claims.UserID))

		return c.Next()
	}
}

// RequireRole only lets users of the given role through. It must run after
// AuthRequired.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if got, _ := c.Locals(LocalRole).(models.Role); got != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Only " + string(role) + " accounts can use this endpoint",
				"code":    "forbidden",
			})
		}
		return c.Next()
	}
}

// RequestContext copies the request id into the user context so service
// logs can be correlated with the access log.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
			c.SetUserContext(context.WithValue(c.UserContext(), logger.RequestIDKey, id))
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
		"code":    "unauthorized",
	})
}
