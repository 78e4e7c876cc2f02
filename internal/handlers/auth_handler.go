package handlers

import (
	"foodshare/internal/models"
	"foodshare/internal/services"
	"foodshare/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes. auth guards /auth/me.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/me", auth, h.HandleMe)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	Phone    string `json:"phone" form:"phone" validate:"required"`
	Type     string `json:"type" form:"type" validate:"required,oneof=donor receiver"`
	Address  string `json:"address" form:"address" validate:"required"`
	City     string `json:"city" form:"city" validate:"required"`
	State    string `json:"state" form:"state" validate:"required"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(c.UserContext(), "error parsing register request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	if ok, err := validateStruct(c, h.validate, req); !ok {
		return err
	}

	user := models.User{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Role:    models.Role(req.Type),
		Address: req.Address,
		City:    req.City,
		State:   req.State,
	}
	if err := h.authService.RegisterUser(c.UserContext(), &user, req.Password); err != nil {
		logger.WarnContext(c.UserContext(), "error registering user", "email", req.Email, "error", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(c.UserContext(), "error parsing login request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	if ok, err := validateStruct(c, h.validate, req); !ok {
		return err
	}

	token, user, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		logger.WarnContext(c.UserContext(), "login failed", "email", req.Email, "error", err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// HandleMe returns the profile of the authenticated user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.CurrentUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
