package handlers

import (
	"foodshare/internal/services"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the role specific landing data.
type DashboardHandler struct {
	authService *services.AuthService
	dashboards  *services.DashboardService
}

func NewDashboardHandler(authService *services.AuthService, dashboards *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		authService: authService,
		dashboards:  dashboards,
	}
}

func (h *DashboardHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/dashboard", auth, h.HandleDashboard)
}

// HandleDashboard builds the dashboard for the authenticated user's role.
func (h *DashboardHandler) HandleDashboard(c *fiber.Ctx) error {
	user, err := h.authService.CurrentUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	view, err := h.dashboards.Build(c.UserContext(), user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":      user,
		"dashboard": view,
	})
}
