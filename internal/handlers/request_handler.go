package handlers

import (
	"foodshare/internal/middleware"
	"foodshare/internal/models"
	"foodshare/internal/services"
	"foodshare/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RequestHandler handles HTTP requests for the request workflow.
type RequestHandler struct {
	service  *services.RequestService
	validate *validator.Validate
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service *services.RequestService) *RequestHandler {
	return &RequestHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the request routes. Every route needs auth.
func (h *RequestHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	requestRoutes := router.Group("/requests", auth)

	donorOnly := middleware.RequireRole(models.RoleDonor)
	receiverOnly := middleware.RequireRole(models.RoleReceiver)

	requestRoutes.Post("/", receiverOnly, h.HandleSubmitRequest)
	requestRoutes.Get("/sent", receiverOnly, h.HandleListSent)
	requestRoutes.Get("/received", donorOnly, h.HandleListReceived)
	requestRoutes.Put("/:id/accept", donorOnly, h.HandleDecide)
	requestRoutes.Get("/:id/notifications", h.HandleNotifications)
}

// SubmitRequest is the body of POST /requests.
type SubmitRequest struct {
	DonationID uint `json:"donation_id" form:"donation_id" validate:"required"`
}

// DecideRequest is the body of PUT /requests/:id/accept.
type DecideRequest struct {
	Status     string `json:"status" form:"status" validate:"required,oneof=accepted rejected"`
	DonationID uint   `json:"donation_id" form:"donation_id"`
}

// HandleSubmitRequest records the authenticated receiver's request for a
// donation.
func (h *RequestHandler) HandleSubmitRequest(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(c.UserContext(), "error parsing request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	if ok, err := validateStruct(c, h.validate, req); !ok {
		return err
	}

	request, err := h.service.SubmitRequest(c.UserContext(), req.DonationID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// HandleListReceived lists requests made against the donor's donations.
func (h *RequestHandler) HandleListReceived(c *fiber.Ctx) error {
	requests, err := h.service.ListReceived(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

// HandleListSent lists the receiver's own requests.
func (h *RequestHandler) HandleListSent(c *fiber.Ctx) error {
	requests, err := h.service.ListSent(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

// HandleDecide accepts or rejects a pending request.
func (h *RequestHandler) HandleDecide(c *fiber.Ctx) error {
	requestID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid request id")
	}

	var req DecideRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if ok, err := validateStruct(c, h.validate, req); !ok {
		return err
	}

	request, err := h.service.Decide(c.UserContext(), services.Decision{
		RequestID:  requestID,
		DonorID:    currentUserID(c),
		Status:     models.RequestStatus(req.Status),
		DonationID: req.DonationID,
	})
	if err != nil {
		logger.WarnContext(c.UserContext(), "request decision failed", "request_id", requestID, "error", err)
		return respondError(c, err)
	}

	logger.InfoContext(c.UserContext(), "request decided", "request_id", request.ID, "status", request.Status)
	return c.JSON(fiber.Map{
		"message": "Request " + string(request.Status),
		"request": request,
	})
}

// HandleNotifications returns the delivery log of a request's notifications.
func (h *RequestHandler) HandleNotifications(c *fiber.Ctx) error {
	requestID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid request id")
	}

	entries, err := h.service.NotificationHistory(c.UserContext(), requestID, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}
