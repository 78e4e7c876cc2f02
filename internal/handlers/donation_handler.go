package handlers

import (
	"context"
	"errors"
	"strings"

	"foodshare/internal/middleware"
	"foodshare/internal/models"
	"foodshare/internal/services"
	"foodshare/internal/storage"
	"foodshare/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// DonationHandler handles HTTP requests for donations.
type DonationHandler struct {
	service  *services.DonationService
	photos   storage.PhotoStore
	validate *validator.Validate
}

// NewDonationHandler creates a new DonationHandler. photos may be nil, in
// which case uploaded photos are rejected.
func NewDonationHandler(service *services.DonationService, photos storage.PhotoStore) *DonationHandler {
	return &DonationHandler{
		service:  service,
		photos:   photos,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the donation routes. The listing is public, the
// rest is for authenticated donors.
func (h *DonationHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	donationRoutes := router.Group("/donations")
	donationRoutes.Get("/", h.HandleListAvailable)

	donorOnly := middleware.RequireRole(models.RoleDonor)
	donationRoutes.Get("/mine", auth, donorOnly, h.HandleListMine)
	donationRoutes.Post("/", auth, donorOnly, h.HandleCreateDonation)
	donationRoutes.Put("/:id/status", auth, donorOnly, h.HandleUpdateStatus)
}

// CreateDonationRequest is the body of POST /donations, sent either as
// multipart form (with an optional "photo" file) or as JSON.
type CreateDonationRequest struct {
	FoodType  string `json:"food_type" form:"food_type" validate:"required"`
	Quantity  string `json:"quantity" form:"quantity" validate:"required"`
	ShelfLife string `json:"shelf_life" form:"shelf_life" validate:"required"`
	Address   string `json:"address" form:"address" validate:"required"`
	City      string `json:"city" form:"city" validate:"required"`
	State     string `json:"state" form:"state" validate:"required"`
}

// HandleListAvailable lists available donations, optionally filtered by
// city and state.
func (h *DonationHandler) HandleListAvailable(c *fiber.Ctx) error {
	var filter models.DonationFilter
	if err := c.QueryParser(&filter); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	donations, err := h.service.ListAvailable(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(donations)
}

// HandleListMine lists every donation of the authenticated donor.
func (h *DonationHandler) HandleListMine(c *fiber.Ctx) error {
	donations, err := h.service.ListOwned(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(donations)
}

// HandleCreateDonation creates a new donation.
func (h *DonationHandler) HandleCreateDonation(c *fiber.Ctx) error {
	var req CreateDonationRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(c.UserContext(), "error parsing donation request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	if ok, err := validateStruct(c, h.validate, req); !ok {
		return err
	}

	donation := models.Donation{
		FoodType:  req.FoodType,
		Quantity:  req.Quantity,
		ShelfLife: req.ShelfLife,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
	}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return badRequest(c, "Invalid multipart form")
		}
		if files := form.File["photo"]; len(files) > 0 {
			if h.photos == nil {
				return badRequest(c, "Photo uploads are not enabled")
			}
			url, err := h.photos.Save(c.UserContext(), files[0])
			if errors.Is(err, storage.ErrUnsupportedPhoto) {
				return badRequest(c, "Photo must be a jpg, png, gif or webp image")
			}
			if err != nil {
				return respondError(c, err)
			}
			donation.PhotoURL = &url
		}
	}

	if err := h.service.CreateDonation(c.UserContext(), currentUserID(c), &donation); err != nil {
		if donation.PhotoURL != nil {
			if delErr := h.photos.Delete(context.WithoutCancel(c.UserContext()), *donation.PhotoURL); delErr != nil {
				logger.ErrorContext(c.UserContext(), "failed to remove photo of rejected donation",
					"photo_url", *donation.PhotoURL, "error", delErr)
			}
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(donation)
}

// HandleUpdateStatus sets the status of one of the donor's donations.
func (h *DonationHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	donationID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid donation id")
	}

	var updateData struct {
		Status models.DonationStatus `json:"status" form:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return badRequest(c, "Invalid request body for status update")
	}

	if err := h.service.SetStatus(c.UserContext(), donationID, currentUserID(c), updateData.Status); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Donation status updated",
		"id":      donationID,
		"status":  updateData.Status,
	})
}
