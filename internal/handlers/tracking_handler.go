package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/services"
)

var trackingSorts = map[string]bool{
	"priority":   true,
	"rating":     true,
	"title":      true,
	"created_at": true,
}

type TrackingHandler struct {
	trackingService *services.TrackingService
}

func NewTrackingHandler(trackingService *services.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

func (h *TrackingHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authenticated",
		})
	}

	var req dto.TrackingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: validationMessage(err),
		})
	}

	tracking, err := h.trackingService.Create(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrMediaNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Media not found",
			})
		}
		if errors.Is(err, services.ErrTrackingExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Tracking entry already exists for this media",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create tracking entry",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewTrackingResponse(tracking, userID))
}

func (h *TrackingHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authenticated",
		})
	}

	status := models.TrackingStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid status",
		})
	}
	mediaType := models.MediaType(c.Query("media_type"))
	if mediaType != "" && !mediaType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid media type",
		})
	}
	sortBy := c.Query("sort_by")
	if sortBy != "" && !trackingSorts[sortBy] {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid sort field (allowed: priority, rating, title, created_at)",
		})
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 100)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	items, total, err := h.trackingService.List(userID, services.TrackingQuery{
		Status:    status,
		MediaType: mediaType,
		SortBy:    sortBy,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list tracking entries",
		})
	}
	return c.JSON(dto.NewTrackingListResponse(items, total, page, limit, userID))
}

func (h *TrackingHandler) Favorites(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authenticated",
		})
	}

	mediaType := models.MediaType(c.Query("media_type"))
	if mediaType != "" && !mediaType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid media type",
		})
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 100)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	items, total, err := h.trackingService.Favorites(userID, mediaType, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list favorites",
		})
	}
	return c.JSON(dto.NewTrackingListResponse(items, total, page, limit, userID))
}

func (h *TrackingHandler) Statistics(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authenticated",
		})
	}

	mediaType := models.MediaType(c.Query("media_type"))
	if mediaType != "" && !mediaType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid media type",
		})
	}

	stats, err := h.trackingService.Statistics(userID, mediaType)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute statistics",
		})
	}
	return c.JSON(stats)
}

func (h *TrackingHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authenticated",
		})
	}

	mediaID, err := uuid.Parse(c.Params("mediaId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid media id",
		})
	}

	tracking, err := h.trackingService.Get(userID, mediaID)
	if err != nil {
		if errors.Is(err, services.ErrTrackingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Tracking entry not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.NewTrackingResponse(tracking, userID))
}

func (h *TrackingHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authenticated",
		})
	}

	mediaID, err := uuid.Parse(c.Params("mediaId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid media id",
		})
	}

	var req dto.TrackingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: validationMessage(err),
		})
	}

	tracking, err := h.trackingService.Update(userID, mediaID, &req)
	if err != nil {
		if errors.Is(err, services.ErrTrackingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Tracking entry not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update tracking entry",
		})
	}
	return c.JSON(dto.NewTrackingResponse(tracking, userID))
}

func (h *TrackingHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authenticated",
		})
	}

	mediaID, err := uuid.Parse(c.Params("mediaId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid media id",
		})
	}

	if err := h.trackingService.Delete(c.Context(), userID, mediaID); err != nil {
		if errors.Is(err, services.ErrTrackingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Tracking entry not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete tracking entry",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
