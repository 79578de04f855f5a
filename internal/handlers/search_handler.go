package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/providers"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/services"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

type SearchHandler struct {
	searchService *services.SearchService
}

func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) Search(mediaType models.MediaType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := middleware.CurrentUserID(c); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Not authenticated",
			})
		}

		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Search query is required",
			})
		}

		limit := c.QueryInt("limit", defaultSearchLimit)
		if limit < 1 {
			limit = defaultSearchLimit
		}
		if limit > maxSearchLimit {
			limit = maxSearchLimit
		}

		results, source, err := h.searchService.Search(c.Context(), mediaType, query, limit)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "External search failed",
			})
		}
		return c.JSON(dto.SearchResultsResponse{Results: results, Source: source})
	}
}

func (h *SearchHandler) Details(mediaType models.MediaType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := middleware.CurrentUserID(c); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Not authenticated",
			})
		}

		id := c.Params("id")
		result, source, err := h.searchService.Details(c.Context(), mediaType, id)
		if err != nil {
			if errors.Is(err, providers.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
					Error:   true,
					Message: fmt.Sprintf("%s with identifier '%s' not found", kindLabel(mediaType), id),
				})
			}
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "External lookup failed",
			})
		}
		return c.JSON(dto.SearchDetailResponse{Result: result, Source: source})
	}
}

// Convert maps a raw provider payload to the matching creation payload, so
// the frontend can post it back unchanged to the media endpoints.
func (h *SearchHandler) Convert(mediaType models.MediaType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := middleware.CurrentUserID(c); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Not authenticated",
			})
		}

		var payload map[string]any
		if err := c.BodyParser(&payload); err != nil || len(payload) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid request body",
			})
		}

		out, err := h.searchService.Convert(c.Context(), mediaType, payload)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to convert payload",
			})
		}
		return c.JSON(out)
	}
}
