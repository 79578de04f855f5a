package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/services"
)

const maxUploadSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type MediaHandler struct {
	mediaService *services.MediaService
	uploadDir    string
}

func NewMediaHandler(mediaService *services.MediaService, uploadDir string) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, uploadDir: uploadDir}
}

// mediaCreate is satisfied by every per-kind creation payload.
type mediaCreate interface {
	ToModel() *models.Media
	TagNames() []string
}

func newCreateRequest(mediaType models.MediaType) mediaCreate {
	switch mediaType {
	case models.MediaTypeMovie:
		return &dto.MovieCreateRequest{}
	case models.MediaTypeSeries:
		return &dto.SeriesCreateRequest{}
	case models.MediaTypeAnime:
		return &dto.AnimeCreateRequest{}
	case models.MediaTypeManga:
		return &dto.MangaCreateRequest{}
	case models.MediaTypeBook:
		return &dto.BookCreateRequest{}
	default:
		return &dto.GameCreateRequest{}
	}
}

func newUpdateRequest(mediaType models.MediaType) dto.MediaUpdate {
	switch mediaType {
	case models.MediaTypeMovie:
		return &dto.MovieUpdateRequest{}
	case models.MediaTypeSeries:
		return &dto.SeriesUpdateRequest{}
	case models.MediaTypeAnime:
		return &dto.AnimeUpdateRequest{}
	case models.MediaTypeManga:
		return &dto.MangaUpdateRequest{}
	case models.MediaTypeBook:
		return &dto.BookUpdateRequest{}
	default:
		return &dto.GameUpdateRequest{}
	}
}

func kindLabel(mediaType models.MediaType) string {
	switch mediaType {
	case models.MediaTypeMovie:
		return "Movie"
	case models.MediaTypeSeries:
		return "Series"
	case models.MediaTypeAnime:
		return "Anime"
	case models.MediaTypeManga:
		return "Manga"
	case models.MediaTypeBook:
		return "Book"
	case models.MediaTypeGame:
		return "Game"
	}
	return "Media"
}

func (h *MediaHandler) Create(mediaType models.MediaType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Not authenticated",
			})
		}

		req := newCreateRequest(mediaType)
		if err := c.BodyParser(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid request body",
			})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: validationMessage(err),
			})
		}

		media, err := h.mediaService.Create(c.Context(), req.ToModel(), req.TagNames(), userID)
		if err != nil {
			if errors.Is(err, services.ErrMediaExists) {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
					Error: true, Message: kindLabel(mediaType) + " already exists",
				})
			}
			if errors.Is(err, services.ErrInvalidCoverURL) {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
					Error: true, Message: err.Error(),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to create " + strings.ToLower(kindLabel(mediaType)),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(dto.NewMediaResponse(media, userID))
	}
}

func (h *MediaHandler) List(mediaType models.MediaType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Not authenticated",
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

		items, total, err := h.mediaService.List(mediaType, page, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to list " + strings.ToLower(kindLabel(mediaType)),
			})
		}
		return c.JSON(dto.NewMediaListResponse(items, total, page, limit, userID))
	}
}

func (h *MediaHandler) Get(mediaType models.MediaType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Not authenticated",
			})
		}

		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid media id",
			})
		}

		media, err := h.mediaService.Get(mediaType, id)
		if err != nil {
			if errors.Is(err, services.ErrMediaNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
					Error: true, Message: kindLabel(mediaType) + " not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
		return c.JSON(dto.NewMediaResponse(media, userID))
	}
}

func (h *MediaHandler) Update(mediaType models.MediaType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Not authenticated",
			})
		}

		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid media id",
			})
		}

		req := newUpdateRequest(mediaType)
		if err := c.BodyParser(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid request body",
			})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: validationMessage(err),
			})
		}

		media, err := h.mediaService.Update(c.Context(), mediaType, id, userID, req)
		if err != nil {
			if errors.Is(err, services.ErrMediaNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
					Error: true, Message: kindLabel(mediaType) + " not found",
				})
			}
			if errors.Is(err, services.ErrNotPermitted) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Error: true, Message: "Cannot modify this media",
				})
			}
			if errors.Is(err, services.ErrInvalidCoverURL) {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
					Error: true, Message: err.Error(),
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to update " + strings.ToLower(kindLabel(mediaType)),
			})
		}
		return c.JSON(dto.NewMediaResponse(media, userID))
	}
}

func (h *MediaHandler) Delete(mediaType models.MediaType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.CurrentUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Not authenticated",
			})
		}

		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid media id",
			})
		}

		if err := h.mediaService.Delete(c.Context(), mediaType, id, userID); err != nil {
			if errors.Is(err, services.ErrMediaNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
					Error: true, Message: kindLabel(mediaType) + " not found",
				})
			}
			if errors.Is(err, services.ErrNotPermitted) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
					Error: true, Message: "Cannot delete this media",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to delete " + strings.ToLower(kindLabel(mediaType)),
			})
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Search matches the local catalog, not the external providers.
func (h *MediaHandler) Search(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
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

	mediaType := models.MediaType(c.Query("media_type"))
	if mediaType != "" && !mediaType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid media type",
		})
	}

	items, err := h.mediaService.SearchLocal(query, mediaType, c.QueryInt("limit", 100))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to search media",
		})
	}

	results := make([]dto.MediaResponse, len(items))
	for i := range items {
		results[i] = dto.NewMediaResponse(&items[i], userID)
	}
	return c.JSON(fiber.Map{"results": results})
}

// UploadImage stores a cover image and returns the path to reference it
// from a cover_image_url field.
func (h *MediaHandler) UploadImage(c *fiber.Ctx) error {
	if _, err := middleware.CurrentUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Not authenticated",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "No file provided",
		})
	}
	if file.Size > maxUploadSize {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "File too large (max 5MB)",
		})
	}

	contentType := file.Header.Get(fiber.HeaderContentType)
	fallbackExt, ok := allowedImageTypes[contentType]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Unsupported file type (allowed: jpeg, png, gif, webp)",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = fallbackExt
	}

	name := uuid.New().String() + ext
	dst := filepath.Join(h.uploadDir, "images", name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to store file",
		})
	}
	if err := c.SaveFile(file, dst); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to store file",
		})
	}

	return c.JSON(dto.UploadResponse{URL: "/static/images/" + name})
}
