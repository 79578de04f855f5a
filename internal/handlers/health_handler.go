package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/cache"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/database"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/dto"
)

type HealthHandler struct {
	cache cache.Cache
}

func NewHealthHandler(c cache.Cache) *HealthHandler {
	return &HealthHandler{cache: c}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}
	cacheStatus := "ok"
	if err := h.cache.Ping(c.Context()); err != nil {
		cacheStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Cache:     cacheStatus,
	})
}

func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Ready gates load balancer traffic on the backing stores.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if err := database.Ping(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable", "db": "unreachable",
		})
	}
	if err := h.cache.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable", "cache": "unreachable",
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
