package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/config"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
)

const (
	appName    = "MediaTrack API"
	appVersion = "1.0.0"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	mediaHandler *handlers.MediaHandler,
	trackingHandler *handlers.TrackingHandler,
	searchHandler *handlers.SearchHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Uploaded covers are served from the same tree they are written to.
	app.Static("/static", cfg.UploadDir)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":    appName,
			"version": appVersion,
			"status":  "running",
		})
	})
	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/live", healthHandler.Live)
	api.Get("/ready", healthHandler.Ready)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/token", authHandler.Token)
	auth.Post("/logout", authHandler.Logout)

	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Catalog
	media := api.Group("/media", middleware.JWTProtected(cfg))
	media.Post("/upload-image", mediaHandler.UploadImage)
	media.Get("/search", mediaHandler.Search)

	kinds := []struct {
		path string
		t    models.MediaType
	}{
		{"movies", models.MediaTypeMovie},
		{"series", models.MediaTypeSeries},
		{"anime", models.MediaTypeAnime},
		{"manga", models.MediaTypeManga},
		{"books", models.MediaTypeBook},
		{"games", models.MediaTypeGame},
	}
	for _, k := range kinds {
		media.Post("/"+k.path, mediaHandler.Create(k.t))
		media.Get("/"+k.path, mediaHandler.List(k.t))
		media.Get("/"+k.path+"/:id", mediaHandler.Get(k.t))
		media.Put("/"+k.path+"/:id", mediaHandler.Update(k.t))
		media.Delete("/"+k.path+"/:id", mediaHandler.Delete(k.t))
	}

	// Tracking. The fixed paths must be registered before the :mediaId
	// routes or fiber would swallow them.
	tracking := api.Group("/tracking", middleware.JWTProtected(cfg))
	tracking.Post("/", trackingHandler.Create)
	tracking.Get("/", trackingHandler.List)
	tracking.Get("/favorites", trackingHandler.Favorites)
	tracking.Get("/statistics", trackingHandler.Statistics)
	tracking.Get("/:mediaId", trackingHandler.Get)
	tracking.Put("/:mediaId", trackingHandler.Update)
	tracking.Patch("/:mediaId", trackingHandler.Update)
	tracking.Delete("/:mediaId", trackingHandler.Delete)

	// External catalog search
	search := api.Group("/search", middleware.JWTProtected(cfg))
	for _, k := range kinds {
		search.Get("/"+k.path, searchHandler.Search(k.t))
		search.Get("/"+k.path+"/:id", searchHandler.Details(k.t))
		search.Post("/convert/"+string(k.t), searchHandler.Convert(k.t))
	}
}
