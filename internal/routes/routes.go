package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/storyforge/sharing-service/internal/config"
	"github.com/storyforge/sharing-service/internal/handlers"
	"github.com/storyforge/sharing-service/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	healthHandler *handlers.HealthHandler,
	sharingHandler *handlers.SharingHandler,
	reportingHandler *handlers.ReportingHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Sharing — public view surface plus owner management
	sharing := api.Group("/sharing")
	sharing.Get("/shared/:shareUrl", sharingHandler.GetShared)
	sharing.Get("/qr/:shareUrl", sharingHandler.QRCode)
	sharing.Post("/share/:shareUrl/record", sharingHandler.RecordShare)

	sharing.Get("/my", middleware.JWTProtected(cfg), sharingHandler.ListMine)
	sharing.Get("/share/:shareUrl/analytics", middleware.JWTProtected(cfg), sharingHandler.Analytics)
	sharing.Patch("/share/:shareUrl/hidden",
		middleware.JWTProtected(cfg),
		middleware.ModeratorRequired(db, cfg),
		sharingHandler.SetHidden,
	)
	sharing.Patch("/share/:shareUrl", middleware.JWTProtected(cfg), sharingHandler.Update)
	sharing.Delete("/share/:shareUrl", middleware.JWTProtected(cfg), sharingHandler.Revoke)
	sharing.Post("/:scenarioId", middleware.JWTProtected(cfg), sharingHandler.Create)

	// Reporting — intake is open to anonymous callers but rate limited
	// harder than the rest of the API
	reporting := api.Group("/reporting")
	reporting.Post("/report",
		limiter.New(limiter.Config{
			Max:               10,
			Expiration:        1 * time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}),
		middleware.JWTOptional(cfg),
		reportingHandler.Create,
	)

	// Moderator queue and transitions. Static segments are registered
	// before the :reportId routes so they are not captured by the param.
	moderator := []fiber.Handler{middleware.JWTProtected(cfg), middleware.ModeratorRequired(db, cfg)}
	reporting.Get("/pending", append(moderator, reportingHandler.ListPending)...)
	reporting.Get("/stats", append(moderator, reportingHandler.Stats)...)

	// Bulk resolution is admin-only
	reporting.Patch("/bulk/resolve",
		middleware.JWTProtected(cfg),
		middleware.AdminRequired(db, cfg),
		reportingHandler.BulkResolve,
	)

	reporting.Get("/:reportId", append(moderator, reportingHandler.Get)...)
	reporting.Patch("/:reportId/review", append(moderator, reportingHandler.Review)...)
	reporting.Patch("/:reportId/resolve", append(moderator, reportingHandler.Resolve)...)
	reporting.Patch("/:reportId/dismiss", append(moderator, reportingHandler.Dismiss)...)
	reporting.Patch("/:reportId/escalate", append(moderator, reportingHandler.Escalate)...)
}
