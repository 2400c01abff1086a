package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devcircle/clubconnect-api/internal/config"
	"github.com/devcircle/clubconnect-api/internal/handler"
	"github.com/devcircle/clubconnect-api/internal/middleware"
	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AccountHandler      *handler.AccountHandler
	GuidanceHandler     *handler.GuidanceHandler
	MatchingHandler     *handler.MatchingHandler
	ReferralHandler     *handler.ReferralHandler
	SafetyHandler       *handler.SafetyHandler
	AdminHandler        *handler.AdminHandler
	PostHandler         *handler.PostHandler
	AnnouncementHandler *handler.AnnouncementHandler
	JWTMiddleware       fiber.Handler
	IdentityMiddleware  fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Authenticated
// groups run the JWT check first, then the identity load that resolves role
// and status from the account store.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	identityMiddleware := deps.IdentityMiddleware
	if identityMiddleware == nil {
		identityMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// One burst limiter instance shared by every group so the per-caller
	// counters are global, not per-route.
	burstLimit := middleware.BurstLimit(cfg.BurstLimitMax, cfg.BurstLimitWindow)

	if deps.AccountHandler != nil {
		auth := api.Group("/auth", burstLimit)
		deps.AccountHandler.RegisterPublic(auth)

		account := api.Group("", jwtMiddleware, burstLimit, identityMiddleware)
		deps.AccountHandler.Register(account)
	}

	if deps.GuidanceHandler != nil {
		guidance := api.Group("/guidance", jwtMiddleware, burstLimit, identityMiddleware)
		deps.GuidanceHandler.Register(guidance)
	}

	if deps.MatchingHandler != nil {
		mentors := api.Group("/mentors", jwtMiddleware, burstLimit, identityMiddleware)
		deps.MatchingHandler.Register(mentors)
	}

	if deps.ReferralHandler != nil {
		referrals := api.Group("/referrals", jwtMiddleware, burstLimit, identityMiddleware)
		deps.ReferralHandler.Register(referrals)
	}

	if deps.SafetyHandler != nil {
		safety := api.Group("/safety", jwtMiddleware, burstLimit, identityMiddleware)
		deps.SafetyHandler.Register(safety)
	}

	if deps.PostHandler != nil {
		posts := api.Group("/posts", jwtMiddleware, burstLimit, identityMiddleware)
		deps.PostHandler.Register(posts)
	}

	if deps.AnnouncementHandler != nil {
		announcements := api.Group("/announcements", jwtMiddleware, burstLimit, identityMiddleware)
		deps.AnnouncementHandler.Register(announcements)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, burstLimit, identityMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.AdminHandler.Register(admin)
	}
}
