package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/service"
	"github.com/devcircle/clubconnect-api/internal/utils"
)

// LoadIdentity resolves the authenticated account into an Actor by reading
// role and status from the account store on every request. Blocked accounts
// are rejected here; finer status checks belong to the services.
func LoadIdentity(identity service.IdentityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uint)
		if !ok || userID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		actor, err := identity.GetActor(c.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return utils.SendError(c, fiber.StatusUnauthorized, "account not found")
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to load identity")
		}

		if actor.Status == models.StatusBlocked {
			return utils.SendError(c, fiber.StatusForbidden, "account blocked")
		}

		c.Locals("actor", actor)
		return c.Next()
	}
}

// ActorFromContext returns the DB-sourced actor bound to the request, or
// false when no identity was loaded.
func ActorFromContext(c *fiber.Ctx) (service.Actor, bool) {
	actor, ok := c.Locals("actor").(service.Actor)
	return actor, ok
}
