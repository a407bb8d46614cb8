package middleware

import (
	"pomona-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CapabilityChecker decides whether a role may exercise a capability.
// The default implementation is a static role table; deployments can plug in
// anything else.
type CapabilityChecker interface {
	Allowed(capability, role string) bool
}

// AuthorizeCapability returns a handler that checks the session user's role
// against the checker. Missing role -> 500; not allowed -> 403.
func AuthorizeCapability(checker CapabilityChecker, capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		if actor == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if actor.Role == "" {
			return response.Error(c, "Authorization error", 500, nil)
		}
		if !checker.Allowed(capability, actor.Role) {
			return response.Error(c, "User is Forbidden from performing this action", 403, nil)
		}
		return c.Next()
	}
}
