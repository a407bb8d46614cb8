package middleware

import (
	"pomona-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with standard
// error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// Actor is the authenticated caller as handlers see it.
type Actor struct {
	UserID   string
	Role     string
	FarmerID uint
}

// GetActor extracts the actor from the session user map. Returns nil when the
// session carries no user.
func GetActor(c *fiber.Ctx) *Actor {
	u := GetUser(c)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil
	}
	role, _ := m["role"].(string)
	a := &Actor{UserID: userID, Role: role}
	if f, ok := m["farmer_id"]; ok && f != nil {
		switch v := f.(type) {
		case float64: // JSON round-trip through Redis
			a.FarmerID = uint(v)
		case uint:
			a.FarmerID = v
		case int:
			a.FarmerID = uint(v)
		}
	}
	return a
}
