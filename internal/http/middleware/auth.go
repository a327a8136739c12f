package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/auth"
	"docvault/internal/model"
	"docvault/internal/repository"
)

// ActorLocalKey is the key under which the resolved actor is stored in
// Fiber's context locals.
const ActorLocalKey = "actor"

const bearerPrefix = "Bearer "

// Auth authenticates the request from its Bearer access token and resolves
// the acting user — including their current role — from the database. The
// role is looked up on every request rather than embedded in the token, so a
// role change takes effect immediately.
//
// Failures return a bare 401; the global error handler shapes the body.
func Auth(users repository.UserRepository, jwtSecret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return fiber.ErrUnauthorized
		}

		userID, err := auth.UserIDFromToken(strings.TrimPrefix(header, bearerPrefix), jwtSecret)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		u, err := users.FindByID(c.UserContext(), userID)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(ActorLocalKey, model.Actor{ID: u.ID, Username: u.Username, Role: u.Role})
		return c.Next()
	}
}

// ActorFromCtx returns the actor stored by Auth. The zero Actor (empty ID)
// means the request was not authenticated.
func ActorFromCtx(c *fiber.Ctx) model.Actor {
	if v, ok := c.Locals(ActorLocalKey).(model.Actor); ok {
		return v
	}
	return model.Actor{}
}
