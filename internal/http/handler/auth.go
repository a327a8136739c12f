package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// Register handles POST /auth/register.
//
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]string
// @Router /auth/register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if _, err := svc.Register(c.UserContext(), in); err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User created"})
	}
}

// Login handles POST /auth/login.
//
// @Summary Log in and receive access/refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} service.LoginResult
// @Router /auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		res, err := svc.Login(c.UserContext(), in.Username, in.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// RefreshToken handles POST /token/refresh.
//
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} service.TokenPair
// @Router /token/refresh [post]
func RefreshToken(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in struct {
			Refresh string `json:"refresh"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		pair, err := svc.Refresh(c.UserContext(), in.Refresh)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(pair)
	}
}

// VerifyPassword handles POST /verify-password for an authenticated user.
//
// @Summary Re-verify the current user's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]bool
// @Router /verify-password [post]
func VerifyPassword(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)

		var in struct {
			Password string `json:"password"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if in.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"verified": false, "error": "No password provided"})
		}

		ok, err := svc.VerifyPassword(c.UserContext(), actor.ID, in.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"verified": false})
		}
		return c.JSON(fiber.Map{"verified": true})
	}
}
