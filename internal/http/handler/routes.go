package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay free of business logic; everything interesting happens behind the
// injected services.
//
// authMW resolves the actor for every route that requires a bearer token.
func RegisterRoutes(app *fiber.App, db *sql.DB, authMW fiber.Handler,
	authSvc service.AuthService, docSvc service.DocumentService, sigSvc service.SignatureService) {

	// Health endpoint: checks DB connectivity only
	app.Get("/health", HealthCheck(db))
	// Simple liveness probe
	app.Get("/healthz", LivenessProbe())

	app.Post("/auth/register", Register(authSvc))
	app.Post("/auth/login", Login(authSvc))
	app.Post("/token/refresh", RefreshToken(authSvc))
	app.Post("/verify-password", authMW, VerifyPassword(authSvc))

	docs := app.Group("/documents", authMW)
	docs.Get("/", ListDocuments(docSvc))
	docs.Post("/", UploadDocument(docSvc))
	docs.Get("/:id", GetDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))
	docs.Post("/:id/sign", SignDocument(sigSvc))
	docs.Get("/:id/download", DownloadDocument(docSvc))
}

// HealthCheck reports whether the database dependency is reachable.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always returns 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
