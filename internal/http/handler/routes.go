package handler

import (
	"database/sql"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"

	"qualityweb/internal/http/middleware"
	"qualityweb/internal/service"
	"qualityweb/internal/storage"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	DB         *sql.DB
	Tokens     middleware.TokenVerifier
	Auth       service.AuthService
	Documents  service.DocumentService
	Audits     service.AuditService
	Actions    service.CorrectiveActionService
	Indicators service.IndicatorService
	Summary    service.SummaryService
	Files      storage.Storage

	// FilesRequireAuth puts /uploads/* behind the auth gate.
	FilesRequireAuth bool
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Swagger mounts /swagger/* when true.
	Swagger bool
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Every /api route except login sits behind the auth gate.
func RegisterRoutes(app *fiber.App, d Deps) {
	gate := middleware.Auth(d.Tokens)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API OK")
	})
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics))
	}
	if d.Swagger {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Legacy login path used by the first dashboard build.
	app.Post("/auth/login", Login(d.Auth))
	app.Get("/auth/login", LoginMethodNotAllowed())

	api := app.Group("/api")
	api.Post("/auth/login", Login(d.Auth))
	api.Get("/auth/login", LoginMethodNotAllowed())
	api.Post("/auth/logout", gate, Logout(d.Auth))

	api.Get("/metrics", gate, Summary(d.Summary))

	api.Get("/documentos", gate, ListDocuments(d.Documents))
	api.Post("/documentos", gate, CreateDocument(d.Documents))
	api.Get("/documentos/:id", gate, GetDocument(d.Documents))
	api.Put("/documentos/:id", gate, UpdateDocument(d.Documents))
	api.Put("/documentos/:id/archivo", gate, ReplaceDocumentFile(d.Documents))
	api.Delete("/documentos/:id", gate, DeleteDocument(d.Documents))

	registerAuditRoutes(api, gate, d.Audits)
	registerCorrectiveActionRoutes(api, gate, d.Actions)
	registerIndicatorRoutes(api, gate, d.Indicators)
	api.Get("/indicadores/:id/pdf", gate, IndicatorPDF(d.Indicators))

	if d.FilesRequireAuth {
		app.Get(storage.PublicPrefix+"*", gate, ServeFile(d.Files))
	} else {
		app.Get(storage.PublicPrefix+"*", ServeFile(d.Files))
	}
}
