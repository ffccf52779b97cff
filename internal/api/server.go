package api

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"pricing_services/internal/config"
	"pricing_services/internal/reconcile"
	"pricing_services/internal/sheets"
	"pricing_services/internal/view"
)

// GatewayFactory builds a spreadsheet gateway from an uploaded credential
// blob. Tests swap it for a mock.
type GatewayFactory func(ctx context.Context, credentials []byte) (sheets.Gateway, error)

type Server struct {
	cfg        *config.Config
	store      *sessionStore
	newGateway GatewayFactory
	validate   *validator.Validate
	scope      view.SearchScope
	policy     reconcile.MissPolicy
}

// NewServer wires the production gateway factory.
func NewServer(cfg *config.Config) *Server {
	factory := func(ctx context.Context, credentials []byte) (sheets.Gateway, error) {
		return sheets.NewClient(ctx, credentials, cfg.SpreadsheetID, cfg.WorksheetIndex, len(cfg.VisibleColumns))
	}
	return NewServerWithFactory(cfg, factory)
}

func NewServerWithFactory(cfg *config.Config, factory GatewayFactory) *Server {
	return &Server{
		cfg:        cfg,
		store:      newSessionStore(cfg.SessionTTL()),
		newGateway: factory,
		validate:   validator.New(),
		scope:      view.ParseScope(cfg.SearchScope),
		policy:     reconcile.ParsePolicy(cfg.MissingRowPolicy),
	}
}

// App builds the fiber application with all routes applied.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Pricing & Services",
		DisableStartupMessage: true,
	})

	api := app.Group("/api")
	api.Post("/session", s.createSession)

	sess := api.Group("/session/:id", s.requireSession)
	sess.Get("/services", s.listServices)
	sess.Post("/services", s.addService)
	sess.Put("/services", s.updateServices)
	sess.Delete("/services", s.deleteServices)
	sess.Post("/reload", s.reloadView)
	sess.Get("/export/:format", s.exportView)

	return app
}

// requireSession resolves the session path param and stashes the session.
func (s *Server) requireSession(c *fiber.Ctx) error {
	sess, ok := s.store.get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found or expired"})
	}
	c.Locals("session", sess)
	return c.Next()
}

func currentSession(c *fiber.Ctx) *session {
	return c.Locals("session").(*session)
}
