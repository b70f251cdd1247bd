// Package api exposes the journal over HTTP as a JSON API.
//
// Every /api route acts on behalf of the user named by the X-User-ID header.
// Authentication happens upstream; this server only trusts the header.
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/roach88/syncgo/internal/insights"
	"github.com/roach88/syncgo/internal/journal"
	"github.com/roach88/syncgo/internal/model"
	"github.com/roach88/syncgo/internal/store"
)

// HeaderUserID carries the acting user's id.
const HeaderUserID = "X-User-ID"

const localUser = "user"

// Journal is the subset of journal.Service the handlers call.
type Journal interface {
	Signup(ctx context.Context, in journal.SignupInput) (model.Profile, error)
	Profile(ctx context.Context, userID string) (journal.ProfileView, error)
	UpdateProfile(ctx context.Context, userID string, upd journal.ProfileUpdate) (model.Profile, error)
	Awards(ctx context.Context, userID string) ([]model.PointAward, error)
	Submit(ctx context.Context, in journal.SubmitInput) (journal.SubmitResult, error)
	Entries(ctx context.Context, userID, tag string) ([]model.Event, error)
	Patterns(ctx context.Context, userID, tag string) (insights.Patterns, error)
	Feed(ctx context.Context, viewerID, tag string, limit int) ([]journal.FeedItem, error)
	ToggleReaction(ctx context.Context, userID, eventID, emoji string) (journal.ReactionResult, error)
	Trends(ctx context.Context) (journal.TrendsReport, error)
	MapEntries(ctx context.Context, viewerID string) ([]model.Event, error)
}

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// AccessLog receives one line per request. Nil disables access logging.
	AccessLog io.Writer
}

// Server exposes the Fiber application.
type Server struct {
	app     *fiber.App
	journal Journal
	cfg     Config
	logger  *slog.Logger
}

// NewServer wires handlers and middleware.
func NewServer(cfg Config, j Journal, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	srv := &Server{journal: j, cfg: cfg, logger: log}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          srv.handleError,
	})
	app.Use(recover.New())
	if cfg.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Format: "${time} | ${status} | ${latency} | ${method} ${path}\n",
			Output: cfg.AccessLog,
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, " + HeaderUserID,
	}))

	srv.app = app
	srv.registerRoutes()
	return srv
}

// App returns the underlying Fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()

	s.logger.Info("journal api listening", "addr", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api")
	api.Get("/catalog", s.handleCatalog)

	user := api.Group("", requireUser)
	user.Post("/profiles", s.handleSignup)
	user.Get("/profile", s.handleGetProfile)
	user.Patch("/profile", s.handleUpdateProfile)
	user.Get("/profile/awards", s.handleListAwards)
	user.Post("/events", s.handleSubmit)
	user.Get("/events", s.handleListEntries)
	user.Post("/events/:id/reactions", s.handleToggleReaction)
	user.Get("/patterns", s.handlePatterns)
	user.Get("/feed", s.handleFeed)
	user.Get("/trends", s.handleTrends)
	user.Get("/map", s.handleMap)
}

func requireUser(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Get(HeaderUserID))
	if id == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing "+HeaderUserID+" header")
	}
	c.Locals(localUser, id)
	return c.Next()
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUser).(string)
	return id
}

// handleError maps journal and store errors onto HTTP status codes.
// Unexpected errors are logged and reported without detail.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var (
		fe *fiber.Error
		ve *journal.ValidationError
	)
	switch {
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, store.ErrNotFound), errors.Is(err, journal.ErrEventHidden):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, store.ErrProfileExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "profile already exists"})
	}

	s.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

// parseBody decodes a JSON body into out. An empty body leaves out unchanged.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	return nil
}
