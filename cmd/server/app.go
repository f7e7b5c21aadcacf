package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/api"
	apimw "github.com/flashdeck/flashdeck-api/internal/api/middleware"
	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"github.com/flashdeck/flashdeck-api/internal/platform/gemini"
	"github.com/flashdeck/flashdeck-api/internal/platform/postgres"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	deckStore store.DeckStore

	jwtService  auth.JWTService
	accounts    *auth.Service
	generator   generation.Generator
	deckService service.DeckService
}

// newApplication wires stores, services and the optional generator.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.deckStore = postgres.NewPostgresDeckStore(db, logger)
	app.accounts = auth.NewService(app.userStore, app.jwtService, auth.NewBcryptVerifier(), logger)

	if cfg.LLM.Enabled() {
		gen, err := gemini.NewGenerator(ctx, cfg.LLM, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize card generator: %w", err)
		}
		app.generator = gen
		logger.Info("card generator enabled", slog.String("model", cfg.LLM.ModelName))
	} else {
		logger.Info("card generator disabled; uploads accept structured files only")
	}

	app.deckService, err = service.NewDeckService(app.deckStore, db, app.generator, cfg.Import, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// routes builds the HTTP handler from the wired services.
func (app *application) routes() routerDeps {
	return routerDeps{
		auth:           api.NewAuthHandler(app.accounts, app.logger),
		decks:          api.NewDeckHandler(app.deckService, app.config.Server.MaxUploadBytes, app.logger),
		authMiddleware: apimw.NewAuthMiddleware(app.jwtService),
		allowedOrigins: app.config.Server.AllowedOrigins,
		logger:         app.logger,
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down and releases
// resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := serveHTTP(ctx, app.config.Server, newRouter(app.routes()), app.logger); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
