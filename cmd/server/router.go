package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/flashdeck/flashdeck-api/internal/api"
	apimw "github.com/flashdeck/flashdeck-api/internal/api/middleware"
	"github.com/flashdeck/flashdeck-api/internal/api/shared"
)

type routerDeps struct {
	auth           *api.AuthHandler
	decks          *api.DeckHandler
	authMiddleware *apimw.AuthMiddleware
	allowedOrigins []string
	logger         *slog.Logger
}

// newRouter registers every route behind the shared middleware stack and
// wraps the result in the CORS handler.
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apimw.Trace(deps.logger))
	r.Use(apimw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", deps.auth.Register)
		r.Post("/auth/login", deps.auth.Login)
		r.Post("/auth/refresh", deps.auth.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(deps.authMiddleware.Authenticate)

			r.Post("/imports/preview", deps.decks.PreviewImport)
			r.Post("/imports", deps.decks.ConfirmImport)
			r.Post("/uploads", deps.decks.Upload)

			r.Get("/flashcards", deps.decks.ListFlashcards)
			r.Put("/flashcards/{id}", deps.decks.EditFlashcard)
			r.Delete("/flashcards/{id}", deps.decks.DeleteFlashcard)
			r.Put("/flashcards/{id}/known", deps.decks.SetKnown)

			r.Post("/deck/reset", deps.decks.ResetProgress)
			r.Get("/deck/stats", deps.decks.Stats)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	return cors.New(cors.Options{
		AllowedOrigins:   deps.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Accept", "Origin"},
		ExposedHeaders:   []string{shared.TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(r)
}
