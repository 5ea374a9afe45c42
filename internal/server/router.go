package server

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/codelens/internal/config"
	"github.com/sevigo/codelens/internal/engine"
	"github.com/sevigo/codelens/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware and API routes.
func NewRouter(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Server.SharedSecret != "" {
			r.Use(sharedSecretAuth(cfg.Server.SharedSecret))
		}
		engineHandler := handler.NewEngineHandler(eng, logger)
		r.Post("/scan", engineHandler.Scan)
		r.Post("/analyze-diff", engineHandler.AnalyzeDiff)
		r.Post("/assemble-prompt", engineHandler.AssemblePrompt)
		r.Post("/update-rules/{source}", engineHandler.UpdateRules)
	})

	return r
}

// sharedSecretAuth rejects requests whose X-Codelens-Secret header does not
// match the configured shared secret.
func sharedSecretAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Codelens-Secret")
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
