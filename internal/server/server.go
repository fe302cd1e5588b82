// Package server exposes the quiz, search and profile operations over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/at-ishikawa/chat2dutch/internal/config"
	"github.com/at-ishikawa/chat2dutch/internal/quiz"
)

const WelcomeText = "Welcome to the Chatbot API. Use the /chatbot endpoint to interact with the chatbot."

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

type Handler struct {
	registry *quiz.Registry
	validate *validator.Validate
}

func NewHandler(registry *quiz.Registry) *Handler {
	return &Handler{
		registry: registry,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// NewRouter wires the handler with request id, logging, recovery, rate limiting and CORS.
func NewRouter(handler *Handler, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	}
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.Get("/", handler.Welcome)
	r.Post("/chatbot", handler.Chat)
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Post("/quiz", handler.StartQuiz)
		r.Post("/quiz/next", handler.NextWord)
		r.Post("/quiz/marks", handler.MarkWord)
		r.Get("/search", handler.Search)

		r.Get("/profile", handler.GetProfile)
		r.Put("/profile/daily-target", handler.SetDailyTarget)
		r.Delete("/profile/daily-target", handler.ClearDailyTarget)
		r.Put("/profile/milestones", handler.SetMilestones)
		r.Delete("/profile/milestones", handler.ClearMilestones)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		slog.Default().Info("HTTP request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"ip", r.RemoteAddr,
		)
	})
}

func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowed[origin] || allowed["*"] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
