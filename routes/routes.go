package routes

import (
	"net/http"
	"time"

	"github.com/FChavez82/highlander-tennis/handlers"
	"github.com/FChavez82/highlander-tennis/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

type Options struct {
	JWTSecret             []byte
	AllowedOrigins        []string
	SimRateLimitPerMinute int
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	scheduleHandler *handlers.ScheduleHandler,
	swissHandler *handlers.SwissHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mountDocs(router)

	// WebSocket без авторизации: только чтение событий недели.
	router.Get("/ws/weeks/{weekID}", webSocketHandler.ServeWs)

	authenticate := middleware.Authenticate(opts.JWTSecret)

	router.Route("/api", func(r chi.Router) {
		r.Route("/categories/{category}", func(r chi.Router) {
			r.Get("/matchups", scheduleHandler.ListMatchupsHandler)
			r.Get("/byes", scheduleHandler.ListByeCountsHandler)
			r.Get("/progress", scheduleHandler.ProgressHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)

			r.Post("/weeks/{weekID}/schedule", scheduleHandler.GenerateWeekHandler)
			r.Post("/matches/{matchID}/cancel", scheduleHandler.CancelMatchHandler)

			r.With(middleware.RateLimit(opts.SimRateLimitPerMinute, time.Minute)).
				Post("/swiss/simulate", swissHandler.SimulateHandler)
		})
	})
}
