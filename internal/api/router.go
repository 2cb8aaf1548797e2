package api

import (
	"net/http"

	"github.com/dom/sleep-tracker/internal/api/handlers"
	"github.com/dom/sleep-tracker/internal/api/middleware"
	"github.com/dom/sleep-tracker/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	// Health checks
	health := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}
	r.Get("/health", health)
	r.Get("/up", health)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, logger)
	sleepHandler := handlers.NewSleepSessionHandler(services.Sleep, logger)
	followHandler := handlers.NewFollowHandler(services.Follow, logger)
	feedHandler := handlers.NewFeedHandler(services.Feed, logger)

	requireAuth := middleware.Auth(services.Auth, logger)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			// Sleep session routes
			r.Route("/sleep-sessions", func(r chi.Router) {
				r.Get("/", sleepHandler.List)
				r.Get("/active", sleepHandler.Active)
				r.Post("/clock-in", sleepHandler.ClockIn)
				r.Post("/clock-out", sleepHandler.ClockOut)
			})

			// Follow graph routes
			r.Post("/follows/{userId}", followHandler.Follow)
			r.Delete("/follows/{userId}", followHandler.Unfollow)
			r.Get("/following", followHandler.Following)
			r.Get("/followers", followHandler.Followers)

			r.Get("/feed", feedHandler.Get)
		})
	})

	return r
}
