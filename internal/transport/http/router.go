package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cinegram/internal/handler"
	"cinegram/internal/httputil"
	authmw "cinegram/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	ReactionHandler     *handler.ReactionHandler
	CommentHandler      *handler.CommentHandler
	RatingHandler       *handler.RatingHandler
	NotificationHandler *handler.NotificationHandler
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Public read endpoints
	r.Get("/reactions/{kind}/{id}/stats", cfg.ReactionHandler.Stats)
	r.Get("/reviews/{id}/comments", cfg.CommentHandler.ListOnReview)
	r.Get("/posts/{id}/comments", cfg.CommentHandler.ListOnPost)
	r.Get("/comments/{id}", cfg.CommentHandler.GetByID)
	r.Get("/movies/{id}/rating-stats", cfg.RatingHandler.Stats)

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Current user endpoints
		r.Get("/me", cfg.AuthHandler.Me)

		// Auth actions that require authentication
		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		// Reaction endpoints
		r.Post("/reactions", cfg.ReactionHandler.React)
		r.Delete("/reactions", cfg.ReactionHandler.Unreact)
		r.Get("/reactions/{kind}/{id}", cfg.ReactionHandler.GetMine)

		// Comment endpoints
		r.Post("/reviews/{id}/comments", cfg.CommentHandler.CreateOnReview)
		r.Post("/posts/{id}/comments", cfg.CommentHandler.CreateOnPost)
		r.Patch("/comments/{id}", cfg.CommentHandler.Update)
		r.Delete("/comments/{id}", cfg.CommentHandler.Delete)

		// Rating endpoints
		r.Put("/movies/{id}/rating", cfg.RatingHandler.Rate)
		r.Delete("/movies/{id}/rating", cfg.RatingHandler.Remove)
		r.Get("/movies/{id}/rating", cfg.RatingHandler.GetMine)

		// Notification endpoints
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", cfg.NotificationHandler.List)
			r.Post("/read-all", cfg.NotificationHandler.MarkAllRead)
		})
	})

	return r
}
