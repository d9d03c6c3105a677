package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/petermazzocco/murmur-api/internal/metrics"
)

// Router builds the HTTP API. rateLimit is requests per minute per client IP and endpoint;
// zero disables limiting.
func (h *Handler) Router(rateLimit int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/metrics", metrics.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.sessions.Middleware)
		if rateLimit > 0 {
			r.Use(httprate.Limit(
				rateLimit,
				1*time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
			))
		}

		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)

		r.Get("/timeline", h.Timeline)

		r.Get("/murmurs", h.PublicFeed)
		r.Get("/murmurs/{id}", h.GetMurmur)
		r.Post("/murmurs/{id}/like", h.Like)
		r.Delete("/murmurs/{id}/unlike", h.Unlike)

		r.Route("/me", func(r chi.Router) {
			r.Post("/murmurs", h.CreateMurmur)
			r.Delete("/murmurs/{id}", h.DeleteMurmur)
			r.Put("/profile", h.UpdateProfile)
			r.Post("/profile/upload-image", h.UploadProfileImage)
		})

		r.Get("/users/search", h.SearchUsers)
		r.Get("/users/{id}", h.GetUser)
		r.Get("/users/{id}/murmurs", h.UserMurmurs)
		r.Get("/users/{id}/followers", h.Followers)
		r.Get("/users/{id}/following", h.Following)
		r.Post("/users/{id}/follow", h.Follow)
		r.Delete("/users/{id}/unfollow", h.Unfollow)
	})

	return r
}
