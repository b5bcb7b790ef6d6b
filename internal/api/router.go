package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/salesdash-be/internal/api/handlers"
	"github.com/isdelr/salesdash-be/internal/api/httpx"
	"github.com/isdelr/salesdash-be/internal/apperr"
	"github.com/isdelr/salesdash-be/internal/auth"
	"github.com/isdelr/salesdash-be/internal/sanitize"
	"github.com/isdelr/salesdash-be/internal/services"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Users          services.UserServiceProvider
	Events         services.EventServiceProvider
	Health         services.HealthServiceProvider
	Tokens         *auth.TokenManager
	Sanitizer      *sanitize.Sanitizer
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(XSSGate(d.Sanitizer))
	r.Use(auth.Authenticate(d.Tokens, d.Users))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		e := apperr.NotFound("resource not found")
		e.Code = apperr.CodeDataNotFound
		httpx.WriteError(w, e)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, apperr.MethodNotAllowed("method not allowed"))
	})

	// Initialize handlers
	userHandler := handlers.NewUserHandler(d.Users)
	eventHandler := handlers.NewEventHandler(d.Events)
	healthHandler := handlers.NewHealthHandler(d.Health)

	public := func(r chi.Router) {
		r.Post("/signup", userHandler.Signup)
		r.Post("/login", userHandler.Login)
		r.Get("/check-username/{username}", userHandler.CheckUsername)
		r.Get("/check-email/{email}", userHandler.CheckEmail)
		r.Post("/password-strength", userHandler.PasswordStrength)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)

		r.Route("/auth", public)

		r.Route("/users", func(r chi.Router) {
			public(r)

			// Auth is attached per endpoint so unmatched methods fall
			// through to MethodNotAllowed instead of RequireAuth.
			r.With(auth.RequireAuth).Get("/", userHandler.List)
			r.With(auth.RequireAuth).Get("/me", userHandler.Me)
			r.Route("/{id}", func(r chi.Router) {
				authed := r.With(auth.RequireAuth)
				authed.Get("/", userHandler.Get)
				authed.Put("/", userHandler.Update)
				authed.Delete("/", userHandler.Delete)
				authed.Put("/password", userHandler.ChangePassword)
			})
		})

		r.With(auth.RequireAuth).Get("/events", eventHandler.GetRecent)
	})

	return r
}
