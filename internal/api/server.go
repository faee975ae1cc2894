// Package api provides the HTTP API server and handlers for the advent calendar application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/adventapp/advent-server/internal/auth"
	"github.com/adventapp/advent-server/internal/http/response"
	"github.com/adventapp/advent-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService     *service.AuthService
	calendarService *service.CalendarService
	doorService     *service.DoorService
	tokenService    *auth.TokenService
	loginLimiter    *RateLimiter
	router          *chi.Mux
	corsOrigins     []string
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	calendarService *service.CalendarService,
	doorService *service.DoorService,
	tokenService *auth.TokenService,
	loginLimiter *RateLimiter,
	corsOrigins []string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:     authService,
		calendarService: calendarService,
		doorService:     doorService,
		tokenService:    tokenService,
		loginLimiter:    loginLimiter,
		router:          chi.NewRouter(),
		corsOrigins:     corsOrigins,
		logger:          logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public, login/register throttled by IP).
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(RateLimitMiddleware(s.loginLimiter, s.logger))
				r.Post("/register", s.handleRegister)
				r.Post("/login", s.handleLogin)
			})
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)
		})

		// Shared calendars (public; bearer token attached when present).
		r.Route("/shared/{token}", func(r chi.Router) {
			r.Use(s.optionalAuth)
			r.Get("/", s.handleGetSharedCalendar)
			r.Get("/doors", s.handleListOpenedDoors)
			r.Post("/doors/{day}/open", s.handleOpenDoor)
		})

		// Protected user endpoints.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
		})

		// Calendars (require auth, owner-only).
		r.Route("/calendars", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateCalendar)
			r.Get("/", s.handleListCalendars)
			r.Get("/{id}", s.handleGetCalendar)
			r.Patch("/{id}", s.handleUpdateCalendar)
			r.Delete("/{id}", s.handleDeleteCalendar)
			r.Post("/{id}/entries", s.handleCreateEntry)
			r.Get("/{id}/entries", s.handleListEntries)
		})

		// Entries (require auth, ownership checked via the calendar).
		r.Route("/entries", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Patch("/{id}", s.handleUpdateEntry)
			r.Delete("/{id}", s.handleDeleteEntry)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
