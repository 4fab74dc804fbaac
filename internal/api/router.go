package api

import (
	"net/http"
	"time"
	"todo_service/internal/api/handler"
	"todo_service/internal/api/middleware"
	"todo_service/internal/app/service"
	"todo_service/internal/common/security"
	"todo_service/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	tokenService *service.TokenService,
	userService *service.UserService,
	todoService *service.TodoService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger) // Chi's logger
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	// The frontend is served from a different origin.
	if origins := config.AppConfig.CORSAllowedOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// JWT Auth Middleware Setup
	// Puts verified access-token claims into the request context; the
	// Authenticator middleware on protected groups enforces them.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	credentialLimiter := middleware.CredentialRateLimiter()

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (register/login rate limited per IP)
		authHandler := handler.NewAuthHandler(authService, tokenService)
		v1.Group(func(auth chi.Router) {
			auth.Use(credentialLimiter.Middleware)
			authHandler.RegisterRoutes(auth)
		})

		// User routes (me + admin user listing)
		userHandler := handler.NewUserHandler(userService)
		userHandler.RegisterRoutes(v1)

		// Todo routes (authenticated)
		todoHandler := handler.NewTodoHandler(todoService)
		v1.Route("/todos", todoHandler.RegisterRoutes)
	})

	return r
}
