package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tendant/chi-demo/app"
	emailverificationapi "github.com/suyashdwivedi2003/login-page/pkg/emailverification/api"
)

// Config holds the handlers needed to setup routes
type Config struct {
	EmailVerificationHandle *emailverificationapi.Handler

	// MetricsHandler is mounted at /metrics when set
	MetricsHandler http.Handler

	// StaticDir is served at / when set
	StaticDir string
}

// NewRouter creates a chi router with the standard middleware stack and the
// health check endpoints
func NewRouter(allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	app.RoutesHealthz(r)
	app.RoutesHealthzReady(r)

	return r
}

// SetupRoutes mounts the email verification routes on the provided router
func SetupRoutes(router chi.Router, cfg Config) {
	router.Post("/auth/send-verification", cfg.EmailVerificationHandle.SendVerification)
	router.Get("/auth/verification-status", cfg.EmailVerificationHandle.GetVerificationStatus)
	router.Get("/verify", cfg.EmailVerificationHandle.VerifyEmail)

	if cfg.MetricsHandler != nil {
		router.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.StaticDir != "" {
		router.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}
}
