package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/suyashdwivedi2003/login-page/pkg/config"
	"github.com/suyashdwivedi2003/login-page/pkg/emailverification"
	emailverificationapi "github.com/suyashdwivedi2003/login-page/pkg/emailverification/api"
	"github.com/suyashdwivedi2003/login-page/pkg/notification"
	"github.com/suyashdwivedi2003/login-page/pkg/router"
)

type Config struct {
	ServerConfig      config.ServerConfig
	EmailConfig       config.EmailConfig
	PersistenceConfig config.PersistenceConfig
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{AddSource: true})))

	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Config{}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := config.ValidateAll(cfg.ServerConfig, cfg.EmailConfig, cfg.PersistenceConfig); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg.PersistenceConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	repo, err := emailverification.NewEmailVerificationRepository(ctx, cfg.PersistenceConfig.Type, store.RepositoryConfig)
	if err != nil {
		return fmt.Errorf("failed to create verification repository: %w", err)
	}

	notificationManager, err := notification.NewNotificationManagerWithOptions(
		notification.WithSMTP(cfg.EmailConfig.ToSMTPConfig()),
		notification.WithDefaultTemplates(),
	)
	if err != nil {
		return fmt.Errorf("failed to create notification manager: %w", err)
	}

	issuer, err := emailverification.NewIssuer(cfg.ServerConfig.BaseURL)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := emailverification.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	service := emailverification.NewEmailVerificationService(
		repo,
		issuer,
		notificationManager,
		emailverification.WithMetrics(metrics),
	)

	r := router.NewRouter(cfg.ServerConfig.CORSAllowedOrigins)
	router.SetupRoutes(r, router.Config{
		EmailVerificationHandle: emailverificationapi.NewHandler(
			service,
			emailverificationapi.WithSuccessRedirect(cfg.ServerConfig.SuccessRedirect),
		),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		StaticDir:      cfg.ServerConfig.StaticDir,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerConfig.Port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", srv.Addr, "base_url", cfg.ServerConfig.BaseURL, "persistence", cfg.PersistenceConfig.Type)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerConfig.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
