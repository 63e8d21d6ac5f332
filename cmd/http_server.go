package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/divron/attendance/api"
	"github.com/divron/attendance/internal/attendance"
	"github.com/divron/attendance/internal/auth"
	"github.com/divron/attendance/internal/dashboard"
	"github.com/divron/attendance/internal/employee"
	"github.com/divron/attendance/internal/report"
	"github.com/divron/attendance/internal/transport"
	"github.com/divron/attendance/internal/transport/middleware"
	"github.com/divron/attendance/internal/transport/rest"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startHTTPServer(); err != nil {
			fmt.Fprintf(os.Stderr, "server: %v\n", err)
			os.Exit(1)
		}
	},
}

// newRouter wires every handler onto a fresh chi router.
func newRouter(app *App) *chi.Mux {
	cfg := app.Config
	base := transport.NewBaseHandler(app.Logger)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(app.Repo, app.Passwords, tokens, app.Logger)
	if app.Prom != nil {
		authService.WithObserver(app.Prom)
	}

	deps := rest.Dependencies{
		Store:             app.Store,
		DB:                app.DB,
		AuthHandler:       auth.NewHandler(base, authService, app.Employees),
		Authorization:     auth.NewRoleAuthorization(base, app.Logger),
		AttendanceHandler: attendance.NewHandler(base, app.Attendance),
		EmployeeHandler:   employee.NewHandler(base, app.Employees),
		DashboardHandler:  dashboard.NewHandler(base, app.Refresher),
		ReportHandler:     report.NewHandler(base, app.Reports),
		Prom:              app.Prom,
		AllowedOrigins:    middleware.ParseOrigins(cfg.Server.AllowedOrigins),
		Logger:            app.Logger,
	}
	if app.Registry != nil {
		deps.Gatherer = app.Registry
		deps.MetricsPath = cfg.Observability.Metrics.Path
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, deps)
	return router
}

func startHTTPServer() error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Security.ValidateTokens(); err != nil {
		return fmt.Errorf("security config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := api.Load(ctx); err != nil {
		return fmt.Errorf("invalid api document: %w", err)
	}

	app, err := buildApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			app.Logger.Error("store close error", "error", err)
		}
	}()

	go func() {
		if err := app.Refresher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.Logger.Error("dashboard refresher stopped", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(app),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting HTTP server", "address", addr, "storage", cfg.Storage.Driver)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		app.Logger.Info("Received signal, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	app.Logger.Info("Server stopped")
	return nil
}
