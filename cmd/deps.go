package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/attendance"
	"github.com/divron/attendance/internal/auth"
	"github.com/divron/attendance/internal/core/events"
	"github.com/divron/attendance/internal/dashboard"
	"github.com/divron/attendance/internal/employee"
	"github.com/divron/attendance/internal/observability"
	"github.com/divron/attendance/internal/records"
	"github.com/divron/attendance/internal/report"
	"github.com/divron/attendance/internal/storage"
	"github.com/divron/attendance/internal/storage/gormstore"
	"github.com/divron/attendance/internal/storage/memory"
	"github.com/divron/attendance/internal/storage/redisstore"
	"github.com/divron/attendance/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App is everything a command needs, built once per process.
type App struct {
	Config *internal.Config
	Logger *slog.Logger

	Store storage.Store
	DB    *sqlx.DB

	Bus      *events.EventBus
	Registry *prometheus.Registry
	Prom     *observability.Prom

	Repo       *records.Repository
	Passwords  *auth.Passwords
	Employees  *employee.Service
	Attendance *attendance.Service
	Manager    *auth.Manager
	Reports    *report.Service
	Refresher  *dashboard.Refresher
}

// openStore builds the configured backend. SQL backends also return a sqlx
// handle on the same pool for health checks.
func openStore(ctx context.Context, cfg internal.StorageConfig) (storage.Store, *sqlx.DB, error) {
	switch cfg.Driver {
	case internal.StorageDriverSQLite, internal.StorageDriverPostgres:
		gdb, err := gormstore.OpenDB(gormstore.Options{
			Driver:       cfg.Driver,
			Source:       cfg.Source,
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
		})
		if err != nil {
			return nil, nil, err
		}

		store := gormstore.New(gdb)
		if cfg.AutoMigrate {
			if err := store.Migrate(ctx); err != nil {
				_ = store.Close()
				return nil, nil, fmt.Errorf("auto migrate: %w", err)
			}
		}

		sqlDB, err := gdb.DB()
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		driverName := "sqlite3"
		if cfg.Driver == internal.StorageDriverPostgres {
			driverName = "pgx"
		}
		return store, sqlx.NewDb(sqlDB, driverName), nil

	case internal.StorageDriverRedis:
		store := redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return store, nil, nil

	case internal.StorageDriverMemory:
		return memory.New(), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func buildApp(ctx context.Context, cfg *internal.Config) (*App, error) {
	lg := logger.LoggerWrapper()

	app := &App{
		Config: cfg,
		Logger: lg,
		Bus:    events.NewEventBus(lg),
	}

	if cfg.Observability.Metrics.Enabled {
		app.Registry = prometheus.NewRegistry()
		app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		app.Prom = observability.NewProm(app.Registry)
		app.Prom.SubscribeTo(app.Bus)
	}

	store, db, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	app.Store = observability.InstrumentStore(store, app.Prom)
	app.DB = db

	passwords, err := auth.NewPasswords(cfg.Security.PasswordScheme, cfg.Security.BCryptCost)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	app.Passwords = passwords

	adminPassword, err := passwords.Encode(cfg.Admin.Password)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("encode admin password: %w", err)
	}

	app.Repo = records.NewRepository(
		storage.NewCollections(app.Store, cfg.Storage.KeyPrefix, lg),
		lg,
		records.WithPublisher(app.Bus),
		records.WithAdminSeed(records.AdminSeed{
			Name:       cfg.Admin.Name,
			Email:      cfg.Admin.Email,
			Password:   adminPassword,
			Department: cfg.Admin.Department,
		}),
	)

	app.Employees = employee.NewService(app.Repo, passwords, lg)
	app.Attendance = attendance.NewService(app.Repo, lg)
	app.Manager = auth.NewManager(app.Repo, app.Employees, passwords, lg)
	if app.Prom != nil {
		app.Manager.WithObserver(app.Prom)
	}
	app.Reports = report.NewService(app.Repo, lg)
	app.Refresher = dashboard.NewRefresher(app.Repo, cfg.Refresh.Interval, lg)
	app.Refresher.SubscribeTo(app.Bus)

	if _, err := app.Repo.Initialize(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("initialize records: %w", err)
	}

	return app, nil
}

// Close waits for in-flight event handlers, then closes the store.
func (a *App) Close() error {
	a.Bus.Wait()
	return a.Store.Close()
}

// bootstrap loads config and builds the App for one-shot commands.
func bootstrap(ctx context.Context) (*App, error) {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}
	return buildApp(ctx, cfg)
}
