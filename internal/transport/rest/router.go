package rest

import (
	"log/slog"
	"net/http"

	"github.com/divron/attendance/api"
	"github.com/divron/attendance/internal/attendance"
	"github.com/divron/attendance/internal/auth"
	"github.com/divron/attendance/internal/dashboard"
	"github.com/divron/attendance/internal/employee"
	"github.com/divron/attendance/internal/observability"
	"github.com/divron/attendance/internal/report"
	"github.com/divron/attendance/internal/storage"
	"github.com/divron/attendance/internal/transport/middleware"
	"github.com/divron/attendance/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	Store             storage.Store
	DB                *sqlx.DB
	AuthHandler       *auth.Handler
	Authorization     *auth.RoleAuthorization
	AttendanceHandler *attendance.Handler
	EmployeeHandler   *employee.Handler
	DashboardHandler  *dashboard.Handler
	ReportHandler     *report.Handler
	Prom              *observability.Prom
	Gatherer          prometheus.Gatherer
	MetricsPath       string
	AllowedOrigins    []string
	Logger            *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.Store, deps.DB)

	// Apply global middleware
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.Logging(deps.Logger))
	if deps.Prom != nil {
		router.Use(deps.Prom.HTTPMiddleware)
	}

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Document())
	})
	router.Handle("/swagger/*", swagger.Handler())

	if deps.Gatherer != nil && deps.MetricsPath != "" {
		router.Handle(deps.MetricsPath, promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		authHandler := deps.AuthHandler
		if authHandler == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", authHandler.Register)
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/me", authHandler.Me)

			if deps.AttendanceHandler != nil {
				pr.Route("/attendance", func(ar chi.Router) {
					ar.Use(deps.Authorization.RequireEmployee())

					ar.Get("/today", deps.AttendanceHandler.GetToday)
					ar.Get("/history", deps.AttendanceHandler.GetHistory)
					ar.Post("/check-in", deps.AttendanceHandler.CheckIn)
					ar.Post("/check-out", deps.AttendanceHandler.CheckOut)
				})
			}

			pr.Route("/admin", func(ad chi.Router) {
				ad.Use(deps.Authorization.RequireAdmin())

				if deps.EmployeeHandler != nil {
					ad.Get("/employees", deps.EmployeeHandler.ListEmployees)
					ad.Post("/employees", deps.EmployeeHandler.CreateEmployee)
					ad.Delete("/employees/{id}", deps.EmployeeHandler.RemoveEmployee)
				}
				if deps.DashboardHandler != nil {
					ad.Get("/dashboard", deps.DashboardHandler.GetSummary)
				}
				if deps.ReportHandler != nil {
					ad.Get("/reports/{period}", deps.ReportHandler.Download)
				}
			})
		})
	})
}
