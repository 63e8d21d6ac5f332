package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/divron/attendance/internal"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func testConfig() *internal.Config {
	cfg := &internal.Config{
		Env: "test",
		Storage: internal.StorageConfig{
			Driver:    internal.StorageDriverMemory,
			KeyPrefix: "divron_",
		},
		Security: internal.SecurityConfig{
			JWTAccessSecret:  strings.Repeat("a", 32),
			JWTRefreshSecret: strings.Repeat("r", 32),
			BCryptCost:       4,
		},
		Observability: internal.ObservabilityConfig{
			Metrics: internal.MetricsConfig{Enabled: true},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

var _ = Describe("HTTP server wiring", func() {
	var (
		ctx    context.Context
		app    *App
		router *chi.Mux
	)

	do := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	login := func(email, password string) string {
		rec := do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		var resp struct {
			AccessToken string `json:"access_token"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.AccessToken).NotTo(BeEmpty())
		return resp.AccessToken
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		app, err = buildApp(ctx, testConfig())
		Expect(err).NotTo(HaveOccurred())
		router = newRouter(app)
	})

	AfterEach(func() {
		Expect(app.Close()).To(Succeed())
	})

	It("seeds the admin account on startup", func() {
		employees := app.Repo.ListEmployees(ctx)
		Expect(employees).To(HaveLen(1))
		Expect(employees[0].Email).To(Equal("admin@divron.com"))
		Expect(employees[0].Password).NotTo(Equal("admin123"))
	})

	It("reports healthy with the memory store", func() {
		rec := do(http.MethodGet, "/api/v1/health", "", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("serves the api document and metrics", func() {
		Expect(do(http.MethodGet, "/openapi.yml", "", nil).Code).To(Equal(http.StatusOK))

		do(http.MethodGet, "/api/v1/ping", "", nil)
		rec := do(http.MethodGet, "/metrics", "", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("attendance_http_requests_total"))
	})

	It("runs a full employee day and an admin report", func() {
		rec := do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"name": "Fadhil", "email": "fadhil@divron.com", "password": "secret", "department": "Engineering",
		})
		Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())

		token := login("fadhil@divron.com", "secret")

		Expect(do(http.MethodPost, "/api/v1/attendance/check-in", token, nil).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodPost, "/api/v1/attendance/check-in", token, nil).Code).To(Equal(http.StatusConflict))
		Expect(do(http.MethodPost, "/api/v1/attendance/check-out", token, nil).Code).To(Equal(http.StatusOK))

		rec = do(http.MethodGet, "/api/v1/attendance/history", token, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"check_out"`))

		Expect(do(http.MethodGet, "/api/v1/admin/employees", token, nil).Code).To(Equal(http.StatusForbidden))

		admin := login("admin@divron.com", "admin123")
		Expect(do(http.MethodPost, "/api/v1/attendance/check-in", admin, nil).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/api/v1/attendance/today", admin, nil).Code).To(Equal(http.StatusForbidden))

		rec = do(http.MethodGet, "/api/v1/admin/employees", admin, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("fadhil@divron.com"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("admin@divron.com"))

		rec = do(http.MethodGet, "/api/v1/admin/dashboard", admin, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"total_staff":1`))

		rec = do(http.MethodGet, "/api/v1/admin/reports/daily?date="+app.Attendance.Today(), admin, nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("attachment"))
		Expect(rec.Body.String()).To(ContainSubstring("Fadhil"))
		Expect(rec.Body.String()).To(ContainSubstring("Engineering"))
	})

	It("refuses the token of a removed employee", func() {
		Expect(do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"name": "Sari", "email": "sari@divron.com", "password": "secret", "department": "Finance",
		}).Code).To(Equal(http.StatusCreated))
		token := login("sari@divron.com", "secret")

		admin := login("admin@divron.com", "admin123")
		var id string
		for _, e := range app.Repo.ListEmployees(ctx) {
			if e.Email == "sari@divron.com" {
				id = e.ID
			}
		}
		Expect(do(http.MethodDelete, "/api/v1/admin/employees/"+id, admin, nil).Code).To(Equal(http.StatusNoContent))

		Expect(do(http.MethodGet, "/api/v1/me", token, nil).Code).To(Equal(http.StatusUnauthorized))
	})
})
