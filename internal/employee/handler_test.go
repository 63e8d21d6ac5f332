package employee_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/divron/attendance/internal/employee"
	"github.com/divron/attendance/internal/records"
	"github.com/divron/attendance/internal/storage"
	"github.com/divron/attendance/internal/storage/gormstore"
	"github.com/divron/attendance/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var _ = Describe("Employee Handler Integration", func() {
	var (
		store   *gormstore.Store
		repo    *records.Repository
		handler *employee.Handler
		slogger *slog.Logger
	)

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gormstore.OpenDB(gormstore.Options{Driver: "sqlite", Source: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
		Expect(err).NotTo(HaveOccurred())
		store = gormstore.New(db)
		Expect(store.Migrate(context.Background())).To(Succeed())

		repo = records.NewRepository(storage.NewCollections(store, "", slogger), slogger)
		_, err = repo.Initialize(context.Background())
		Expect(err).NotTo(HaveOccurred())

		service := employee.NewService(repo, prefixEncoder{}, slogger)
		baseHandler := &transport.BaseHandler{Logger: slogger}
		handler = employee.NewHandler(baseHandler, service)
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	It("should create an employee and list it", func() {
		body := `{"name":"Budi","email":"budi@divron.com","password":"pw","department":"Sales","salary":3000}`
		req := httptest.NewRequest(http.MethodPost, "/admin/employees", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateEmployee(w, req)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))

		req = httptest.NewRequest(http.MethodGet, "/admin/employees", nil)
		w = httptest.NewRecorder()
		handler.ListEmployees(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var response employee.EmployeesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Employees).To(HaveLen(1))
		Expect(response.Employees[0].Name).To(Equal("Budi"))
	})

	It("should answer 409 for a duplicate email", func() {
		body := `{"name":"X","email":"admin@divron.com","password":"pw","department":"Sales"}`
		req := httptest.NewRequest(http.MethodPost, "/admin/employees", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateEmployee(w, req)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("EMAIL_TAKEN"))
	})

	It("should answer 400 for a malformed body", func() {
		req := httptest.NewRequest(http.MethodPost, "/admin/employees", strings.NewReader("{"))
		w := httptest.NewRecorder()

		handler.CreateEmployee(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should delete an employee", func() {
		created, err := handler.Service.Create(context.Background(), employee.CreateEmployeeDTO{
			Name: "C", Email: "c@divron.com", Password: "pw", Department: "Ops",
		})
		Expect(err).NotTo(HaveOccurred())

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/admin/employees/"+created.ID, nil), "id", created.ID)
		w := httptest.NewRecorder()
		handler.RemoveEmployee(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(repo.ListEmployees(context.Background())).To(HaveLen(1))
	})

	It("should answer 403 when removing the admin", func() {
		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/admin/employees/admin-1", nil), "id", "admin-1")
		w := httptest.NewRecorder()
		handler.RemoveEmployee(w, req)

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})
})
