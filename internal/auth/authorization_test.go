package auth

import (
	"net/http"
	"net/http/httptest"

	"github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/employee"
	"github.com/divron/attendance/internal/transport"
	"github.com/divron/attendance/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RoleAuthorization", func() {
	var ra *RoleAuthorization

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	serve := func(mw func(http.Handler) http.Handler, id, role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/attendance/check-in", nil)
		if id != "" {
			req = req.WithContext(internal.ContextWithIdentity(req.Context(), id, role))
		}
		rec := httptest.NewRecorder()
		mw(ok).ServeHTTP(rec, req)
		return rec
	}

	ginkgo.BeforeEach(func() {
		ra = NewRoleAuthorization(transport.NewBaseHandler(logger.Discard()), logger.Discard())
	})

	ginkgo.It("should let employees through RequireEmployee and stop the admin", func() {
		gomega.Expect(serve(ra.RequireEmployee(), "emp-1", "employee").Code).To(gomega.Equal(http.StatusTeapot))

		rec := serve(ra.RequireEmployee(), "admin-1", "admin")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("EMPLOYEE_REQUIRED"))
	})

	ginkgo.It("should answer ADMIN_REQUIRED on admin routes", func() {
		gomega.Expect(serve(ra.RequireAdmin(), "admin-1", "admin").Code).To(gomega.Equal(http.StatusTeapot))

		rec := serve(ra.RequireAdmin(), "emp-1", "employee")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("ADMIN_REQUIRED"))
	})

	ginkgo.It("should answer 401 without an identity", func() {
		gomega.Expect(serve(ra.RequireEmployee(), "", "").Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("should map RequireRole onto the matching sentinel", func() {
		admin := &employee.Employee{ID: "admin-1", Role: employee.RoleAdmin}
		staff := &employee.Employee{ID: "emp-1", Role: employee.RoleEmployee}

		gomega.Expect(RequireRole(admin, employee.RoleAdmin)).To(gomega.Succeed())
		gomega.Expect(RequireRole(staff, employee.RoleAdmin)).To(gomega.MatchError(internal.ErrAdminRequired))
		gomega.Expect(RequireRole(admin, employee.RoleEmployee)).To(gomega.MatchError(internal.ErrEmployeeRequired))
	})
})
