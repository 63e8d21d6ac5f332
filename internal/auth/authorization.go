package auth

import (
	"log/slog"
	"net/http"

	"github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/employee"
	"github.com/divron/attendance/internal/transport"
)

// RoleAuthorization gates routes on the role placed in the context by
// AuthMiddleware.
type RoleAuthorization struct {
	base   *transport.BaseHandler
	logger *slog.Logger
}

func NewRoleAuthorization(base *transport.BaseHandler, logger *slog.Logger) *RoleAuthorization {
	return &RoleAuthorization{
		base:   base,
		logger: logger,
	}
}

// RequireRole returns the forbidden error for role when e does not hold it.
func RequireRole(e *employee.Employee, role employee.Role) error {
	if e.Role == role {
		return nil
	}
	if role == employee.RoleAdmin {
		return internal.ErrAdminRequired
	}
	return internal.ErrEmployeeRequired
}

func deniedError(roles []employee.Role) error {
	for _, r := range roles {
		if r == employee.RoleAdmin {
			return internal.ErrAdminRequired
		}
	}
	return internal.ErrEmployeeRequired
}

func (ra *RoleAuthorization) Check(next http.HandlerFunc, roles ...employee.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employeeID := internal.EmployeeIDFromContext(r.Context())
		if employeeID == "" {
			ra.logger.Warn("authorization check failed: no identity in context")
			ra.base.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		role := employee.Role(internal.RoleFromContext(r.Context()))
		for _, allowed := range roles {
			if role == allowed {
				next.ServeHTTP(w, r)
				return
			}
		}

		ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
			"employee_id", employeeID,
			"role", role,
			"required_roles", roles)
		ra.base.HandleError(w, deniedError(roles))
	}
}

func (ra *RoleAuthorization) Middleware(roles ...employee.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, roles...)
	}
}

func (ra *RoleAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.Middleware(employee.RoleAdmin)
}

// RequireEmployee keeps the admin account out of attendance routes.
func (ra *RoleAuthorization) RequireEmployee() func(http.Handler) http.Handler {
	return ra.Middleware(employee.RoleEmployee)
}
