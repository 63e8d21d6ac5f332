package employee

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/divron/attendance/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListStaff(ctx context.Context) []*Employee
	Create(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error)
	Remove(ctx context.Context, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// ListEmployees handles GET /admin/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, EmployeesResponse{
		Employees: h.Service.ListStaff(r.Context()),
	})
}

// CreateEmployee handles POST /admin/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// RemoveEmployee handles DELETE /admin/employees/{id}
func (h *Handler) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, "employee id is required")
		return
	}

	if err := h.Service.Remove(r.Context(), id); err != nil {
		h.HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
