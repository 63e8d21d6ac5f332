package attendance

import (
	"context"
	"net/http"

	"github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/transport"
)

type ServiceAPI interface {
	Today() string
	TodayRecord(ctx context.Context, employeeID string) (*Record, error)
	History(ctx context.Context, employeeID string) []*Record
	CheckIn(ctx context.Context, employeeID string) (*Record, error)
	CheckOut(ctx context.Context, employeeID string) (*Record, error)
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

func (h *Handler) employeeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := internal.EmployeeIDFromContext(r.Context())
	if id == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return id, true
}

// GetToday handles GET /attendance/today
func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	record, err := h.Service.TodayRecord(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TodayResponse{Date: h.Service.Today(), Record: record})
}

// GetHistory handles GET /attendance/history
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	h.WriteJSON(w, http.StatusOK, HistoryResponse{Records: h.Service.History(r.Context(), id)})
}

// CheckIn handles POST /attendance/check-in
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	record, err := h.Service.CheckIn(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, record)
}

// CheckOut handles POST /attendance/check-out
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	record, err := h.Service.CheckOut(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}
