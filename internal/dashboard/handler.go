package dashboard

import (
	"context"
	"net/http"

	"github.com/divron/attendance/internal/transport"
)

type SummaryProvider interface {
	Summary(ctx context.Context) Summary
}

type Handler struct {
	*transport.BaseHandler
	Provider SummaryProvider
}

func NewHandler(baseHandler *transport.BaseHandler, provider SummaryProvider) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Provider:    provider,
	}
}

// GetSummary handles GET /admin/dashboard
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Provider.Summary(r.Context()))
}
