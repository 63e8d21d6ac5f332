package report

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/divron/attendance/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Generate(ctx context.Context, req Request) (*File, error)
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

// Download handles GET /admin/reports/{period}?date=YYYY-MM-DD&format=csv|xlsx
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	file, err := h.Service.Generate(r.Context(), Request{
		Period: chi.URLParam(r, "period"),
		Date:   r.URL.Query().Get("date"),
		Format: r.URL.Query().Get("format"),
	})
	if err != nil {
		h.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Body); err != nil {
		h.Logger.Error("failed to write report", "error", err, "file", file.Name)
	}
}
