package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/divron/attendance/internal/storage"
	"github.com/jmoiron/sqlx"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
	Details    interface{}  `json:"details,omitempty"`
}

// DatabaseDetails is reported for SQL backends.
type DatabaseDetails struct {
	Entries       int    `json:"entries"`
	SchemaVersion *int64 `json:"schema_version,omitempty"`
}

// HealthHandler checks the key-value store and, for SQL backends, reads the
// kv_entries table and the applied migration version.
type HealthHandler struct {
	store storage.Store
	db    *sqlx.DB
}

func NewHealthHandler(store storage.Store, db *sqlx.DB) *HealthHandler {
	return &HealthHandler{store: store, db: db}
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]CheckEntry{
		"store": check(ctx, h.store.Ping),
	}
	if h.db != nil {
		components["database"] = h.checkDatabase(ctx)
	}

	resp := HealthResponse{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		Components: components,
	}
	for _, c := range components {
		if c.Status == HealthUnhealthy {
			resp.Status = HealthUnhealthy
		}
	}

	statusCode := http.StatusOK
	if resp.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckEntry {
	var details DatabaseDetails
	entry := check(ctx, func(ctx context.Context) error {
		return h.db.GetContext(ctx, &details.Entries, "SELECT COUNT(*) FROM kv_entries")
	})
	if entry.Status != HealthHealthy {
		return entry
	}

	// schema_migrations only exists once the migrate command has run
	var version int64
	if err := h.db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version_id), 0) FROM schema_migrations WHERE is_applied"); err == nil {
		details.SchemaVersion = &version
	}
	entry.Details = details
	return entry
}

func check(ctx context.Context, ping func(context.Context) error) CheckEntry {
	start := time.Now()
	err := ping(ctx)

	entry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	}
	return entry
}
