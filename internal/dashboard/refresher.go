package dashboard

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/divron/attendance/internal/attendance"
	"github.com/divron/attendance/internal/core/events"
	"github.com/divron/attendance/internal/employee"
)

type Source interface {
	ListEmployees(ctx context.Context) []*employee.Employee
	ListAttendance(ctx context.Context) []*attendance.Record
}

// Refresher keeps the latest Snapshot in memory. It re-reads on a fixed
// interval and whenever a record event arrives.
type Refresher struct {
	source   Source
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	latest  atomic.Pointer[Snapshot]
	trigger chan struct{}
}

func NewRefresher(source Source, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		source:   source,
		interval: interval,
		now:      time.Now,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

func (r *Refresher) WithClock(now func() time.Time) *Refresher {
	r.now = now
	return r
}

// Refresh reads both collections and replaces the snapshot.
func (r *Refresher) Refresh(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		Employees:   r.source.ListEmployees(ctx),
		Attendance:  r.source.ListAttendance(ctx),
		RefreshedAt: r.now(),
	}
	r.latest.Store(snap)

	r.logger.Debug("dashboard refreshed",
		"employees", len(snap.Employees),
		"attendance", len(snap.Attendance))
	return snap
}

// Snapshot returns the latest snapshot, reading one if none exists yet.
func (r *Refresher) Snapshot(ctx context.Context) *Snapshot {
	if snap := r.latest.Load(); snap != nil {
		return snap
	}
	return r.Refresh(ctx)
}

func (r *Refresher) Summary(ctx context.Context) Summary {
	return Summarize(r.Snapshot(ctx), attendance.FormatDate(r.now()))
}

// Notify asks Run for an early refresh. Multiple notifications before the
// next refresh collapse into one.
func (r *Refresher) Notify() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// SubscribeTo registers the refresher for every record event on bus.
func (r *Refresher) SubscribeTo(bus *events.EventBus) {
	for _, eventType := range events.RecordEventTypes {
		bus.Subscribe(eventType, func(_ context.Context, _ events.Event) error {
			r.Notify()
			return nil
		})
	}
}

// Run refreshes immediately, then on every tick or notification until ctx
// is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("dashboard refresher started", "interval", r.interval)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("dashboard refresher stopped")
			return ctx.Err()
		case <-ticker.C:
			r.Refresh(ctx)
		case <-r.trigger:
			r.Refresh(ctx)
		}
	}
}
