package records

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/divron/attendance/internal/attendance"
	attendanceDatamodel "github.com/divron/attendance/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/divron/attendance/internal/core/datamodel/employee"
	"github.com/divron/attendance/internal/core/events"
	"github.com/divron/attendance/internal/employee"
	"github.com/divron/attendance/internal/storage"
	"github.com/google/uuid"
)

const AdminSeedID = "admin-1"

// AdminSeed describes the account created by Initialize. Password is stored
// as given, so callers encode it first.
type AdminSeed struct {
	Name       string
	Email      string
	Password   string
	Department string
}

func DefaultAdminSeed() AdminSeed {
	return AdminSeed{
		Name:       "Admin",
		Email:      "admin@divron.com",
		Password:   "admin123",
		Department: "Administration",
	}
}

// IDGenerator returns a fresh id with the given prefix.
type IDGenerator func(prefix string) string

func UUIDGenerator(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Repository is CRUD over the employees and attendance collections. Nothing
// is cached: every call re-reads the full collection, every mutation
// rewrites it.
type Repository struct {
	collections *storage.Collections
	publisher   events.Publisher
	newID       IDGenerator
	now         func() time.Time
	seed        AdminSeed
	logger      *slog.Logger
}

type Option func(*Repository)

func WithIDGenerator(gen IDGenerator) Option {
	return func(r *Repository) { r.newID = gen }
}

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithAdminSeed(seed AdminSeed) Option {
	return func(r *Repository) { r.seed = seed }
}

func WithPublisher(p events.Publisher) Option {
	return func(r *Repository) { r.publisher = p }
}

func NewRepository(collections *storage.Collections, logger *slog.Logger, opts ...Option) *Repository {
	r := &Repository{
		collections: collections,
		newID:       UUIDGenerator,
		now:         time.Now,
		seed:        DefaultAdminSeed(),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) publish(ctx context.Context, event events.Event) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func (r *Repository) readEmployees(ctx context.Context) []employeeDatamodel.Employee {
	return storage.ReadCollection[employeeDatamodel.Employee](ctx, r.collections, storage.KeyEmployees)
}

func (r *Repository) readAttendance(ctx context.Context) []attendanceDatamodel.AttendanceRecord {
	return storage.ReadCollection[attendanceDatamodel.AttendanceRecord](ctx, r.collections, storage.KeyAttendance)
}

func (r *Repository) ListEmployees(ctx context.Context) []*employee.Employee {
	return employee.FromDataModelSlice(r.readEmployees(ctx))
}

// AddEmployee assigns a new id to e, appends it and persists the collection.
// Any id already set on e is ignored.
func (r *Repository) AddEmployee(ctx context.Context, e employee.Employee) (*employee.Employee, error) {
	e.ID = r.newID("emp")

	all := r.readEmployees(ctx)
	all = append(all, *employee.ToDataModel(&e))
	if err := storage.WriteCollection(ctx, r.collections, storage.KeyEmployees, all); err != nil {
		return nil, fmt.Errorf("write employees: %w", err)
	}

	r.logger.Debug("employee stored", "employee_id", e.ID)
	r.publish(ctx, events.NewEmployeeAddedEvent(e.ID, string(e.Role)))
	return &e, nil
}

// RemoveEmployee deletes the employee and every attendance record that
// references it. Employees are written first; the two writes are not atomic.
// An unknown id removes nothing but orphaned records carrying that id.
func (r *Repository) RemoveEmployee(ctx context.Context, id string) error {
	all := r.readEmployees(ctx)
	kept := make([]employeeDatamodel.Employee, 0, len(all))
	for _, e := range all {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	existed := len(kept) != len(all)
	if existed {
		if err := storage.WriteCollection(ctx, r.collections, storage.KeyEmployees, kept); err != nil {
			return fmt.Errorf("write employees: %w", err)
		}
	}

	records := r.readAttendance(ctx)
	keptRecords := make([]attendanceDatamodel.AttendanceRecord, 0, len(records))
	for _, rec := range records {
		if rec.EmployeeID != id {
			keptRecords = append(keptRecords, rec)
		}
	}
	removed := len(records) - len(keptRecords)
	if removed > 0 {
		if err := storage.WriteCollection(ctx, r.collections, storage.KeyAttendance, keptRecords); err != nil {
			return fmt.Errorf("write attendance: %w", err)
		}
	}

	if existed || removed > 0 {
		r.publish(ctx, events.NewEmployeeRemovedEvent(id, removed))
	}
	return nil
}

func (r *Repository) ListAttendance(ctx context.Context) []*attendance.Record {
	return attendance.FromDataModelSlice(r.readAttendance(ctx))
}

func (r *Repository) AddAttendanceRecord(ctx context.Context, rec attendance.Record) (*attendance.Record, error) {
	rec.ID = r.newID("att")

	all := r.readAttendance(ctx)
	all = append(all, *attendance.ToDataModel(&rec))
	if err := storage.WriteCollection(ctx, r.collections, storage.KeyAttendance, all); err != nil {
		return nil, fmt.Errorf("write attendance: %w", err)
	}

	r.publish(ctx, events.NewAttendanceAddedEvent(rec.ID, rec.EmployeeID, rec.Date))
	return &rec, nil
}

// UpdateAttendanceRecord merges u into every record with the given id. An
// unknown id is a no-op and nothing is written.
func (r *Repository) UpdateAttendanceRecord(ctx context.Context, id string, u attendance.Update) error {
	all := r.readAttendance(ctx)

	matched := 0
	for i := range all {
		if all[i].ID != id {
			continue
		}
		rec := attendance.FromDataModel(&all[i])
		u.Apply(rec)
		all[i] = *attendance.ToDataModel(rec)
		matched++
	}
	if matched == 0 {
		return nil
	}

	if err := storage.WriteCollection(ctx, r.collections, storage.KeyAttendance, all); err != nil {
		return fmt.Errorf("write attendance: %w", err)
	}

	r.publish(ctx, events.NewAttendanceUpdatedEvent(id))
	return nil
}

// Initialize seeds the admin account when no employee has the admin role.
// Existing employees are kept.
func (r *Repository) Initialize(ctx context.Context) (bool, error) {
	all := r.readEmployees(ctx)
	for _, e := range all {
		if e.Role == string(employee.RoleAdmin) {
			return false, nil
		}
	}

	admin := employee.Employee{
		ID:         AdminSeedID,
		Name:       r.seed.Name,
		Email:      r.seed.Email,
		Password:   r.seed.Password,
		Role:       employee.RoleAdmin,
		Department: r.seed.Department,
		JoinDate:   employee.FormatJoinDate(r.now()),
	}
	all = append(all, *employee.ToDataModel(&admin))
	if err := storage.WriteCollection(ctx, r.collections, storage.KeyEmployees, all); err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	r.logger.Info("admin account seeded", "employee_id", admin.ID, "email", admin.Email)
	r.publish(ctx, events.NewEmployeeAddedEvent(admin.ID, string(admin.Role)))
	return true, nil
}

// Clear drops both collections.
func (r *Repository) Clear(ctx context.Context) error {
	store := r.collections.Store()
	if err := store.Delete(ctx, r.collections.Key(storage.KeyAttendance)); err != nil {
		return fmt.Errorf("clear attendance: %w", err)
	}
	if err := store.Delete(ctx, r.collections.Key(storage.KeyEmployees)); err != nil {
		return fmt.Errorf("clear employees: %w", err)
	}
	return nil
}
