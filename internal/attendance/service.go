package attendance

import (
	"context"
	"log/slog"
	"sort"
	"time"

	errors "github.com/divron/attendance/internal"
)

type RepositoryAPI interface {
	ListAttendance(ctx context.Context) []*Record
	AddAttendanceRecord(ctx context.Context, r Record) (*Record, error)
	UpdateAttendanceRecord(ctx context.Context, id string, u Update) error
}

type Service struct {
	repo   RepositoryAPI
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock overrides the time source used for dates and check times.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Today() string {
	return FormatDate(s.now())
}

// TodayRecord returns the first record of the employee dated today.
func (s *Service) TodayRecord(ctx context.Context, employeeID string) (*Record, error) {
	today := s.Today()
	for _, r := range s.repo.ListAttendance(ctx) {
		if r.EmployeeID == employeeID && r.Date == today {
			return r, nil
		}
	}
	return nil, errors.ErrAttendanceNotFound
}

// History returns every record of the employee, newest date first.
func (s *Service) History(ctx context.Context, employeeID string) []*Record {
	var history []*Record
	for _, r := range s.repo.ListAttendance(ctx) {
		if r.EmployeeID == employeeID {
			history = append(history, r)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date > history[j].Date
	})
	if history == nil {
		history = []*Record{}
	}
	return history
}

// CheckIn opens today's record. A second check-in on the same day is
// refused; the store itself would accept it.
func (s *Service) CheckIn(ctx context.Context, employeeID string) (*Record, error) {
	if existing, err := s.TodayRecord(ctx, employeeID); err == nil {
		s.logger.Warn("check-in refused: already checked in", "employee_id", employeeID, "record_id", existing.ID)
		return nil, errors.ErrAlreadyCheckedIn
	}

	now := s.now()
	record, err := s.repo.AddAttendanceRecord(ctx, Record{
		EmployeeID: employeeID,
		Date:       FormatDate(now),
		CheckIn:    FormatTime(now),
		CheckOut:   nil,
	})
	if err != nil {
		s.logger.Error("failed to record check-in", "error", err, "employee_id", employeeID)
		return nil, errors.NewInternalError("failed to record check-in", err)
	}

	s.logger.Info("check-in recorded", "employee_id", employeeID, "record_id", record.ID, "check_in", record.CheckIn)
	return record, nil
}

// CheckOut closes today's record.
func (s *Service) CheckOut(ctx context.Context, employeeID string) (*Record, error) {
	record, err := s.TodayRecord(ctx, employeeID)
	if err != nil {
		s.logger.Warn("check-out refused: no record today", "employee_id", employeeID)
		return nil, errors.ErrNotCheckedIn
	}
	if record.IsCheckedOut() {
		s.logger.Warn("check-out refused: already checked out", "employee_id", employeeID, "record_id", record.ID)
		return nil, errors.ErrAlreadyCheckedOut
	}

	update := CheckOutAt(FormatTime(s.now()))
	if err := s.repo.UpdateAttendanceRecord(ctx, record.ID, update); err != nil {
		s.logger.Error("failed to record check-out", "error", err, "record_id", record.ID)
		return nil, errors.NewInternalError("failed to record check-out", err)
	}
	update.Apply(record)

	s.logger.Info("check-out recorded", "employee_id", employeeID, "record_id", record.ID, "check_out", *record.CheckOut)
	return record, nil
}
