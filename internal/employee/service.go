package employee

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/divron/attendance/internal"
)

type RepositoryAPI interface {
	ListEmployees(ctx context.Context) []*Employee
	AddEmployee(ctx context.Context, e Employee) (*Employee, error)
	RemoveEmployee(ctx context.Context, id string) error
}

// PasswordEncoder turns a submitted password into the stored credential.
type PasswordEncoder interface {
	Encode(plain string) (string, error)
}

type Service struct {
	repo      RepositoryAPI
	passwords PasswordEncoder
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, passwords PasswordEncoder, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		passwords: passwords,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock overrides the time source used for join dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ListStaff returns every employee except admins, in insertion order.
func (s *Service) ListStaff(ctx context.Context) []*Employee {
	all := s.repo.ListEmployees(ctx)
	staff := make([]*Employee, 0, len(all))
	for _, e := range all {
		if !e.IsAdmin() {
			staff = append(staff, e)
		}
	}
	return staff
}

func (s *Service) GetByID(ctx context.Context, id string) (*Employee, error) {
	for _, e := range s.repo.ListEmployees(ctx) {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errors.ErrEmployeeNotFound
}

func (s *Service) EmailTaken(ctx context.Context, email string) bool {
	for _, e := range s.repo.ListEmployees(ctx) {
		if e.Email == email {
			return true
		}
	}
	return false
}

// Create stores a new employee. The role is always RoleEmployee; admins only
// come from the startup seed.
func (s *Service) Create(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("employee validation failed", "error", err)
		return nil, err
	}

	if s.EmailTaken(ctx, dto.Email) {
		s.logger.Warn("employee email already registered", "email", dto.Email)
		return nil, errors.ErrEmailTaken
	}

	credential, err := s.passwords.Encode(dto.Password)
	if err != nil {
		s.logger.Error("failed to encode password", "error", err)
		return nil, errors.NewInternalError("failed to store credentials", err)
	}

	created, err := s.repo.AddEmployee(ctx, Employee{
		Name:       dto.Name,
		Email:      dto.Email,
		Password:   credential,
		Role:       RoleEmployee,
		Department: dto.Department,
		Salary:     dto.Salary,
		JoinDate:   FormatJoinDate(s.now()),
	})
	if err != nil {
		s.logger.Error("failed to add employee", "error", err, "email", dto.Email)
		return nil, errors.NewInternalError("failed to save employee", err)
	}

	s.logger.Info("employee created", "employee_id", created.ID, "department", created.Department)
	return created, nil
}

// Remove deletes a staff member and their attendance. Unknown ids are
// accepted silently; the admin account is protected.
func (s *Service) Remove(ctx context.Context, id string) error {
	e, err := s.GetByID(ctx, id)
	if err == nil && e.IsAdmin() {
		s.logger.Warn("refusing to remove admin account", "employee_id", id)
		return errors.ErrCannotRemoveAdmin
	}

	if err := s.repo.RemoveEmployee(ctx, id); err != nil {
		s.logger.Error("failed to remove employee", "error", err, "employee_id", id)
		return errors.NewInternalError("failed to remove employee", err)
	}

	s.logger.Info("employee removed", "employee_id", id, "existed", e != nil)
	return nil
}
