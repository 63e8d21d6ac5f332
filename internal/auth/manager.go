package auth

import (
	"context"
	"log/slog"
	"sync"

	apperrors "github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/employee"
)

// EmployeeDirectory is the read side of the record repository.
type EmployeeDirectory interface {
	ListEmployees(ctx context.Context) []*employee.Employee
}

// Registrar creates employee accounts.
type Registrar interface {
	Create(ctx context.Context, dto employee.CreateEmployeeDTO) (*employee.Employee, error)
}

// Manager holds the process-wide login state. It starts Unauthenticated and
// is never persisted.
type Manager struct {
	directory EmployeeDirectory
	registrar Registrar
	passwords *Passwords
	observer  LoginObserver
	logger    *slog.Logger

	mu      sync.RWMutex
	current *employee.Employee
}

func NewManager(directory EmployeeDirectory, registrar Registrar, passwords *Passwords, logger *slog.Logger) *Manager {
	return &Manager{
		directory: directory,
		registrar: registrar,
		passwords: passwords,
		logger:    logger,
	}
}

func (m *Manager) WithObserver(o LoginObserver) *Manager {
	m.observer = o
	return m
}

// FindByCredentials returns the first employee whose email matches exactly
// and whose stored credential verifies against password.
func FindByCredentials(ctx context.Context, directory EmployeeDirectory, passwords *Passwords, email, password string) (*employee.Employee, error) {
	for _, e := range directory.ListEmployees(ctx) {
		if e.Email != email {
			continue
		}
		if passwords.Verify(e.Password, password) {
			return e, nil
		}
	}
	return nil, apperrors.ErrInvalidCredentials
}

// Login moves to Authenticated on a credential match. On failure the current
// state is left as it was.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	e, err := FindByCredentials(ctx, m.directory, m.passwords, email, password)
	if m.observer != nil {
		m.observer.ObserveLogin(err == nil)
	}
	if err != nil {
		m.logger.Warn("login failed", "email", email)
		return err
	}

	m.mu.Lock()
	m.current = e
	m.mu.Unlock()

	m.logger.Info("login succeeded", "employee_id", e.ID, "role", e.Role)
	return nil
}

func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}

// Register creates an employee account. It does not change the login state.
func (m *Manager) Register(ctx context.Context, dto employee.RegisterDTO) (*employee.Employee, error) {
	return m.registrar.Create(ctx, dto.ToCreateDTO())
}

func (m *Manager) CurrentUser() (*employee.Employee, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, false
	}
	e := *m.current
	return &e, true
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
