package auth

import (
	"context"

	apperrors "github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/employee"
	"github.com/divron/attendance/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type mockRegistrar struct {
	directory *mockDirectory
	passwords *Passwords
}

func (m *mockRegistrar) Create(_ context.Context, dto employee.CreateEmployeeDTO) (*employee.Employee, error) {
	for _, e := range m.directory.employees {
		if e.Email == dto.Email {
			return nil, apperrors.ErrEmailTaken
		}
	}
	stored, err := m.passwords.Encode(dto.Password)
	if err != nil {
		return nil, err
	}
	e := &employee.Employee{
		ID:         "emp-new",
		Name:       dto.Name,
		Email:      dto.Email,
		Password:   stored,
		Role:       employee.RoleEmployee,
		Department: dto.Department,
	}
	m.directory.employees = append(m.directory.employees, e)
	return e, nil
}

var _ = ginkgo.Describe("Manager", func() {
	var (
		ctx       context.Context
		manager   *Manager
		directory *mockDirectory
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		directory = newMockDirectory()
		passwords, err := NewPasswords(apperrors.PasswordSchemePlaintext, 0)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		manager = NewManager(directory, &mockRegistrar{directory: directory, passwords: passwords}, passwords, logger.Discard())
	})

	ginkgo.It("should start unauthenticated", func() {
		gomega.Expect(manager.IsAuthenticated()).To(gomega.BeFalse())
		_, ok := manager.CurrentUser()
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.It("should authenticate with exactly matching credentials", func() {
		gomega.Expect(manager.Login(ctx, "admin@divron.com", "admin123")).To(gomega.Succeed())

		gomega.Expect(manager.IsAuthenticated()).To(gomega.BeTrue())
		current, ok := manager.CurrentUser()
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(current.ID).To(gomega.Equal("admin-1"))
	})

	ginkgo.It("should leave the state unchanged on failure", func() {
		err := manager.Login(ctx, "admin@divron.com", "wrong")
		gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidCredentials))
		gomega.Expect(manager.IsAuthenticated()).To(gomega.BeFalse())

		gomega.Expect(manager.Login(ctx, "admin@divron.com", "admin123")).To(gomega.Succeed())
		err = manager.Login(ctx, "nobody@divron.com", "admin123")
		gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidCredentials))

		current, ok := manager.CurrentUser()
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(current.ID).To(gomega.Equal("admin-1"))
	})

	ginkgo.It("should pick the first employee with a matching credential", func() {
		directory.employees = append(directory.employees,
			&employee.Employee{ID: "dup-1", Email: "dup@divron.com", Password: "a"},
			&employee.Employee{ID: "dup-2", Email: "dup@divron.com", Password: "a"},
		)

		gomega.Expect(manager.Login(ctx, "dup@divron.com", "a")).To(gomega.Succeed())
		current, _ := manager.CurrentUser()
		gomega.Expect(current.ID).To(gomega.Equal("dup-1"))
	})

	ginkgo.It("should logout idempotently", func() {
		gomega.Expect(manager.Login(ctx, "admin@divron.com", "admin123")).To(gomega.Succeed())

		manager.Logout()
		gomega.Expect(manager.IsAuthenticated()).To(gomega.BeFalse())
		manager.Logout()
		gomega.Expect(manager.IsAuthenticated()).To(gomega.BeFalse())
	})

	ginkgo.It("should register without logging in", func() {
		created, err := manager.Register(ctx, employee.RegisterDTO{
			Name: "New", Email: "new@divron.com", Password: "pw", Department: "Eng",
		})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(created.Role).To(gomega.Equal(employee.RoleEmployee))
		gomega.Expect(manager.IsAuthenticated()).To(gomega.BeFalse())

		gomega.Expect(manager.Login(ctx, "new@divron.com", "pw")).To(gomega.Succeed())
	})

	ginkgo.It("should refuse a duplicate registration", func() {
		_, err := manager.Register(ctx, employee.RegisterDTO{
			Name: "Dup", Email: "admin@divron.com", Password: "pw", Department: "Eng",
		})
		gomega.Expect(err).To(gomega.MatchError(apperrors.ErrEmailTaken))
	})
})
