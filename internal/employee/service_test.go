package employee_test

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/attendance"
	"github.com/divron/attendance/internal/employee"
	"github.com/divron/attendance/internal/records"
	"github.com/divron/attendance/internal/storage"
	"github.com/divron/attendance/internal/storage/memory"
	"github.com/divron/attendance/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type prefixEncoder struct {
	err error
}

func (p prefixEncoder) Encode(plain string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "enc:" + plain, nil
}

func salary(v float64) *float64 { return &v }

var _ = Describe("Employee Service", func() {
	var (
		ctx  context.Context
		repo *records.Repository
		svc  *employee.Service
	)

	validDTO := func() employee.CreateEmployeeDTO {
		return employee.CreateEmployeeDTO{
			Name:       "Ayu",
			Email:      "ayu@divron.com",
			Password:   "pw",
			Department: "Engineering",
			Salary:     salary(5000),
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		repo = records.NewRepository(storage.NewCollections(memory.New(), "", logger.Discard()), logger.Discard())
		_, err := repo.Initialize(ctx)
		Expect(err).NotTo(HaveOccurred())

		joined := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
		svc = employee.NewService(repo, prefixEncoder{}, logger.Discard()).WithClock(func() time.Time { return joined })
	})

	Describe("Create", func() {
		It("should store an employee with the employee role and encoded password", func() {
			created, err := svc.Create(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeEmpty())
			Expect(created.Role).To(Equal(employee.RoleEmployee))
			Expect(created.Password).To(Equal("enc:pw"))
			Expect(created.JoinDate).To(Equal("2024-05-02T10:00:00.000Z"))
			Expect(repo.ListEmployees(ctx)).To(HaveLen(2))
		})

		It("should trim text fields", func() {
			dto := validDTO()
			dto.Name = "  Ayu  "
			dto.Email = " ayu@divron.com "

			created, err := svc.Create(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Name).To(Equal("Ayu"))
			Expect(created.Email).To(Equal("ayu@divron.com"))
		})

		It("should reject a taken email", func() {
			dto := validDTO()
			dto.Email = "admin@divron.com"

			_, err := svc.Create(ctx, dto)
			Expect(err).To(MatchError(apperrors.ErrEmailTaken))
		})

		It("should reject invalid input with field details", func() {
			_, err := svc.Create(ctx, employee.CreateEmployeeDTO{Email: "not-an-email", Salary: salary(-1)})

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeValidationFailed))

			details, ok := appErr.Details.(apperrors.ValidationErrors)
			Expect(ok).To(BeTrue())
			fields := make([]string, len(details.Errors))
			for i, e := range details.Errors {
				fields[i] = e.Field
			}
			Expect(fields).To(ContainElements("name", "email", "password", "department", "salary"))
		})

		It("should surface encoder failures as internal errors", func() {
			svc = employee.NewService(repo, prefixEncoder{err: errors.New("boom")}, logger.Discard())

			_, err := svc.Create(ctx, validDTO())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeInternal))
		})
	})

	Describe("ListStaff", func() {
		It("should hide admins", func() {
			_, err := svc.Create(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())

			staff := svc.ListStaff(ctx)
			Expect(staff).To(HaveLen(1))
			Expect(staff[0].Email).To(Equal("ayu@divron.com"))
		})
	})

	Describe("Remove", func() {
		It("should remove the employee and their attendance", func() {
			created, _ := svc.Create(ctx, validDTO())
			_, err := repo.AddAttendanceRecord(ctx, attendance.Record{EmployeeID: created.ID, Date: "2024-05-02", CheckIn: "09:00:00"})
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.Remove(ctx, created.ID)).To(Succeed())
			Expect(svc.ListStaff(ctx)).To(BeEmpty())
			Expect(repo.ListAttendance(ctx)).To(BeEmpty())
		})

		It("should refuse to remove the admin", func() {
			err := svc.Remove(ctx, records.AdminSeedID)
			Expect(err).To(MatchError(apperrors.ErrCannotRemoveAdmin))
			Expect(repo.ListEmployees(ctx)).To(HaveLen(1))
		})

		It("should accept unknown ids", func() {
			Expect(svc.Remove(ctx, "missing")).To(Succeed())
		})
	})
})
