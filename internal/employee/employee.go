package employee

import (
	"time"

	employeeDatamodel "github.com/divron/attendance/internal/core/datamodel/employee"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// JoinDateLayout is the ISO-8601 layout used for JoinDate.
const JoinDateLayout = "2006-01-02T15:04:05.000Z07:00"

type Employee struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"-"`
	Role       Role     `json:"role"`
	Department string   `json:"department"`
	Salary     *float64 `json:"salary,omitempty"`
	JoinDate   string   `json:"join_date"`
}

func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// FormatJoinDate renders t the way join dates are stored.
func FormatJoinDate(t time.Time) string {
	return t.UTC().Format(JoinDateLayout)
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Password:   e.Password,
		Role:       string(e.Role),
		Department: e.Department,
		Salary:     e.Salary,
		JoinDate:   e.JoinDate,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Password:   e.Password,
		Role:       Role(e.Role),
		Department: e.Department,
		Salary:     e.Salary,
		JoinDate:   e.JoinDate,
	}
}

func FromDataModelSlice(employees []employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(employees))
	for i := range employees {
		result[i] = FromDataModel(&employees[i])
	}
	return result
}
