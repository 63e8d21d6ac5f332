package employee

import (
	"strings"

	"github.com/divron/attendance/internal/core/common/validation"
)

// CreateEmployeeDTO is what an admin submits to add a staff member.
type CreateEmployeeDTO struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Department string   `json:"department"`
	Salary     *float64 `json:"salary,omitempty"`
}

// RegisterDTO is what a prospective employee submits on self registration.
type RegisterDTO struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

func (d RegisterDTO) ToCreateDTO() CreateEmployeeDTO {
	return CreateEmployeeDTO{
		Name:       d.Name,
		Email:      d.Email,
		Password:   d.Password,
		Department: d.Department,
	}
}

func (d *CreateEmployeeDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Department = strings.TrimSpace(d.Department)
}

func (d CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MaxLength(72)
	v.Field("department", d.Department).Required().MaxLength(100)
	if d.Salary != nil {
		v.Field("salary", *d.Salary).NonNegative()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type EmployeesResponse struct {
	Employees []*Employee `json:"employees"`
}
