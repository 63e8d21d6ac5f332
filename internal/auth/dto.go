package auth

import (
	"strings"

	apperrors "github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/core/common/validation"
	"github.com/divron/attendance/internal/employee"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	AuthTokens
	Employee *employee.Employee `json:"employee"`
}

// Validate checks required fields. Emails are matched exactly, so no
// normalization happens here.
func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	if strings.TrimSpace(d.RefreshToken) == "" {
		return apperrors.NewValidationFieldError("refresh_token", "refresh_token is required", apperrors.ErrCodeValidationFailed)
	}
	return nil
}
