package auth

import (
	"context"
	"log/slog"

	apperrors "github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/employee"
)

// Service issues and checks HTTP session tokens. It shares the credential
// check with Manager but keeps no login state of its own.
type Service struct {
	directory      EmployeeDirectory
	passwords      *Passwords
	tokenGenerator TokenGenerator
	observer       LoginObserver
	logger         *slog.Logger
}

func NewService(directory EmployeeDirectory, passwords *Passwords, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		directory:      directory,
		passwords:      passwords,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

func (s *Service) WithObserver(o LoginObserver) *Service {
	s.observer = o
	return s
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := FindByCredentials(ctx, s.directory, s.passwords, dto.Email, dto.Password)
	if s.observer != nil {
		s.observer.ObserveLogin(err == nil)
	}
	if err != nil {
		s.logger.Warn("authentication failed", "email", dto.Email)
		return nil, err
	}

	tokens, err := s.issue(e)
	if err != nil {
		return nil, err
	}

	s.logger.Info("authentication succeeded", "employee_id", e.ID, "role", e.Role)
	return &LoginResponse{AuthTokens: tokens, Employee: e}, nil
}

// RefreshTokens validates refresh token and returns new tokens. The
// employee must still exist.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	e, err := s.ResolveEmployee(ctx, claims.EmployeeID)
	if err != nil {
		return AuthTokens{}, apperrors.ErrInvalidToken
	}

	return s.issue(e)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

func (s *Service) ResolveEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	for _, e := range s.directory.ListEmployees(ctx) {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, apperrors.ErrEmployeeNotFound
}

func (s *Service) issue(e *employee.Employee) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(e.ID, e.Email, string(e.Role))
	if err != nil {
		return AuthTokens{}, apperrors.NewInternalError("failed to issue token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(e.ID, e.Email, string(e.Role))
	if err != nil {
		return AuthTokens{}, apperrors.NewInternalError("failed to issue token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
