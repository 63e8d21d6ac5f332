package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/divron/attendance/internal"
	"github.com/divron/attendance/internal/employee"
	"github.com/divron/attendance/internal/transport"
	"github.com/divron/attendance/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResolveEmployee(ctx context.Context, id string) (*employee.Employee, error)
}

type RegistrarAPI interface {
	Create(ctx context.Context, dto employee.CreateEmployeeDTO) (*employee.Employee, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	Registrar RegistrarAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI, registrar RegistrarAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
		Registrar:   registrar,
	}
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// Register handles POST /auth/register. The new account always gets the
// employee role.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto employee.RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Registrar.Create(r.Context(), dto.ToCreateDTO())
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// RefreshToken handles POST /auth/refresh
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only
// confirms the token was valid.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.ResolveEmployee(r.Context(), internal.EmployeeIDFromContext(r.Context()))
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

// AuthMiddleware resolves the bearer token to a live employee and puts its
// identity on the request context. Tokens of removed employees are refused.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.Warn("auth middleware: missing authorization token")
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.HandleError(w, err)
			return
		}

		e, err := h.Service.ResolveEmployee(r.Context(), claims.EmployeeID)
		if err != nil {
			h.Logger.Warn("auth middleware: token for unknown employee", "employee_id", claims.EmployeeID)
			h.HandleError(w, internal.ErrInvalidToken)
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), e.ID, string(e.Role))
		ctx = logger.With(ctx, "employee_id", e.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
