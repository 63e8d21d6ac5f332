package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextEmployeeIDKey ctxKey = "employeeID"
	ContextRoleKey       ctxKey = "role"
)

func EmployeeIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(ContextEmployeeIDKey).(string); ok {
		return id
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if role, ok := ctx.Value(ContextRoleKey).(string); ok {
		return role
	}
	return ""
}

// ContextWithIdentity stores the authenticated employee id and role.
func ContextWithIdentity(ctx context.Context, employeeID, role string) context.Context {
	ctx = context.WithValue(ctx, ContextEmployeeIDKey, employeeID)
	return context.WithValue(ctx, ContextRoleKey, role)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
