package auth

import (
	"fmt"
	"strings"

	apperrors "github.com/divron/attendance/internal"
	"golang.org/x/crypto/bcrypt"
)

// Passwords encodes and checks stored credentials under one scheme.
type Passwords struct {
	scheme string
	cost   int
}

func NewPasswords(scheme string, cost int) (*Passwords, error) {
	switch scheme {
	case apperrors.PasswordSchemePlaintext:
	case apperrors.PasswordSchemeBcrypt:
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
		}
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
	return &Passwords{scheme: scheme, cost: cost}, nil
}

func (p *Passwords) Scheme() string {
	return p.scheme
}

// Encode returns the value to store for plain.
func (p *Passwords) Encode(plain string) (string, error) {
	if p.scheme == apperrors.PasswordSchemePlaintext {
		return plain, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plain matches stored. Stored values that are not
// bcrypt hashes are compared exactly under either scheme.
func (p *Passwords) Verify(stored, plain string) bool {
	if p.scheme == apperrors.PasswordSchemeBcrypt && isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	}
	return stored == plain
}

func isBcryptHash(s string) bool {
	if len(s) != 60 {
		return false
	}
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
