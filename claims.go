package auth

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose separates session tokens from verification tokens.
// Both share the same claim structure.
type TokenPurpose string

const (
	// PurposeSession marks tokens that authenticate API calls
	PurposeSession TokenPurpose = "session"
	// PurposeVerification marks short lived email verification tokens
	PurposeVerification TokenPurpose = "verification"
)

// SessionClaims is the JWT payload issued by SessionService
type SessionClaims struct {
	jwt.RegisteredClaims
	Email   string       `json:"email,omitempty"`
	Roles   []Role       `json:"roles,omitempty"`
	Purpose TokenPurpose `json:"purpose,omitempty"`
}

// UserID returns the subject claim
func (c *SessionClaims) UserID() string {
	return c.RegisteredClaims.Subject
}

// HasRole checks if the claims carry the given role
func (c *SessionClaims) HasRole(role Role) bool {
	return slices.Contains(c.Roles, role)
}

// Issued returns the issued at time
func (c *SessionClaims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

func sessionClaimsFor(user *User) SessionClaims {
	roles := make([]Role, len(user.Roles))
	copy(roles, user.Roles)
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID.String()},
		Email:            user.Email,
		Roles:            roles,
		Purpose:          PurposeSession,
	}
}

func verificationClaimsFor(user *User) SessionClaims {
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID.String()},
		Email:            user.Email,
		Purpose:          PurposeVerification,
	}
}
