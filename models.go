package auth

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role is a role tag carried by users and session tokens
type Role string

const (
	// RoleUser is the default role of every account
	RoleUser Role = "user"
	// RoleAdmin grants access to administrative operations
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// DefaultRoles returns the roles assigned at signup
func DefaultRoles() []Role {
	return []Role{RoleUser}
}

// User is the user model
type User struct {
	bun.BaseModel            `bun:"table:users,alias:usr"`
	ID                       uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Name                     string     `bun:"name,notnull" json:"name"`
	Email                    string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash             string     `bun:"password_hash,notnull" json:"-"`
	Roles                    []Role     `bun:"roles,notnull" json:"roles"`
	IsEmailVerified          bool       `bun:"is_email_verified,notnull,default:false" json:"isEmailVerified"`
	EmailVerificationExpires *time.Time `bun:"email_verification_expires,nullzero" json:"emailVerificationExpires"`
	CreatedAt                time.Time  `bun:"created_at,notnull" json:"createdAt"`
}

// HasRole checks if the user holds the given role
func (u *User) HasRole(role Role) bool {
	return slices.Contains(u.Roles, role)
}

// VerificationExpired reports whether the verification window closed at or
// before now. The bound matches jwt exp, which rejects a token at exp.
func (u *User) VerificationExpired(now time.Time) bool {
	return u.EmailVerificationExpires != nil && !now.Before(*u.EmailVerificationExpires)
}

func prepareUserDefaults(u *User, now time.Time) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	if len(u.Roles) == 0 {
		u.Roles = DefaultRoles()
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
}
