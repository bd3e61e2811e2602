package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// UserStore persists user records. Implementations must keep ids and emails
// unique and provide per record atomicity for single writes.
type UserStore interface {
	// FindByID returns ErrUserNotFound when the record does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByEmail returns nil and no error when the record does not exist
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Create returns ErrEmailInUse when the email is already registered
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*User, error)
	Remove(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*User, error)
}

// TxRunner runs f against a UserStore bound to a single transaction.
// Returning an error from f rolls the transaction back.
type TxRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, users UserStore) error) error
}

// TxRunnerFunc adapts a function to TxRunner
type TxRunnerFunc func(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, users UserStore) error) error

func (fn TxRunnerFunc) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, users UserStore) error) error {
	return fn(ctx, opts, f)
}

// directRunner runs f against the store without a transaction. It backs
// stores that only guarantee per record atomicity.
func directRunner(store UserStore) TxRunner {
	return TxRunnerFunc(func(ctx context.Context, _ *sql.TxOptions, f func(ctx context.Context, users UserStore) error) error {
		return f(ctx, store)
	})
}

// UserUpdate is a partial update. Only non nil fields are written.
type UserUpdate struct {
	Name            *string
	PasswordHash    *string
	Roles           []Role
	IsEmailVerified *bool
	// EmailVerificationExpires is written when SetEmailVerificationExpires
	// is true, which allows clearing it to NULL.
	EmailVerificationExpires    *time.Time
	SetEmailVerificationExpires bool
}

// IsEmpty reports whether the update would not change any column
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil &&
		u.PasswordHash == nil &&
		u.Roles == nil &&
		u.IsEmailVerified == nil &&
		!u.SetEmailVerificationExpires
}

// MarkEmailVerified builds the update applied after a successful verification
func MarkEmailVerified() UserUpdate {
	verified := true
	return UserUpdate{
		IsEmailVerified:             &verified,
		EmailVerificationExpires:    nil,
		SetEmailVerificationExpires: true,
	}
}

// ReplacePasswordHash builds the update applied on password change
func ReplacePasswordHash(hash string) UserUpdate {
	return UserUpdate{PasswordHash: &hash}
}
