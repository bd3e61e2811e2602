package auth

import (
	"context"
	"fmt"
	"time"
)

// Logger is the logging contract used across the package.
// Args are key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// PasswordHasher hashes and verifies credentials
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenCodec signs and verifies session and verification tokens
type TokenCodec interface {
	Sign(claims SessionClaims, ttl time.Duration) (string, error)
	Verify(token string) (*SessionClaims, error)
}

// ExpiredTokenInspector is implemented by codecs able to read the claims of
// a correctly signed but expired token. SessionService uses it to purge
// abandoned signups whose verification token already expired.
type ExpiredTokenInspector interface {
	InspectExpired(token string) (*SessionClaims, error)
}

// VerificationNotifier receives verification tokens issued during signup.
// Delivering them (email, queue, ...) is up to the implementation.
type VerificationNotifier interface {
	NotifyVerification(ctx context.Context, user *User, token string) error
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() time.Duration
	GetCookieName() string
	GetCookieExpiration() time.Duration
	GetIssuer() string
	GetAudience() []string
	IsProduction() bool
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Println("[ERR] AUTH " + format(msg, args))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Println("[WRN] AUTH " + format(msg, args))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Println("[INF] AUTH " + format(msg, args))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Println("[DBG] AUTH " + format(msg, args))
}

func format(msg string, args []any) string {
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			msg += fmt.Sprintf(" %v=%v", args[i], args[i+1])
		} else {
			msg += fmt.Sprintf(" %v", args[i])
		}
	}
	return msg
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// NoopLogger discards every message
func NoopLogger() Logger {
	return noopLogger{}
}
