package auth

import "context"

// LogNotifier hands verification tokens to the logger. It stands in for a
// delivery channel during development.
type LogNotifier struct {
	Logger Logger
}

var _ VerificationNotifier = LogNotifier{}

func (n LogNotifier) NotifyVerification(ctx context.Context, user *User, token string) error {
	logger := n.Logger
	if logger == nil {
		logger = defLogger{}
	}
	logger.Info("verification token issued", "email", user.Email, "token", token)
	return nil
}

// VerificationNotifierFunc adapts a function into a VerificationNotifier
type VerificationNotifierFunc func(ctx context.Context, user *User, token string) error

func (f VerificationNotifierFunc) NotifyVerification(ctx context.Context, user *User, token string) error {
	if f == nil {
		return nil
	}
	return f(ctx, user, token)
}
