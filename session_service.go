package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

const (
	// DefaultVerificationTTL is how long a new account has to confirm its email
	DefaultVerificationTTL = 15 * time.Minute
	// DefaultSessionTTL is the session token lifetime when none is configured
	DefaultSessionTTL = 60 * time.Minute
	// SignupMessage acknowledges a signup without revealing the new account
	SignupMessage = "Please check your email for verification link"
)

// SignupInput holds signup values
type SignupInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// UpdatePasswordInput holds password change values
type UpdatePasswordInput struct {
	CurrentPassword string
	Password        string
	PasswordConfirm string
}

// SignupResult is the only thing a signup returns
type SignupResult struct {
	Message string `json:"message"`
}

// AuthResponse carries a freshly issued session token and the user it belongs to
type AuthResponse struct {
	Token string `json:"-"`
	User  *User  `json:"user"`
}

// SessionService runs signup, email verification, login and password change.
type SessionService struct {
	store           UserStore
	tx              TxRunner
	hasher          PasswordHasher
	codec           TokenCodec
	notifier        VerificationNotifier
	logger          Logger
	now             func() time.Time
	sessionTTL      time.Duration
	verificationTTL time.Duration
}

// SessionOption configures a SessionService
type SessionOption func(*SessionService)

// WithSessionLogger sets the logger
func WithSessionLogger(logger Logger) SessionOption {
	return func(s *SessionService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNotifier sets the collaborator receiving verification tokens
func WithNotifier(notifier VerificationNotifier) SessionOption {
	return func(s *SessionService) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithTxRunner runs the read then write steps of signup, verification and
// password change inside one transaction. Without it they run directly
// against the store.
func WithTxRunner(runner TxRunner) SessionOption {
	return func(s *SessionService) {
		if runner != nil {
			s.tx = runner
		}
	}
}

// WithClock overrides the clock used for verification windows
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionTTL sets the session token lifetime
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(s *SessionService) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithVerificationTTL sets the verification window and token lifetime
func WithVerificationTTL(ttl time.Duration) SessionOption {
	return func(s *SessionService) {
		if ttl > 0 {
			s.verificationTTL = ttl
		}
	}
}

// NewSessionService wires the service with its collaborators
func NewSessionService(store UserStore, hasher PasswordHasher, codec TokenCodec, opts ...SessionOption) *SessionService {
	s := &SessionService{
		store:           store,
		hasher:          hasher,
		codec:           codec,
		logger:          defLogger{},
		now:             time.Now,
		sessionTTL:      DefaultSessionTTL,
		verificationTTL: DefaultVerificationTTL,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.notifier == nil {
		s.notifier = LogNotifier{Logger: s.logger}
	}

	if s.tx == nil {
		s.tx = directRunner(store)
	}

	return s
}

// Signup creates an unverified account and hands a verification token to the
// notifier. The response never contains the token or the user.
func (s *SessionService) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	if err := contextDone(ctx, "signup"); err != nil {
		return nil, err
	}

	// checked before touching the store
	if input.Password != input.PasswordConfirm {
		return nil, ErrPasswordsMismatch
	}

	var user *User
	err := s.tx.RunInTx(ctx, nil, func(ctx context.Context, users UserStore) error {
		existing, err := users.FindByEmail(ctx, input.Email)
		if err != nil {
			return err
		}

		if existing != nil {
			return ErrEmailInUse
		}

		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return err
		}

		// jwt exp has second precision, the window must not outlive it
		now := s.now()
		expires := now.Add(s.verificationTTL).Truncate(time.Second)
		user, err = users.Create(ctx, &User{
			Name:                     input.Name,
			Email:                    input.Email,
			PasswordHash:             hash,
			Roles:                    DefaultRoles(),
			IsEmailVerified:          false,
			EmailVerificationExpires: &expires,
			CreatedAt:                now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	token, err := s.codec.Sign(verificationClaimsFor(user), s.verificationTTL)
	if err != nil {
		s.discard(ctx, user)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue verification token")
	}

	if err := s.notifier.NotifyVerification(ctx, user, token); err != nil {
		s.discard(ctx, user)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to deliver verification token")
	}

	s.logger.Info("user signed up", "user_id", user.ID.String())

	return &SignupResult{Message: SignupMessage}, nil
}

// VerifyEmail consumes a verification token. Every failure is reported as
// ErrInvalidVerificationToken.
func (s *SessionService) VerifyEmail(ctx context.Context, token string) (*AuthResponse, error) {
	res, reason := s.verifyEmail(ctx, token)
	if reason != "" {
		s.logger.Debug("email verification rejected", "reason", reason)
		return nil, ErrInvalidVerificationToken
	}
	return res, nil
}

func (s *SessionService) verifyEmail(ctx context.Context, token string) (*AuthResponse, string) {
	if err := contextDone(ctx, "verify email"); err != nil {
		return nil, "context done"
	}

	claims, err := s.codec.Verify(token)
	if err != nil {
		s.purgeAbandoned(ctx, token)
		return nil, "token rejected"
	}

	if claims.Purpose != PurposeVerification {
		return nil, "wrong token purpose"
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, "invalid subject"
	}

	var updated *User
	var reason string
	err = s.tx.RunInTx(ctx, nil, func(ctx context.Context, users UserStore) error {
		user, err := users.FindByID(ctx, id)
		if err != nil || user == nil {
			reason = "user not found"
			return nil
		}

		if user.IsEmailVerified {
			reason = "already verified"
			return nil
		}

		if user.VerificationExpired(s.now()) {
			// abandoned signups do not linger
			reason = "verification window expired"
			if err := users.Remove(ctx, user.ID); err != nil {
				s.logger.Error("failed to remove expired signup", "user_id", user.ID.String(), "error", err)
			}
			return nil
		}

		updated, err = users.Update(ctx, user.ID, MarkEmailVerified())
		return err
	})
	if err != nil {
		return nil, "update failed"
	}

	if reason != "" {
		return nil, reason
	}

	sessionToken, err := s.codec.Sign(sessionClaimsFor(updated), s.sessionTTL)
	if err != nil {
		return nil, "session token signing failed"
	}

	s.logger.Info("email verified", "user_id", updated.ID.String())

	return &AuthResponse{Token: sessionToken, User: updated}, ""
}

// Login checks credentials and issues a session token. Unknown email and
// wrong password fail with the same error.
func (s *SessionService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	if err := contextDone(ctx, "login"); err != nil {
		return nil, err
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// distinguishable on purpose: only reachable with valid credentials
	if !user.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}

	token, err := s.codec.Sign(sessionClaimsFor(user), s.sessionTTL)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session token")
	}

	return &AuthResponse{Token: token, User: user}, nil
}

// UpdatePassword replaces the password hash and issues a fresh session
// token. Tokens issued earlier remain valid until they expire.
func (s *SessionService) UpdatePassword(ctx context.Context, userID uuid.UUID, input UpdatePasswordInput) (*AuthResponse, error) {
	if err := contextDone(ctx, "update password"); err != nil {
		return nil, err
	}

	var updated *User
	err := s.tx.RunInTx(ctx, nil, func(ctx context.Context, users UserStore) error {
		user, err := users.FindByID(ctx, userID)
		if err != nil {
			return err
		}

		if !s.hasher.Verify(input.CurrentPassword, user.PasswordHash) {
			return ErrCurrentPasswordIncorrect
		}

		if input.Password != input.PasswordConfirm {
			return ErrPasswordsMismatch
		}

		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return err
		}

		updated, err = users.Update(ctx, user.ID, ReplacePasswordHash(hash))
		return err
	})
	if err != nil {
		return nil, err
	}

	token, err := s.codec.Sign(sessionClaimsFor(updated), s.sessionTTL)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue session token")
	}

	s.logger.Info("password updated", "user_id", updated.ID.String())

	return &AuthResponse{Token: token, User: updated}, nil
}

// ListUsers returns every user record
func (s *SessionService) ListUsers(ctx context.Context) ([]*User, error) {
	if err := contextDone(ctx, "list users"); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

// purgeAbandoned removes the unverified account behind an expired
// verification token. The token exp is authoritative, so an account whose
// token already expired is removed even if its stored window has a
// fraction of a second left.
func (s *SessionService) purgeAbandoned(ctx context.Context, token string) {
	inspector, ok := s.codec.(ExpiredTokenInspector)
	if !ok {
		return
	}

	claims, err := inspector.InspectExpired(token)
	if err != nil || claims.Purpose != PurposeVerification {
		return
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return
	}

	now := s.now()
	tokenExpired := !claims.Expires().IsZero() && !now.Before(claims.Expires())

	var removed bool
	err = s.tx.RunInTx(ctx, nil, func(ctx context.Context, users UserStore) error {
		user, err := users.FindByID(ctx, id)
		if err != nil || user == nil || user.IsEmailVerified {
			return nil
		}

		if !tokenExpired && !user.VerificationExpired(now) {
			return nil
		}

		if err := users.Remove(ctx, user.ID); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		s.logger.Error("failed to remove expired signup", "user_id", id.String(), "error", err)
		return
	}

	if removed {
		s.logger.Info("removed expired signup", "user_id", id.String())
	}
}

func (s *SessionService) discard(ctx context.Context, user *User) {
	if err := s.store.Remove(ctx, user.ID); err != nil {
		s.logger.Error("failed to discard signup", "user_id", user.ID.String(), "error", err)
	}
}

func contextDone(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during "+op)
	default:
		return nil
	}
}
