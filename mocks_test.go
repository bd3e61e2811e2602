package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	auth "github.com/goliatone/go-auth-verify"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

const testSigningKey = "test-signing-key-0123456789"

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*auth.User)
	return created, args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, id uuid.UUID, update auth.UserUpdate) (*auth.User, error) {
	args := m.Called(ctx, id, update)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserStore) List(ctx context.Context) ([]*auth.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*auth.User)
	return users, args.Error(1)
}

// MockLogger implements auth.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, args ...any) {
	m.Called(msg, args)
}

func (m *MockLogger) Info(msg string, args ...any) {
	m.Called(msg, args)
}

func (m *MockLogger) Warn(msg string, args ...any) {
	m.Called(msg, args)
}

func (m *MockLogger) Error(msg string, args ...any) {
	m.Called(msg, args)
}

// testClock is a manually advanced clock shared by the codec and service
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return newTestClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
}

func newTestClockAt(now time.Time) *testClock {
	return &testClock{now: now}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// capturingNotifier records the verification tokens it receives
type capturingNotifier struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newCapturingNotifier() *capturingNotifier {
	return &capturingNotifier{tokens: map[string]string{}}
}

func (n *capturingNotifier) NotifyVerification(ctx context.Context, user *auth.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens[user.Email] = token
	return nil
}

func (n *capturingNotifier) TokenFor(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tokens[email]
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db := newBareDB(t)
	require.NoError(t, auth.CreateSchema(context.Background(), db))
	return db
}

type testEnv struct {
	clock    *testClock
	store    auth.UserStore
	repos    auth.RepositoryManager
	codec    *auth.JWTCodec
	notifier *capturingNotifier
	service  *auth.SessionService
	guard    *auth.GuardChain
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvAt(t, newTestClock())
}

func newTestEnvAt(t *testing.T, clock *testClock) *testEnv {
	t.Helper()

	repos := auth.NewRepositoryManager(newTestDB(t), auth.WithUsersClock(clock.Now))
	store := repos.Users()

	codec, err := auth.NewJWTCodec(
		[]byte(testSigningKey),
		auth.WithCodecClock(clock.Now),
		auth.WithCodecLogger(auth.NoopLogger()),
	)
	require.NoError(t, err)

	notifier := newCapturingNotifier()

	service := auth.NewSessionService(
		store,
		auth.NewBcryptHasher(4),
		codec,
		auth.WithClock(clock.Now),
		auth.WithTxRunner(repos),
		auth.WithNotifier(notifier),
		auth.WithSessionLogger(auth.NoopLogger()),
	)

	return &testEnv{
		clock:    clock,
		store:    store,
		repos:    repos,
		codec:    codec,
		notifier: notifier,
		service:  service,
		guard:    auth.NewGuardChain(codec, store, auth.NoopLogger()),
	}
}

// signupAndVerify creates a verified account and returns its session token
func (e *testEnv) signupAndVerify(t *testing.T, name, email, password string) *auth.AuthResponse {
	t.Helper()
	ctx := context.Background()

	_, err := e.service.Signup(ctx, auth.SignupInput{
		Name:            name,
		Email:           email,
		Password:        password,
		PasswordConfirm: password,
	})
	require.NoError(t, err)

	res, err := e.service.VerifyEmail(ctx, e.notifier.TokenFor(email))
	require.NoError(t, err)
	return res
}

// promote grants roles directly through the store
func (e *testEnv) promote(t *testing.T, id uuid.UUID, roles ...auth.Role) *auth.User {
	t.Helper()
	user, err := e.store.Update(context.Background(), id, auth.UserUpdate{Roles: roles})
	require.NoError(t, err)
	return user
}
