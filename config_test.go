package auth_test

import (
	"testing"
	"time"

	auth "github.com/goliatone/go-auth-verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptionsFrom_Defaults(t *testing.T) {
	opts, err := auth.LoadOptionsFrom(map[string]string{"JWT_SECRET": "secret"})
	require.NoError(t, err)

	assert.Equal(t, "secret", opts.GetSigningKey())
	assert.Equal(t, 60*time.Minute, opts.GetTokenExpiration())
	assert.Equal(t, 7*24*time.Hour, opts.GetCookieExpiration())
	assert.Equal(t, auth.DefaultCookieName, opts.GetCookieName())
	assert.False(t, opts.IsProduction())
	assert.Empty(t, opts.GetIssuer())
	assert.Empty(t, opts.GetAudience())
	assert.Equal(t, ":3000", opts.Address)
	assert.Equal(t, "info", opts.LogLevel)
}

func TestLoadOptionsFrom_Overrides(t *testing.T) {
	opts, err := auth.LoadOptionsFrom(map[string]string{
		"JWT_SECRET":            "secret",
		"JWT_EXPIRES_IN":        "2h",
		"JWT_COOKIE_EXPIRES_IN": "30",
		"JWT_ISSUER":            "issuer",
		"JWT_AUDIENCE":          "web,mobile",
		"NODE_ENV":              "production",
		"HTTP_ADDR":             ":8080",
		"LOG_LEVEL":             "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, opts.GetTokenExpiration())
	assert.Equal(t, 30*24*time.Hour, opts.GetCookieExpiration())
	assert.Equal(t, "issuer", opts.GetIssuer())
	assert.Equal(t, []string{"web", "mobile"}, opts.GetAudience())
	assert.True(t, opts.IsProduction())
	assert.Equal(t, ":8080", opts.Address)
}

func TestLoadOptionsFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{name: "missing secret", vars: map[string]string{}},
		{name: "bad duration", vars: map[string]string{"JWT_SECRET": "s", "JWT_EXPIRES_IN": "soon"}},
		{name: "admin without password", vars: map[string]string{"JWT_SECRET": "s", "AUTH_ADMIN_EMAIL": "root@example.com"}},
		{name: "admin bad email", vars: map[string]string{"JWT_SECRET": "s", "AUTH_ADMIN_EMAIL": "root", "AUTH_ADMIN_PASSWORD": "password123"}},
		{name: "unknown duration unit", vars: map[string]string{"JWT_SECRET": "s", "JWT_EXPIRES_IN": "7fortnights"}},
		{name: "negative duration", vars: map[string]string{"JWT_SECRET": "s", "JWT_EXPIRES_IN": "-5m"}},
		{name: "zero cookie days", vars: map[string]string{"JWT_SECRET": "s", "JWT_COOKIE_EXPIRES_IN": "0"}},
		{name: "unknown log level", vars: map[string]string{"JWT_SECRET": "s", "LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := auth.LoadOptionsFrom(tt.vars)
			assert.Nil(t, opts)
			require.Error(t, err)
			assert.Equal(t, auth.TextCodeInvalidConfiguration, auth.AsRichError(err).TextCode)
		})
	}
}

func TestLoadOptionsFrom_TokenExpirationFormats(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
	}{
		{value: "7d", expected: 7 * 24 * time.Hour},
		{value: "2 days", expected: 48 * time.Hour},
		{value: "1w", expected: 7 * 24 * time.Hour},
		{value: "90m", expected: 90 * time.Minute},
		{value: "1.5h", expected: 90 * time.Minute},
		{value: "12H", expected: 12 * time.Hour},
		{value: "3600", expected: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			opts, err := auth.LoadOptionsFrom(map[string]string{
				"JWT_SECRET":     "secret",
				"JWT_EXPIRES_IN": tt.value,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, opts.GetTokenExpiration())
		})
	}
}

func TestParseTokenDuration(t *testing.T) {
	d, err := auth.ParseTokenDuration("  ")
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = auth.ParseTokenDuration("30 seconds")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d.Duration())

	_, err = auth.ParseTokenDuration("soon")
	assert.Error(t, err)
}

func TestOptions_Admin(t *testing.T) {
	opts, err := auth.LoadOptionsFrom(map[string]string{"JWT_SECRET": "secret"})
	require.NoError(t, err)
	_, ok := opts.Admin()
	assert.False(t, ok)
	assert.Equal(t, 5*time.Second, opts.DatabasePingTimeout)

	opts, err = auth.LoadOptionsFrom(map[string]string{
		"JWT_SECRET":          "secret",
		"AUTH_ADMIN_EMAIL":    "root@example.com",
		"AUTH_ADMIN_PASSWORD": "password123",
	})
	require.NoError(t, err)

	admin, ok := opts.Admin()
	require.True(t, ok)
	assert.Equal(t, auth.AdminInput{Name: "Administrator", Email: "root@example.com", Password: "password123"}, admin)
}
