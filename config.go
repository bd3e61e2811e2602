package auth

import (
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

const (
	// DefaultCookieName is the session cookie name. Clients depend on it.
	DefaultCookieName = "airbnbCloneJWT"
	// DefaultCookieExpirationDays is used when JWT_COOKIE_EXPIRES_IN is unset
	DefaultCookieExpirationDays = 7
	// EnvironmentProduction enables secure cookies
	EnvironmentProduction = "production"
)

// Options is the environment backed configuration
type Options struct {
	SigningKey           string        `env:"JWT_SECRET"`
	TokenExpiration      TokenDuration `env:"JWT_EXPIRES_IN" envDefault:"60m"`
	CookieExpirationDays int           `env:"JWT_COOKIE_EXPIRES_IN" envDefault:"7"`
	CookieName           string        `env:"AUTH_COOKIE_NAME" envDefault:"airbnbCloneJWT"`
	Issuer               string        `env:"JWT_ISSUER"`
	Audience             []string      `env:"JWT_AUDIENCE" envSeparator:","`
	Environment          string        `env:"NODE_ENV" envDefault:"development"`
	DatabaseDSN          string        `env:"DATABASE_DSN" envDefault:"file:auth.db?cache=shared"`
	Address              string        `env:"HTTP_ADDR" envDefault:":3000"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseDebug        bool          `env:"DATABASE_DEBUG"`
	DatabasePingTimeout  time.Duration `env:"DATABASE_PING_TIMEOUT" envDefault:"5s"`
	FixturesDir          string        `env:"DATABASE_FIXTURES_DIR"`
	AdminName            string        `env:"AUTH_ADMIN_NAME" envDefault:"Administrator"`
	AdminEmail           string        `env:"AUTH_ADMIN_EMAIL"`
	AdminPassword        string        `env:"AUTH_ADMIN_PASSWORD"`
}

var _ Config = (*Options)(nil)

// LoadOptions parses the process environment
func LoadOptions() (*Options, error) {
	return LoadOptionsFrom(nil)
}

// LoadOptionsFrom parses the given variables, or the process environment
// when vars is nil.
func LoadOptionsFrom(vars map[string]string) (*Options, error) {
	opts := &Options{}

	parseOpts := env.Options{}
	if vars != nil {
		parseOpts.Environment = vars
	}

	if err := env.ParseWithOptions(opts, parseOpts); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "failed to parse auth options").
			WithTextCode(TextCodeInvalidConfiguration)
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return opts, nil
}

// Validate will validate the options
func (o Options) Validate() error {
	var adminPassword []validation.Rule
	if o.AdminEmail != "" {
		adminPassword = append(adminPassword, validation.Required)
	}

	err := validation.ValidateStruct(&o,
		validation.Field(&o.SigningKey, validation.Required),
		validation.Field(&o.TokenExpiration, validation.Required, validation.Min(TokenDuration(time.Second))),
		validation.Field(&o.CookieExpirationDays, validation.Required, validation.Min(1)),
		validation.Field(&o.CookieName, validation.Required),
		validation.Field(&o.DatabaseDSN, validation.Required),
		validation.Field(&o.Address, validation.Required),
		validation.Field(&o.LogLevel, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&o.AdminEmail, is.Email),
		validation.Field(&o.AdminPassword, adminPassword...),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid auth options").
			WithTextCode(TextCodeInvalidConfiguration)
	}
	return nil
}

func (o Options) GetSigningKey() string {
	return o.SigningKey
}

func (o Options) GetTokenExpiration() time.Duration {
	if o.TokenExpiration <= 0 {
		return DefaultSessionTTL
	}
	return o.TokenExpiration.Duration()
}

func (o Options) GetCookieName() string {
	if o.CookieName == "" {
		return DefaultCookieName
	}
	return o.CookieName
}

func (o Options) GetCookieExpiration() time.Duration {
	days := o.CookieExpirationDays
	if days <= 0 {
		days = DefaultCookieExpirationDays
	}
	return time.Duration(days) * 24 * time.Hour
}

func (o Options) GetIssuer() string {
	return o.Issuer
}

func (o Options) GetAudience() []string {
	return o.Audience
}

func (o Options) IsProduction() bool {
	return o.Environment == EnvironmentProduction
}

// Admin returns the operator account to bootstrap, if one is configured
func (o Options) Admin() (AdminInput, bool) {
	if o.AdminEmail == "" {
		return AdminInput{}, false
	}
	return AdminInput{
		Name:     o.AdminName,
		Email:    o.AdminEmail,
		Password: o.AdminPassword,
	}, true
}
