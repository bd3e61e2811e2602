package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// JWTCodec implements TokenCodec with HMAC signed JWTs
type JWTCodec struct {
	signingKey []byte
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
	now        func() time.Time
}

var (
	_ TokenCodec            = (*JWTCodec)(nil)
	_ ExpiredTokenInspector = (*JWTCodec)(nil)
)

// CodecOption configures a JWTCodec
type CodecOption func(*JWTCodec)

// WithCodecIssuer sets the iss claim and requires it on verification
func WithCodecIssuer(issuer string) CodecOption {
	return func(c *JWTCodec) {
		c.issuer = issuer
	}
}

// WithCodecAudience sets the aud claim and requires it on verification
func WithCodecAudience(audience ...string) CodecOption {
	return func(c *JWTCodec) {
		c.audience = append(jwt.ClaimStrings(nil), audience...)
	}
}

// WithCodecLogger sets the logger
func WithCodecLogger(logger Logger) CodecOption {
	return func(c *JWTCodec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCodecClock overrides the clock used for iat, exp and expiry checks
func WithCodecClock(now func() time.Time) CodecOption {
	return func(c *JWTCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewJWTCodec creates a codec signing with HS256
func NewJWTCodec(signingKey []byte, opts ...CodecOption) (*JWTCodec, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	c := &JWTCodec{
		signingKey: signingKey,
		logger:     defLogger{},
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c, nil
}

// NewJWTCodecFromConfig creates a codec from Config values
func NewJWTCodecFromConfig(cfg Config, opts ...CodecOption) (*JWTCodec, error) {
	base := []CodecOption{
		WithCodecIssuer(cfg.GetIssuer()),
		WithCodecAudience(cfg.GetAudience()...),
	}
	return NewJWTCodec([]byte(cfg.GetSigningKey()), append(base, opts...)...)
}

// Sign embeds iat and exp computed from ttl and signs the claims
func (c *JWTCodec) Sign(claims SessionClaims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", goerrors.New("token TTL must be positive", goerrors.CategoryBadInput)
	}

	now := c.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.ID = uuid.NewString()

	if c.issuer != "" {
		claims.Issuer = c.issuer
	}

	if len(c.audience) > 0 {
		claims.Audience = append(jwt.ClaimStrings(nil), c.audience...)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)

	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// Verify parses the token and returns its claims. Any failure, including
// an expired token, yields ErrInvalidToken.
func (c *JWTCodec) Verify(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	}

	if c.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(c.issuer))
	}

	if len(c.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(c.audience[0]))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.signingKey, nil
	}, parserOptions...)

	if err != nil {
		c.logger.Debug("token verification failed", "error", err)
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		c.logger.Debug("token verification could not decode claims")
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// InspectExpired returns the claims of a correctly signed token without
// checking exp. The result must never be used to authenticate.
func (c *JWTCodec) InspectExpired(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
