package auth

import (
	"net/http"
	"time"

	"github.com/goliatone/go-router"
)

// CookieTransport carries the session token in an HTTP only cookie.
// Name, path and flags must stay stable so existing sessions keep working.
type CookieTransport struct {
	name       string
	expiration time.Duration
	secure     bool
	now        func() time.Time
}

// NewCookieTransport creates a transport from Config
func NewCookieTransport(cfg Config) *CookieTransport {
	return &CookieTransport{
		name:       cfg.GetCookieName(),
		expiration: cfg.GetCookieExpiration(),
		secure:     cfg.IsProduction(),
		now:        time.Now,
	}
}

// Name returns the cookie name
func (t *CookieTransport) Name() string {
	return t.name
}

// Token returns the session token sent by the client, if any
func (t *CookieTransport) Token(c router.Context) string {
	raw := c.Header("Cookie")
	if raw == "" {
		return ""
	}

	// router.Context only exposes raw headers
	req := &http.Request{Header: http.Header{"Cookie": []string{raw}}}
	cookie, err := req.Cookie(t.name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetToken attaches the session token to the response
func (t *CookieTransport) SetToken(c router.Context, token string) {
	c.SetHeader("Set-Cookie", t.cookie(token, t.now().Add(t.expiration), 0).String())
}

// Clear expires the session cookie using the same path and flags it was set with
func (t *CookieTransport) Clear(c router.Context) {
	c.SetHeader("Set-Cookie", t.cookie("", time.Unix(0, 0), -1).String())
}

func (t *CookieTransport) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     t.name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
