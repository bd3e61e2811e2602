package auth

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365*day + 6*time.Hour
)

var durationUnits = map[string]time.Duration{
	"ms": time.Millisecond, "msec": time.Millisecond, "msecs": time.Millisecond,
	"millisecond": time.Millisecond, "milliseconds": time.Millisecond,
	"s": time.Second, "sec": time.Second, "secs": time.Second,
	"second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute,
	"minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour,
	"hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": week, "week": week, "weeks": week,
	"y": year, "yr": year, "yrs": year, "year": year, "years": year,
}

var durationPattern = regexp.MustCompile(`^(\d*\.?\d+)\s*([a-z]*)$`)

// TokenDuration is a token lifetime read from configuration. Besides Go
// durations ("90m", "2h30m") it accepts the single unit spans used by
// jsonwebtoken style settings ("7d", "2 weeks", "1.5h"). A bare number is
// a count of seconds.
type TokenDuration time.Duration

// ParseTokenDuration parses a token lifetime
func ParseTokenDuration(value string) (TokenDuration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	if d, err := time.ParseDuration(value); err == nil {
		return TokenDuration(d), nil
	}

	match := durationPattern.FindStringSubmatch(strings.ToLower(value))
	if match == nil {
		return 0, fmt.Errorf("invalid token duration %q", value)
	}

	n, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token duration %q: %w", value, err)
	}

	unit := time.Second
	if match[2] != "" {
		var ok bool
		if unit, ok = durationUnits[match[2]]; !ok {
			return 0, fmt.Errorf("unknown unit %q in token duration %q", match[2], value)
		}
	}

	return TokenDuration(n * float64(unit)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *TokenDuration) UnmarshalText(text []byte) error {
	parsed, err := ParseTokenDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Duration returns the value as a time.Duration
func (d TokenDuration) Duration() time.Duration {
	return time.Duration(d)
}

func (d TokenDuration) String() string {
	return time.Duration(d).String()
}
