package auth

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements PasswordHasher with bcrypt. Salts are random per hash.
type BcryptHasher struct {
	cost int
}

var _ PasswordHasher = BcryptHasher{}

// NewBcryptHasher returns a hasher using the given cost, or the package
// default when cost is out of bcrypt's range.
func NewBcryptHasher(cost ...int) BcryptHasher {
	c := passwordHashCost()
	if len(cost) > 0 && cost[0] >= bcrypt.MinCost && cost[0] <= bcrypt.MaxCost {
		c = cost[0]
	}
	return BcryptHasher{cost: c}
}

// Hash will generate a password hash
func (h BcryptHasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrNoEmptyString
	}

	cost := h.cost
	if cost == 0 {
		cost = passwordHashCost()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}

	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided").
			WithTextCode(TextCodeEmptyPassword)
	}

	return string(hash), nil
}

// Verify reports whether plaintext matches hash. Malformed hashes never match.
func (h BcryptHasher) Verify(plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
