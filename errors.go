package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodePasswordsMismatch     = "PASSWORDS_MISMATCH"
	TextCodeCurrentPasswordWrong  = "CURRENT_PASSWORD_INCORRECT"
	TextCodeEmptyPassword         = "EMPTY_PASSWORD"
	TextCodePasswordTooLong       = "PASSWORD_TOO_LONG"
	TextCodeInvalidPayload        = "INVALID_PAYLOAD"
	TextCodeEmailInUse            = "EMAIL_IN_USE"
	TextCodeInvalidCreds          = "INVALID_CREDENTIALS"
	TextCodeEmailNotVerified      = "EMAIL_NOT_VERIFIED"
	TextCodeInvalidVerification   = "INVALID_VERIFICATION_TOKEN"
	TextCodeInvalidToken          = "INVALID_TOKEN"
	TextCodeAccessDenied          = "ACCESS_DENIED"
	TextCodeUserNotFound          = "USER_NOT_FOUND"
	TextCodeMissingSigningKey     = "MISSING_SIGNING_KEY"
	TextCodeInvalidConfiguration  = "INVALID_CONFIGURATION"
	TextCodeUnexpectedServerError = "INTERNAL_ERROR"
)

// ErrPasswordsMismatch is returned when a password and its confirmation differ
var ErrPasswordsMismatch = goerrors.New("Passwords do not match", goerrors.CategoryValidation).
	WithTextCode(TextCodePasswordsMismatch).
	WithCode(goerrors.CodeBadRequest)

// ErrCurrentPasswordIncorrect is returned by password updates with a wrong current password
var ErrCurrentPasswordIncorrect = goerrors.New("Current password is incorrect", goerrors.CategoryValidation).
	WithTextCode(TextCodeCurrentPasswordWrong).
	WithCode(goerrors.CodeBadRequest)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrPasswordTooLong is returned when a password exceeds bcrypt's 72 byte input
var ErrPasswordTooLong = goerrors.New("password must not exceed 72 bytes", goerrors.CategoryValidation).
	WithTextCode(TextCodePasswordTooLong).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidPayload is returned when a request payload fails field validation
var ErrInvalidPayload = goerrors.New("Invalid request payload", goerrors.CategoryBadInput).
	WithTextCode(TextCodeInvalidPayload).
	WithCode(goerrors.CodeBadRequest)

// ErrEmailInUse is returned when signing up with a registered email
var ErrEmailInUse = goerrors.New("Email already in use", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailInUse).
	WithCode(goerrors.CodeConflict)

// ErrInvalidCredentials is shared by the unknown email and wrong password
// branches of login so callers cannot tell them apart.
var ErrInvalidCredentials = goerrors.New("Invalid email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrEmailNotVerified is returned for identities that did not confirm their email
var ErrEmailNotVerified = goerrors.New("Email not verified", goerrors.CategoryAuth).
	WithTextCode(TextCodeEmailNotVerified).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidVerificationToken covers every email verification failure.
var ErrInvalidVerificationToken = goerrors.New("Invalid or expired verification token", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidVerification).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidToken is returned by the token codec for bad, malformed or expired tokens
var ErrInvalidToken = goerrors.New("Invalid or expired token", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccessDenied is returned when the guard chain denies an operation
var ErrAccessDenied = goerrors.New("Forbidden resource", goerrors.CategoryAuthz).
	WithTextCode(TextCodeAccessDenied).
	WithCode(goerrors.CodeForbidden)

// ErrUserNotFound is returned by id lookups that miss
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrMissingSigningKey is returned when the token codec has no key
var ErrMissingSigningKey = goerrors.New("signing key is required", goerrors.CategoryValidation).
	WithTextCode(TextCodeMissingSigningKey)

// AsRichError returns err as a *goerrors.Error, wrapping unknown errors as internal.
func AsRichError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
		WithTextCode(TextCodeUnexpectedServerError).
		WithCode(goerrors.CodeInternal)
}
