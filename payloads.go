package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer input, measured in bytes
	maxPasswordBytes = 72
)

var passwordMaxBytes = validation.Length(0, maxPasswordBytes).Error("Password must not exceed 72 bytes")

// SignupPayload is the signup request body
type SignupPayload struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"passwordConfirm" form:"passwordConfirm"`
}

// Validate will validate the payload. Password confirmation equality is
// checked by SessionService.
func (r SignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(minPasswordLength, 0), passwordMaxBytes),
		validation.Field(&r.PasswordConfirm, validation.Required, validation.RuneLength(minPasswordLength, 0), passwordMaxBytes),
	)
}

func (r SignupPayload) input() SignupInput {
	return SignupInput{
		Name:            r.Name,
		Email:           r.Email,
		Password:        r.Password,
		PasswordConfirm: r.PasswordConfirm,
	}
}

// VerifyEmailPayload is the email verification request body
type VerifyEmailPayload struct {
	Token string `json:"token" form:"token"`
}

// Validate will validate the payload
func (r VerifyEmailPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
	)
}

// LoginPayload is the login request body
type LoginPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will validate the payload
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// UpdatePasswordPayload is the password change request body
type UpdatePasswordPayload struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"passwordConfirm" form:"passwordConfirm"`
}

// Validate will validate the payload
func (r UpdatePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required.Error("Current password is required")),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(minPasswordLength, 0).Error("Password must be at least 8 characters long"), passwordMaxBytes),
		validation.Field(&r.PasswordConfirm, validation.Required.Error("Password confirmation is required")),
	)
}

func (r UpdatePasswordPayload) input() UpdatePasswordInput {
	return UpdatePasswordInput{
		CurrentPassword: r.CurrentPassword,
		Password:        r.Password,
		PasswordConfirm: r.PasswordConfirm,
	}
}
