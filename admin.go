package auth

import (
	"context"
	"slices"

	goerrors "github.com/goliatone/go-errors"
)

// AdminInput describes the operator account created at startup
type AdminInput struct {
	Name     string
	Email    string
	Password string
}

// BootstrapAdmin makes sure an admin account exists for input.Email. A new
// account is created verified with the user and admin roles. An existing
// account keeps its password and verification state and gains the admin
// role when it lacks it.
func (s *SessionService) BootstrapAdmin(ctx context.Context, input AdminInput) (*User, error) {
	if err := contextDone(ctx, "bootstrap admin"); err != nil {
		return nil, err
	}

	payload := SignupPayload{
		Name:            input.Name,
		Email:           input.Email,
		Password:        input.Password,
		PasswordConfirm: input.Password,
	}
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid admin account").
			WithTextCode(TextCodeInvalidPayload).
			WithCode(goerrors.CodeBadRequest)
	}

	var admin *User
	err := s.tx.RunInTx(ctx, nil, func(ctx context.Context, users UserStore) error {
		existing, err := users.FindByEmail(ctx, input.Email)
		if err != nil {
			return err
		}

		if existing != nil {
			admin = existing
			if existing.HasRole(RoleAdmin) {
				return nil
			}
			roles := append(slices.Clone(existing.Roles), RoleAdmin)
			admin, err = users.Update(ctx, existing.ID, UserUpdate{Roles: roles})
			return err
		}

		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return err
		}

		admin, err = users.Create(ctx, &User{
			Name:            input.Name,
			Email:           input.Email,
			PasswordHash:    hash,
			Roles:           []Role{RoleUser, RoleAdmin},
			IsEmailVerified: true,
			CreatedAt:       s.now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin account ready", "user_id", admin.ID.String())

	return admin, nil
}
