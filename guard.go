package auth

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

// Capability describes what an operation requires from the caller.
type Capability struct {
	// Public operations skip every other check
	Public bool
	// RequiredRoles admits callers holding any of the roles. Empty means no
	// role requirement.
	RequiredRoles []Role
	// RequiresVerified rejects identities that did not confirm their email
	RequiresVerified bool
}

// PublicOperation is the capability of operations open to anyone
func PublicOperation() Capability {
	return Capability{Public: true}
}

// VerifiedOperation is the capability of operations requiring a verified identity
func VerifiedOperation() Capability {
	return Capability{RequiresVerified: true}
}

// RoleOperation is the capability of operations restricted to roles
func RoleOperation(roles ...Role) Capability {
	return Capability{RequiredRoles: roles}
}

// AuthResult is the identity resolved for a request. The zero value is an
// unauthenticated caller.
type AuthResult struct {
	User   *User
	Claims *SessionClaims
}

// Authenticated reports whether an identity was resolved
func (r AuthResult) Authenticated() bool {
	return r.User != nil
}

// HasAnyRole reports whether the identity holds one of the roles
func (r AuthResult) HasAnyRole(roles ...Role) bool {
	if r.User == nil {
		return false
	}
	for _, role := range roles {
		if slices.Contains(r.User.Roles, role) {
			return true
		}
	}
	return false
}

// GuardChain runs the ordered authorization checks for an operation:
// public bypass, authentication, identity load, verified email and roles.
type GuardChain struct {
	codec  TokenCodec
	store  UserStore
	logger Logger
}

// NewGuardChain creates a guard chain resolving identities through codec and store
func NewGuardChain(codec TokenCodec, store UserStore, logger ...Logger) *GuardChain {
	g := &GuardChain{
		codec:  codec,
		store:  store,
		logger: defLogger{},
	}
	if len(logger) > 0 && logger[0] != nil {
		g.logger = logger[0]
	}
	return g
}

// Resolve turns a session token into an identity. It never fails: a
// missing, invalid or expired token, or a deleted user, resolve to the
// unauthenticated result.
func (g *GuardChain) Resolve(ctx context.Context, token string) AuthResult {
	if token == "" {
		return AuthResult{}
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		return AuthResult{}
	}

	if claims.Purpose != PurposeSession {
		g.logger.Debug("guard rejected token purpose", "purpose", string(claims.Purpose))
		return AuthResult{}
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return AuthResult{}
	}

	user, err := g.store.FindByID(ctx, id)
	if err != nil || user == nil {
		g.logger.Debug("guard could not load identity", "user_id", id.String(), "error", err)
		return AuthResult{}
	}

	return AuthResult{User: user, Claims: claims}
}

// Admit runs the chain for an operation and returns the resolved identity
// when the operation may proceed.
func (g *GuardChain) Admit(ctx context.Context, capability Capability, token string) (AuthResult, error) {
	if capability.Public {
		return AuthResult{}, nil
	}

	result := g.Resolve(ctx, token)

	if capability.RequiresVerified {
		if !result.Authenticated() {
			return AuthResult{}, ErrAccessDenied
		}
		if !result.User.IsEmailVerified {
			return AuthResult{}, ErrEmailNotVerified
		}
	}

	if len(capability.RequiredRoles) > 0 && !result.HasAnyRole(capability.RequiredRoles...) {
		return AuthResult{}, ErrAccessDenied
	}

	return result, nil
}
