// Package auth provides email/password authentication with time boxed email
// verification, JWT session tokens carried in an HTTP only cookie, and a
// guard chain enforcing verified email and role requirements per operation.
//
// Session lifecycle:
//   - SessionService.Signup stores an unverified User with a 15 minute
//     verification window and hands a role-less verification token to a
//     VerificationNotifier. Nothing identifying the account is returned.
//   - SessionService.VerifyEmail consumes the token once. Every failure,
//     including an expired window (which deletes the abandoned account),
//     surfaces as ErrInvalidVerificationToken.
//   - SessionService.Login and UpdatePassword issue session tokens carrying
//     the user's roles. A password change does not revoke earlier tokens.
//
// Guard chain:
//   - Each operation declares a Capability (public, required roles, verified
//     email). GuardChain.Admit resolves the identity from the session token
//     and returns it as an AuthResult that handlers receive explicitly.
//
// Wiring:
//   - RegisterRoutes mounts the HTTPController operations on any go-router
//     router, and CookieTransport sets and clears the session cookie.
//   - NewUsersRepository implements UserStore over a go-repository-bun
//     repository. RepositoryManager binds it to a transaction so the read
//     then write steps of each operation commit together.
//   - GetMigrationsFS holds the SQL migrations for the users table.
package auth
