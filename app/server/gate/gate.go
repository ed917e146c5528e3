// Package gate authenticates session tokens and authorizes admin operations.
package gate

import (
	"context"
	"e-voting/app/server/apperr"
	"e-voting/app/server/constants"
	"e-voting/app/server/jwt"
	"fmt"

	"github.com/google/uuid"
)

// Identity is what an authenticated request carries.
type Identity struct {
	UserIdentifier string
	Role           string
	SessionID      uuid.UUID
	Token          string
}

func (i *Identity) IsAdmin() bool {
	return i.Role == constants.RoleAdmin
}

// SessionChecker looks a session up by id and exact token.
type SessionChecker interface {
	IsValid(ctx context.Context, id uuid.UUID, token string) (bool, error)
}

type Gate struct {
	jwt      *jwt.JWT
	sessions SessionChecker
}

func New(j *jwt.JWT, sessions SessionChecker) *Gate {
	return &Gate{jwt: j, sessions: sessions}
}

// Authenticate verifies token and its session. A well-formed, unexpired token
// whose session was revoked fails exactly like a forged one.
func (g *Gate) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", apperr.ErrUnauthenticated)
	}

	user, err := g.jwt.ParseUser(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrUnauthenticated, err)
	}

	valid, err := g.sessions.IsValid(ctx, user.SessionID, token)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !valid {
		return nil, fmt.Errorf("session invalid or not found: %w", apperr.ErrUnauthenticated)
	}

	return &Identity{
		UserIdentifier: user.Identifier,
		Role:           user.Role,
		SessionID:      user.SessionID,
		Token:          token,
	}, nil
}

// RequireAdmin rejects anyone who is not an authenticated admin.
func RequireAdmin(id *Identity) error {
	if id == nil {
		return apperr.ErrUnauthenticated
	}
	if !id.IsAdmin() {
		return apperr.ErrForbidden
	}
	return nil
}
