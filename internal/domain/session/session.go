// Package session carries the authenticated principal through a request.
package session

import (
	"context"
	"errors"
	"time"
)

// CookieName is the name of the cookie holding the session token.
const CookieName = "session_token"

// DefaultTTL is how long an issued session stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned by a Codec when a token cannot be resolved.
var ErrInvalidToken = errors.New("invalid session token")

// Codec turns a user id into an opaque session token and back.
type Codec interface {
	Issue(userID string) (string, error)
	Resolve(token string) (string, error)
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored in ctx, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, false
	}
	return p, true
}

// UserID returns the authenticated user id from ctx or an empty string.
func UserID(ctx context.Context) string {
	p, _ := PrincipalFromContext(ctx)
	return p.UserID
}
