// Package auth defines the boundary to the external session layer. Sessions
// are issued elsewhere; this service only resolves tokens to users.
package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrUnknownSession is returned when a token does not resolve to a user.
var ErrUnknownSession = errors.New("unknown session")

// SessionResolver resolves a session token to the authenticated user.
type SessionResolver interface {
	ResolveUser(ctx context.Context, token string) (int64, error)
}
