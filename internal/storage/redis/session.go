// Package redis implements the session-scoped state stores on Redis:
// session-token resolution and the pending discount code.
package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/topzone/storefront/internal/domain/auth"
	"github.com/topzone/storefront/internal/domain/discount"
)

const (
	sessionKeyPrefix = "session:"
	codeKeyPrefix    = "cart:code:"

	defaultCodeTTL = 24 * time.Hour
)

var (
	_ auth.SessionResolver = (*SessionStore)(nil)
	_ discount.Store       = (*SessionStore)(nil)
)

// SessionStore reads session bindings written by the external auth layer
// and keeps per-session checkout state.
type SessionStore struct {
	client  *goredis.Client
	codeTTL time.Duration
}

// NewSessionStore creates a SessionStore on the given client. A zero
// codeTTL falls back to 24h.
func NewSessionStore(client *goredis.Client, codeTTL time.Duration) *SessionStore {
	if codeTTL <= 0 {
		codeTTL = defaultCodeTTL
	}
	return &SessionStore{client: client, codeTTL: codeTTL}
}

// ResolveUser maps a session token to the authenticated user id. Returns
// auth.ErrUnknownSession when the token has no binding.
func (s *SessionStore) ResolveUser(ctx context.Context, token string) (int64, error) {
	val, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, auth.ErrUnknownSession
	}
	if err != nil {
		return 0, errors.Wrap(err, "resolve session")
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed session binding for token %q", token)
	}
	return userID, nil
}

// Pending returns the session's pending discount code, "" when none is set.
func (s *SessionStore) Pending(ctx context.Context, token string) (string, error) {
	code, err := s.client.Get(ctx, codeKeyPrefix+token).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "get pending code")
	}
	return code, nil
}

// SetPending stores the session's pending discount code with a TTL so
// abandoned carts do not accumulate state.
func (s *SessionStore) SetPending(ctx context.Context, token, code string) error {
	if err := s.client.Set(ctx, codeKeyPrefix+token, code, s.codeTTL).Err(); err != nil {
		return errors.Wrap(err, "set pending code")
	}
	return nil
}

// ClearPending removes the session's pending discount code.
func (s *SessionStore) ClearPending(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, codeKeyPrefix+token).Err(); err != nil {
		return errors.Wrap(err, "clear pending code")
	}
	return nil
}

// Ping checks connectivity for readiness probes.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
