package ports

import (
	"context"
	"time"
)

// SessionStore is the server-side session slot used by web-flavored
// clients: it maps an opaque session id (carried in a cookie) to the
// encoded session token. Entries expire after their TTL; Get returns
// domain.ErrSessionNotFound for absent or expired slots.
type SessionStore interface {
	Put(ctx context.Context, sessionID, token string, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
