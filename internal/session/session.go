package session

import (
	"context"
	"time"
)

// Session is the read-only identity handed to the storefront components.
// Only the login/logout flow writes it; everything else treats it as
// configuration.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Authenticated reports whether the session carries a user identity.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// Store persists sessions keyed by an opaque token.
type Store interface {
	Save(ctx context.Context, token string, sess Session, ttl time.Duration) error
	Load(ctx context.Context, token string) (Session, error)
	Clear(ctx context.Context, token string) error
}
