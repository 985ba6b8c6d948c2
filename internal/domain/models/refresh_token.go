package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the server-side record of an opaque refresh token.
// Only the sha256 hash is stored; the plain value goes to the client
// once and is never persisted. The hash is unique across all users.
// A user may hold several concurrent tokens, one per device/session.
type RefreshToken struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Age returns how long ago the token was created.
func (t *RefreshToken) Age(now time.Time) time.Duration {
	return now.Sub(t.CreatedAt)
}

// IsExpired reports whether the token is past its expiry.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
