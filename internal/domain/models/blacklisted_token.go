package models

import (
	"time"

	"github.com/google/uuid"
)

// BlacklistedToken revokes one access token by its jti before its
// natural expiry. ExpiresAt mirrors the access token's own expiry so
// the row can be swept once the token would be rejected anyway.
type BlacklistedToken struct {
	JTI       string    `db:"jti"`
	UserID    uuid.UUID `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
