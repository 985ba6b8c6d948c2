package repository

import (
	"context"

	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
)

// BlacklistedTokenRepository is the revocation registry consulted on
// every authenticated request.
type BlacklistedTokenRepository interface {
	// Create inserts a revocation record. Inserting an already
	// blacklisted jti is a no-op, not an error.
	Create(ctx context.Context, token *models.BlacklistedToken) error

	Exists(ctx context.Context, jti string) (bool, error)

	// DeleteExpired purges entries whose mirrored access-token expiry
	// has passed.
	DeleteExpired(ctx context.Context) (int64, error)
}
