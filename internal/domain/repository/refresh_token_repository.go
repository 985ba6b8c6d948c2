package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
)

// RefreshTokenRepository persists refresh-token records. Lookups are
// by hash; the plain opaque value never reaches the store.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error

	// FindByTokenHash returns the record whatever its expiry state.
	// Expiry handling belongs to the caller, which deletes stale rows
	// eagerly on detection.
	FindByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)

	// Rotate atomically inserts the replacement and deletes the old
	// record, in that order, inside one transaction.
	Rotate(ctx context.Context, oldID uuid.UUID, replacement *models.RefreshToken) error

	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeleteByUserID removes every token the user holds and returns
	// how many were deleted.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	DeleteExpired(ctx context.Context) (int64, error)
}
