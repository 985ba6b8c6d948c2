package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
)

// OtpCodeRepository persists one-time codes.
type OtpCodeRepository interface {
	// Create stores a freshly issued code.
	Create(ctx context.Context, code *models.OtpCode) error

	// FindLatestByPhone returns the most recently created code for a
	// phone number regardless of its state, or ErrOtpNotFound.
	FindLatestByPhone(ctx context.Context, phoneNumber string) (*models.OtpCode, error)

	// MarkConsumed sets consumed_at in a single conditional update.
	// Returns ErrOtpAlreadyConsumed when the row was consumed (or
	// expired) between read and update.
	MarkConsumed(ctx context.Context, id uuid.UUID, consumedAt time.Time) error

	// ConsumeActiveByPhone invalidates any still-active codes for the
	// phone, so only the newest issued code can verify.
	ConsumeActiveByPhone(ctx context.Context, phoneNumber string, consumedAt time.Time) error

	// DeleteExpired removes codes past their expiry, returning the count.
	DeleteExpired(ctx context.Context) (int64, error)
}
