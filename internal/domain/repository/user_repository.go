package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
)

// UserRepository persists user accounts keyed by phone number.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLoginAt time.Time) error
}
