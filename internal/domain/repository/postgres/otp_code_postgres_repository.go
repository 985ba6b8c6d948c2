package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/abdur1547/roombridge/services/auth-service/internal/domain/errors"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/repository"
)

// OtpCodeRepositoryPostgres implements repository.OtpCodeRepository.
type OtpCodeRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewOtpCodeRepositoryPostgres(pool *pgxpool.Pool) *OtpCodeRepositoryPostgres {
	return &OtpCodeRepositoryPostgres{pool: pool}
}

func (r *OtpCodeRepositoryPostgres) Create(ctx context.Context, code *models.OtpCode) error {
	query := `
		INSERT INTO otp_codes (id, phone_number, code, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, code.ID, code.PhoneNumber, code.Code, code.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create otp code: %w", err)
	}
	return nil
}

func (r *OtpCodeRepositoryPostgres) FindLatestByPhone(ctx context.Context, phoneNumber string) (*models.OtpCode, error) {
	query := `
		SELECT id, phone_number, code, expires_at, consumed_at, created_at
		FROM otp_codes
		WHERE phone_number = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	oc := &models.OtpCode{}
	err := r.pool.QueryRow(ctx, query, phoneNumber).Scan(
		&oc.ID, &oc.PhoneNumber, &oc.Code, &oc.ExpiresAt, &oc.ConsumedAt, &oc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOtpNotFound
		}
		return nil, fmt.Errorf("failed to find otp code by phone: %w", err)
	}
	return oc, nil
}

// MarkConsumed is the single conditional update that makes consumption
// race-safe: two concurrent verifications cannot both see zero rows
// affected as success.
func (r *OtpCodeRepositoryPostgres) MarkConsumed(ctx context.Context, id uuid.UUID, consumedAt time.Time) error {
	query := `
		UPDATE otp_codes
		SET consumed_at = $1
		WHERE id = $2 AND consumed_at IS NULL AND expires_at > NOW()
	`
	result, err := r.pool.Exec(ctx, query, consumedAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark otp code consumed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrOtpAlreadyConsumed
	}
	return nil
}

func (r *OtpCodeRepositoryPostgres) ConsumeActiveByPhone(ctx context.Context, phoneNumber string, consumedAt time.Time) error {
	query := `
		UPDATE otp_codes
		SET consumed_at = $1
		WHERE phone_number = $2 AND consumed_at IS NULL AND expires_at > NOW()
	`
	if _, err := r.pool.Exec(ctx, query, consumedAt, phoneNumber); err != nil {
		return fmt.Errorf("failed to consume active otp codes: %w", err)
	}
	return nil
}

func (r *OtpCodeRepositoryPostgres) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM otp_codes WHERE expires_at < NOW()`
	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired otp codes: %w", err)
	}
	return result.RowsAffected(), nil
}

var _ repository.OtpCodeRepository = (*OtpCodeRepositoryPostgres)(nil)
