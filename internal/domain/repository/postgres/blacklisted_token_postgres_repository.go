package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/repository"
)

// BlacklistedTokenRepositoryPostgres implements repository.BlacklistedTokenRepository.
type BlacklistedTokenRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewBlacklistedTokenRepositoryPostgres(pool *pgxpool.Pool) *BlacklistedTokenRepositoryPostgres {
	return &BlacklistedTokenRepositoryPostgres{pool: pool}
}

// Create is idempotent: re-blacklisting the same jti must not corrupt
// state, so duplicate inserts are discarded by ON CONFLICT.
func (r *BlacklistedTokenRepositoryPostgres) Create(ctx context.Context, token *models.BlacklistedToken) error {
	query := `
		INSERT INTO blacklisted_tokens (jti, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, token.JTI, token.UserID, token.ExpiresAt); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (r *BlacklistedTokenRepositoryPostgres) Exists(ctx context.Context, jti string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM blacklisted_tokens WHERE jti = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, jti).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists, nil
}

func (r *BlacklistedTokenRepositoryPostgres) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM blacklisted_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired blacklist entries: %w", err)
	}
	return result.RowsAffected(), nil
}

var _ repository.BlacklistedTokenRepository = (*BlacklistedTokenRepositoryPostgres)(nil)
