package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/abdur1547/roombridge/services/auth-service/internal/domain/errors"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/repository"
)

// RefreshTokenRepositoryPostgres implements repository.RefreshTokenRepository.
type RefreshTokenRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepositoryPostgres(pool *pgxpool.Pool) *RefreshTokenRepositoryPostgres {
	return &RefreshTokenRepositoryPostgres{pool: pool}
}

func (r *RefreshTokenRepositoryPostgres) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, token.ID, token.UserID, token.TokenHash, token.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on token_hash
			return fmt.Errorf("refresh token hash collision: %w", domainErrors.ErrDuplicateValue)
		}
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepositoryPostgres) FindByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`
	rt := &models.RefreshToken{}
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(
		&rt.ID, &rt.UserID, &rt.TokenHash, &rt.ExpiresAt, &rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token by hash: %w", err)
	}
	return rt, nil
}

// Rotate inserts the replacement before deleting the old row so a
// crash mid-rotation leaves the user with an extra token rather than
// none.
func (r *RefreshTokenRepositoryPostgres) Rotate(ctx context.Context, oldID uuid.UUID, replacement *models.RefreshToken) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin rotation transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, insert,
		replacement.ID, replacement.UserID, replacement.TokenHash, replacement.ExpiresAt,
	); err != nil {
		return fmt.Errorf("failed to insert replacement refresh token: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, oldID); err != nil {
		return fmt.Errorf("failed to delete rotated refresh token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepositoryPostgres) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrRefreshTokenNotFound
	}
	return nil
}

func (r *RefreshTokenRepositoryPostgres) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete refresh tokens by user: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *RefreshTokenRepositoryPostgres) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return result.RowsAffected(), nil
}

var _ repository.RefreshTokenRepository = (*RefreshTokenRepositoryPostgres)(nil)
