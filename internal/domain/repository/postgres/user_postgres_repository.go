package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/abdur1547/roombridge/services/auth-service/internal/domain/errors"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/repository"
)

// UserRepositoryPostgres implements repository.UserRepository.
type UserRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewUserRepositoryPostgres(pool *pgxpool.Pool) *UserRepositoryPostgres {
	return &UserRepositoryPostgres{pool: pool}
}

func (r *UserRepositoryPostgres) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, phone_number)
		VALUES ($1, $2)
	`
	_, err := r.pool.Exec(ctx, query, user.ID, user.PhoneNumber)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on phone_number
			return fmt.Errorf("phone number already registered: %w", domainErrors.ErrDuplicateValue)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepositoryPostgres) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, phone_number, created_at, last_login_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepositoryPostgres) FindByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	query := `
		SELECT id, phone_number, created_at, last_login_at
		FROM users
		WHERE phone_number = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, phoneNumber))
}

func (r *UserRepositoryPostgres) UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLoginAt time.Time) error {
	query := `UPDATE users SET last_login_at = $1 WHERE id = $2`
	result, err := r.pool.Exec(ctx, query, lastLoginAt, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryPostgres) scanOne(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.PhoneNumber, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepositoryPostgres)(nil)
