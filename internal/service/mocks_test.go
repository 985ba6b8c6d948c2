package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
)

type MockOtpCodeRepository struct {
	mock.Mock
}

func (m *MockOtpCodeRepository) Create(ctx context.Context, code *models.OtpCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockOtpCodeRepository) FindLatestByPhone(ctx context.Context, phoneNumber string) (*models.OtpCode, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OtpCode), args.Error(1)
}

func (m *MockOtpCodeRepository) MarkConsumed(ctx context.Context, id uuid.UUID, consumedAt time.Time) error {
	args := m.Called(ctx, id, consumedAt)
	return args.Error(0)
}

func (m *MockOtpCodeRepository) ConsumeActiveByPhone(ctx context.Context, phoneNumber string, consumedAt time.Time) error {
	args := m.Called(ctx, phoneNumber, consumedAt)
	return args.Error(0)
}

func (m *MockOtpCodeRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, lastLoginAt time.Time) error {
	args := m.Called(ctx, id, lastLoginAt)
	return args.Error(0)
}

type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Rotate(ctx context.Context, oldID uuid.UUID, replacement *models.RefreshToken) error {
	args := m.Called(ctx, oldID, replacement)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockBlacklistedTokenRepository struct {
	mock.Mock
}

func (m *MockBlacklistedTokenRepository) Create(ctx context.Context, token *models.BlacklistedToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockBlacklistedTokenRepository) Exists(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlacklistedTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateLimiter) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockSmsSender struct {
	mock.Mock
}

func (m *MockSmsSender) SendVerificationCode(ctx context.Context, phone string, code string) error {
	args := m.Called(ctx, phone, code)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType string, subject string, data interface{}) error {
	args := m.Called(ctx, eventType, subject, data)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
