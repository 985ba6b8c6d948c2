package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abdur1547/roombridge/services/auth-service/internal/config"
	domainErrors "github.com/abdur1547/roombridge/services/auth-service/internal/domain/errors"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
	"github.com/abdur1547/roombridge/services/auth-service/internal/events/kafka"
	"github.com/abdur1547/roombridge/services/auth-service/internal/infrastructure/security"
)

const testRefreshTTL = 60 * 24 * time.Hour

type tokenServiceFixture struct {
	svc           *TokenService
	codec         *security.JWTService
	refreshRepo   *MockRefreshTokenRepository
	blacklistRepo *MockBlacklistedTokenRepository
	userRepo      *MockUserRepository
	publisher     *MockPublisher
}

func newTokenServiceFixture(t *testing.T) *tokenServiceFixture {
	t.Helper()

	refreshRepo := new(MockRefreshTokenRepository)
	blacklistRepo := new(MockBlacklistedTokenRepository)
	userRepo := new(MockUserRepository)
	publisher := new(MockPublisher)

	codec, err := security.NewJWTService(security.JWTConfig{
		Secret:         "0123456789abcdef0123456789abcdef",
		Issuer:         "roombridge-auth",
		Audience:       "roombridge-api",
		AccessTokenTTL: 15 * time.Minute,
	})
	require.NoError(t, err)

	svc := NewTokenService(
		config.JWTConfig{
			Issuer:          "roombridge-auth",
			Audience:        "roombridge-api",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: testRefreshTTL,
		},
		codec, refreshRepo, blacklistRepo, userRepo, publisher, zap.NewNop(),
	)
	return &tokenServiceFixture{
		svc:           svc,
		codec:         codec,
		refreshRepo:   refreshRepo,
		blacklistRepo: blacklistRepo,
		userRepo:      userRepo,
		publisher:     publisher,
	}
}

func TestIssuePair(t *testing.T) {
	f := newTokenServiceFixture(t)
	user := &models.User{ID: uuid.New(), PhoneNumber: "+923001234567"}

	var record *models.RefreshToken
	f.refreshRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).
		Run(func(args mock.Arguments) {
			record = args.Get(1).(*models.RefreshToken)
		}).Return(nil)

	pair, err := f.svc.IssuePair(context.Background(), user)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int((15 * time.Minute).Seconds()), pair.ExpiresIn)

	// The store holds the hash, never the opaque value.
	require.NotNil(t, record)
	assert.Equal(t, user.ID, record.UserID)
	assert.Equal(t, security.HashToken(pair.RefreshToken), record.TokenHash)
	assert.NotEqual(t, pair.RefreshToken, record.TokenHash)

	claims, err := f.codec.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, got)
}

func TestIssuePair_DistinctTokensPerCall(t *testing.T) {
	f := newTokenServiceFixture(t)
	user := &models.User{ID: uuid.New()}

	f.refreshRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	first, err := f.svc.IssuePair(context.Background(), user)
	require.NoError(t, err)
	second, err := f.svc.IssuePair(context.Background(), user)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	f.refreshRepo.AssertNumberOfCalls(t, "Create", 2)
}

func refreshRecord(userID uuid.UUID, opaque string, age time.Duration) *models.RefreshToken {
	now := time.Now()
	return &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: security.HashToken(opaque),
		CreatedAt: now.Add(-age),
		ExpiresAt: now.Add(-age).Add(testRefreshTTL),
	}
}

func TestRefresh_YoungTokenNotRotated(t *testing.T) {
	f := newTokenServiceFixture(t)
	user := &models.User{ID: uuid.New()}
	opaque := "young-token"
	record := refreshRecord(user.ID, opaque, testRefreshTTL*2/5)

	f.refreshRepo.On("FindByTokenHash", mock.Anything, security.HashToken(opaque)).Return(record, nil)
	f.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	pair, err := f.svc.Refresh(context.Background(), opaque)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.Empty(t, pair.RefreshToken)
	f.refreshRepo.AssertNotCalled(t, "Rotate")
}

func TestRefresh_OldTokenRotated(t *testing.T) {
	f := newTokenServiceFixture(t)
	user := &models.User{ID: uuid.New()}
	opaque := "old-token"
	record := refreshRecord(user.ID, opaque, testRefreshTTL*3/5)

	f.refreshRepo.On("FindByTokenHash", mock.Anything, security.HashToken(opaque)).Return(record, nil)
	f.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	var replacement *models.RefreshToken
	f.refreshRepo.On("Rotate", mock.Anything, record.ID, mock.AnythingOfType("*models.RefreshToken")).
		Run(func(args mock.Arguments) {
			replacement = args.Get(2).(*models.RefreshToken)
		}).Return(nil)

	pair, err := f.svc.Refresh(context.Background(), opaque)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, opaque, pair.RefreshToken)

	require.NotNil(t, replacement)
	assert.Equal(t, user.ID, replacement.UserID)
	assert.Equal(t, security.HashToken(pair.RefreshToken), replacement.TokenHash)
	assert.NotEqual(t, record.ID, replacement.ID)
}

func TestRefresh_UnknownToken(t *testing.T) {
	f := newTokenServiceFixture(t)

	f.refreshRepo.On("FindByTokenHash", mock.Anything, mock.Anything).
		Return(nil, domainErrors.ErrRefreshTokenNotFound)

	_, err := f.svc.Refresh(context.Background(), "never-issued")
	assert.True(t, errors.Is(err, domainErrors.ErrRefreshTokenNotFound))
}

func TestRefresh_ExpiredTokenDeletedOnDetection(t *testing.T) {
	f := newTokenServiceFixture(t)
	user := &models.User{ID: uuid.New()}
	opaque := "stale-token"
	record := refreshRecord(user.ID, opaque, testRefreshTTL+time.Hour)

	f.refreshRepo.On("FindByTokenHash", mock.Anything, security.HashToken(opaque)).Return(record, nil)
	f.refreshRepo.On("DeleteByID", mock.Anything, record.ID).Return(nil)

	_, err := f.svc.Refresh(context.Background(), opaque)
	assert.True(t, errors.Is(err, domainErrors.ErrRefreshTokenExpired))
	f.refreshRepo.AssertCalled(t, "DeleteByID", mock.Anything, record.ID)
	f.userRepo.AssertNotCalled(t, "FindByID")
}

func TestRefresh_UserGoneIsUnauthorized(t *testing.T) {
	f := newTokenServiceFixture(t)
	opaque := "orphaned-token"
	record := refreshRecord(uuid.New(), opaque, time.Hour)

	f.refreshRepo.On("FindByTokenHash", mock.Anything, security.HashToken(opaque)).Return(record, nil)
	f.userRepo.On("FindByID", mock.Anything, record.UserID).Return(nil, domainErrors.ErrUserNotFound)

	_, err := f.svc.Refresh(context.Background(), opaque)
	assert.True(t, errors.Is(err, domainErrors.ErrUserNotFound))
}

func signedClaims(t *testing.T, f *tokenServiceFixture, userID uuid.UUID) (string, *models.Claims) {
	t.Helper()
	signed, claims, err := f.codec.GenerateAccessToken(userID)
	require.NoError(t, err)
	return signed, claims
}

func TestSignout_RevokesTokenAndSessions(t *testing.T) {
	f := newTokenServiceFixture(t)
	userID := uuid.New()
	_, claims := signedClaims(t, f, userID)

	var entry *models.BlacklistedToken
	f.blacklistRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.BlacklistedToken")).
		Run(func(args mock.Arguments) {
			entry = args.Get(1).(*models.BlacklistedToken)
		}).Return(nil)
	f.refreshRepo.On("DeleteByUserID", mock.Anything, userID).Return(int64(2), nil)
	f.publisher.On("Publish", mock.Anything, kafka.EventUserSignedOut, userID.String(), mock.Anything).Return(nil)

	resp := f.svc.Signout(context.Background(), claims)
	assert.Equal(t, "Signed out", resp.Message)
	assert.False(t, resp.SignedOutAt.IsZero())

	require.NotNil(t, entry)
	assert.Equal(t, claims.ID, entry.JTI)
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, claims.ExpiresAt.Time.Unix(), entry.ExpiresAt.Unix())
	f.refreshRepo.AssertExpectations(t)
}

func TestSignout_SwallowsBackendFailures(t *testing.T) {
	f := newTokenServiceFixture(t)
	userID := uuid.New()
	_, claims := signedClaims(t, f, userID)

	f.blacklistRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	f.refreshRepo.On("DeleteByUserID", mock.Anything, userID).Return(int64(0), errors.New("db down"))
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("broker down"))

	resp := f.svc.Signout(context.Background(), claims)
	assert.Equal(t, "Signed out", resp.Message)
}

func TestValidateAccessToken_Valid(t *testing.T) {
	f := newTokenServiceFixture(t)
	userID := uuid.New()
	signed, issued := signedClaims(t, f, userID)

	f.blacklistRepo.On("Exists", mock.Anything, issued.ID).Return(false, nil)

	claims, err := f.svc.ValidateAccessToken(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestValidateAccessToken_RejectsBlacklisted(t *testing.T) {
	f := newTokenServiceFixture(t)
	signed, issued := signedClaims(t, f, uuid.New())

	f.blacklistRepo.On("Exists", mock.Anything, issued.ID).Return(true, nil)

	_, err := f.svc.ValidateAccessToken(context.Background(), signed)
	assert.True(t, errors.Is(err, domainErrors.ErrRevokedToken))
}

func TestValidateAccessToken_MalformedSkipsBlacklist(t *testing.T) {
	f := newTokenServiceFixture(t)

	_, err := f.svc.ValidateAccessToken(context.Background(), "garbage")
	assert.Error(t, err)
	f.blacklistRepo.AssertNotCalled(t, "Exists")
}
