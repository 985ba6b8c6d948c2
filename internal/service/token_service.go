package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abdur1547/roombridge/services/auth-service/internal/config"
	domainErrors "github.com/abdur1547/roombridge/services/auth-service/internal/domain/errors"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/repository"
	"github.com/abdur1547/roombridge/services/auth-service/internal/events/kafka"
	"github.com/abdur1547/roombridge/services/auth-service/internal/infrastructure/security"
	"github.com/abdur1547/roombridge/services/auth-service/internal/utils/metrics"
)

// TokenService owns the token lifecycle: pair issuance, refresh with
// half-life rotation, signout revocation and access-token validation.
type TokenService struct {
	cfg           config.JWTConfig
	codec         *security.JWTService
	refreshRepo   repository.RefreshTokenRepository
	blacklistRepo repository.BlacklistedTokenRepository
	userRepo      repository.UserRepository
	publisher     kafka.Publisher
	logger        *zap.Logger
}

func NewTokenService(
	cfg config.JWTConfig,
	codec *security.JWTService,
	refreshRepo repository.RefreshTokenRepository,
	blacklistRepo repository.BlacklistedTokenRepository,
	userRepo repository.UserRepository,
	publisher kafka.Publisher,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		cfg:           cfg,
		codec:         codec,
		refreshRepo:   refreshRepo,
		blacklistRepo: blacklistRepo,
		userRepo:      userRepo,
		publisher:     publisher,
		logger:        logger.Named("token_service"),
	}
}

// IssuePair mints an access token and a fresh refresh-token record for
// the user. Every call opens an independent refresh chain, so multiple
// devices hold their own tokens.
func (s *TokenService) IssuePair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	accessToken, _, err := s.codec.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	opaque, err := security.GenerateRefreshTokenValue()
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: security.HashToken(opaque),
		ExpiresAt: time.Now().Add(s.cfg.RefreshTokenTTL),
	}
	if err := s.refreshRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: opaque,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.codec.AccessTokenTTL().Seconds()),
	}, nil
}

// Refresh exchanges a presented refresh token for a new access token.
// The refresh token itself is rotated only once its age passes half of
// the configured lifetime, bounding single-token exposure without a
// write on every refresh. Expired tokens are deleted on detection, so
// a second presentation fails with NotFound rather than Expired.
func (s *TokenService) Refresh(ctx context.Context, presented string) (*models.TokenPair, error) {
	record, err := s.refreshRepo.FindByTokenHash(ctx, security.HashToken(presented))
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}

	now := time.Now()
	if record.IsExpired(now) {
		if err := s.refreshRepo.DeleteByID(ctx, record.ID); err != nil &&
			!errors.Is(err, domainErrors.ErrRefreshTokenNotFound) {
			s.logger.Warn("failed to delete expired refresh token", zap.Error(err))
		}
		metrics.TokenRefreshTotal.WithLabelValues("expired").Inc()
		return nil, domainErrors.ErrRefreshTokenExpired
	}

	// Tokens cascade-delete with their user, so a miss here means the
	// store is mid-cleanup; treat it defensively as unauthorized.
	user, err := s.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("user_missing").Inc()
		return nil, err
	}

	accessToken, _, err := s.codec.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	pair := &models.TokenPair{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.codec.AccessTokenTTL().Seconds()),
	}

	if record.Age(now) <= s.cfg.RefreshTokenTTL/2 {
		metrics.TokenRefreshTotal.WithLabelValues("refreshed").Inc()
		return pair, nil
	}

	opaque, err := security.GenerateRefreshTokenValue()
	if err != nil {
		return nil, err
	}
	replacement := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: security.HashToken(opaque),
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
	}
	if err := s.refreshRepo.Rotate(ctx, record.ID, replacement); err != nil {
		return nil, err
	}

	pair.RefreshToken = opaque
	metrics.TokenRefreshTotal.WithLabelValues("rotated").Inc()
	return pair, nil
}

// Signout blacklists the presented access token's jti and revokes all
// of the user's refresh tokens, ending every session's ability to
// silently refresh. Only this one access token is blacklisted; other
// live access tokens run to natural expiry with their refresh path
// cut. Backend failures are logged and swallowed: signout always
// appears to succeed.
func (s *TokenService) Signout(ctx context.Context, claims *models.Claims) models.SignoutResponse {
	now := time.Now()

	userID, err := claims.UserID()
	if err != nil {
		s.logger.Error("signout with unparseable subject", zap.String("subject", claims.Subject), zap.Error(err))
		return models.SignoutResponse{Message: "Signed out", SignedOutAt: now}
	}

	entry := &models.BlacklistedToken{
		JTI:       claims.ID,
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.blacklistRepo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to blacklist access token",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	deleted, err := s.refreshRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to revoke refresh tokens on signout",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	} else {
		s.logger.Info("revoked refresh tokens on signout",
			zap.String("user_id", userID.String()),
			zap.Int64("count", deleted),
		)
	}

	if err := s.publisher.Publish(ctx, kafka.EventUserSignedOut, userID.String(), nil); err != nil {
		s.logger.Warn("failed to publish signout event", zap.Error(err))
	}

	metrics.SignoutTotal.Inc()
	return models.SignoutResponse{Message: "Signed out", SignedOutAt: now}
}

// ValidateAccessToken decodes the token and rejects it when its jti is
// blacklisted. Read-only; safe under any concurrency.
func (s *TokenService) ValidateAccessToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	claims, err := s.codec.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklistRepo.Exists(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domainErrors.ErrRevokedToken
	}
	return claims, nil
}
