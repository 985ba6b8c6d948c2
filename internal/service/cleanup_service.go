package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/repository"
)

// CleanupService sweeps expired OTP, refresh-token and blacklist rows
// on a timer. The request path already treats expired rows as invalid
// on read; the sweep only reclaims storage.
type CleanupService struct {
	otpRepo       repository.OtpCodeRepository
	refreshRepo   repository.RefreshTokenRepository
	blacklistRepo repository.BlacklistedTokenRepository
	interval      time.Duration
	logger        *zap.Logger
}

func NewCleanupService(
	otpRepo repository.OtpCodeRepository,
	refreshRepo repository.RefreshTokenRepository,
	blacklistRepo repository.BlacklistedTokenRepository,
	interval time.Duration,
	logger *zap.Logger,
) *CleanupService {
	return &CleanupService{
		otpRepo:       otpRepo,
		refreshRepo:   refreshRepo,
		blacklistRepo: blacklistRepo,
		interval:      interval,
		logger:        logger.Named("cleanup_service"),
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *CleanupService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("cleanup service started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("cleanup service stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *CleanupService) sweep(ctx context.Context) {
	otpCount, err := s.otpRepo.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("failed to sweep expired otp codes", zap.Error(err))
	}

	refreshCount, err := s.refreshRepo.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("failed to sweep expired refresh tokens", zap.Error(err))
	}

	blacklistCount, err := s.blacklistRepo.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("failed to sweep expired blacklist entries", zap.Error(err))
	}

	if otpCount+refreshCount+blacklistCount > 0 {
		s.logger.Info("sweep finished",
			zap.Int64("otp_codes", otpCount),
			zap.Int64("refresh_tokens", refreshCount),
			zap.Int64("blacklisted_tokens", blacklistCount),
		)
	}
}
