package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestCleanupService_SweepHitsAllStores(t *testing.T) {
	otpRepo := new(MockOtpCodeRepository)
	refreshRepo := new(MockRefreshTokenRepository)
	blacklistRepo := new(MockBlacklistedTokenRepository)

	otpRepo.On("DeleteExpired", mock.Anything).Return(int64(3), nil)
	refreshRepo.On("DeleteExpired", mock.Anything).Return(int64(1), nil)
	blacklistRepo.On("DeleteExpired", mock.Anything).Return(int64(0), nil)

	svc := NewCleanupService(otpRepo, refreshRepo, blacklistRepo, time.Hour, zap.NewNop())
	svc.sweep(context.Background())

	otpRepo.AssertExpectations(t)
	refreshRepo.AssertExpectations(t)
	blacklistRepo.AssertExpectations(t)
}

func TestCleanupService_SweepContinuesPastFailures(t *testing.T) {
	otpRepo := new(MockOtpCodeRepository)
	refreshRepo := new(MockRefreshTokenRepository)
	blacklistRepo := new(MockBlacklistedTokenRepository)

	otpRepo.On("DeleteExpired", mock.Anything).Return(int64(0), errors.New("table locked"))
	refreshRepo.On("DeleteExpired", mock.Anything).Return(int64(2), nil)
	blacklistRepo.On("DeleteExpired", mock.Anything).Return(int64(0), nil)

	svc := NewCleanupService(otpRepo, refreshRepo, blacklistRepo, time.Hour, zap.NewNop())
	svc.sweep(context.Background())

	// One store failing must not stop the others from being swept.
	refreshRepo.AssertCalled(t, "DeleteExpired", mock.Anything)
	blacklistRepo.AssertCalled(t, "DeleteExpired", mock.Anything)
}

func TestCleanupService_RunStopsOnCancel(t *testing.T) {
	otpRepo := new(MockOtpCodeRepository)
	refreshRepo := new(MockRefreshTokenRepository)
	blacklistRepo := new(MockBlacklistedTokenRepository)

	svc := NewCleanupService(otpRepo, refreshRepo, blacklistRepo, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop on context cancellation")
	}
}
