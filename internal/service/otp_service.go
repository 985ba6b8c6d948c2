package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abdur1547/roombridge/services/auth-service/internal/config"
	domainErrors "github.com/abdur1547/roombridge/services/auth-service/internal/domain/errors"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/repository"
	"github.com/abdur1547/roombridge/services/auth-service/internal/events/kafka"
	"github.com/abdur1547/roombridge/services/auth-service/internal/infrastructure/security"
	"github.com/abdur1547/roombridge/services/auth-service/internal/infrastructure/sms"
	"github.com/abdur1547/roombridge/services/auth-service/internal/utils/metrics"
)

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

const (
	sendKeyPrefix   = "otp:send:"
	verifyKeyPrefix = "otp:verify:"
)

// OtpService issues and verifies one-time codes. Verification is the
// only path that creates users and hands out token pairs.
type OtpService struct {
	cfg          config.OTPConfig
	otpRepo      repository.OtpCodeRepository
	userRepo     repository.UserRepository
	tokenService *TokenService
	limiter      RateLimiter
	sender       sms.Sender
	publisher    kafka.Publisher
	logger       *zap.Logger
}

func NewOtpService(
	cfg config.OTPConfig,
	otpRepo repository.OtpCodeRepository,
	userRepo repository.UserRepository,
	tokenService *TokenService,
	limiter RateLimiter,
	sender sms.Sender,
	publisher kafka.Publisher,
	logger *zap.Logger,
) *OtpService {
	return &OtpService{
		cfg:          cfg,
		otpRepo:      otpRepo,
		userRepo:     userRepo,
		tokenService: tokenService,
		limiter:      limiter,
		sender:       sender,
		publisher:    publisher,
		logger:       logger.Named("otp_service"),
	}
}

// SendOtp issues a fresh code for the phone number and hands it to the
// SMS gateway. A delivery failure is reported as ErrOtpSendFailed but
// the persisted code stays valid: a transient gateway error must not
// burn one of the caller's rate-limit slots.
func (s *OtpService) SendOtp(ctx context.Context, rawPhone string) (*models.SendOtpResponse, error) {
	phone, err := security.NormalizePhone(rawPhone)
	if err != nil {
		metrics.OtpSendTotal.WithLabelValues("invalid_phone").Inc()
		return nil, err
	}

	allowed, err := s.limiter.Allow(ctx, sendKeyPrefix+phone, s.cfg.SendLimit, s.cfg.SendWindow)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.OtpSendTotal.WithLabelValues("rate_limited").Inc()
		return nil, domainErrors.ErrRateLimited
	}

	now := time.Now()

	// Best effort: a failure here must not abort issuance, the new
	// code supersedes older ones on verification anyway.
	if err := s.otpRepo.ConsumeActiveByPhone(ctx, phone, now); err != nil {
		s.logger.Warn("failed to invalidate prior active otp codes",
			zap.String("phone", security.MaskPhone(phone)),
			zap.Error(err),
		)
	}

	code, err := security.GenerateOtpCode()
	if err != nil {
		return nil, err
	}

	otp := &models.OtpCode{
		ID:          uuid.New(),
		PhoneNumber: phone,
		Code:        code,
		ExpiresAt:   now.Add(s.cfg.CodeTTL),
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return nil, err
	}

	if err := s.sender.SendVerificationCode(ctx, phone, code); err != nil {
		s.logger.Error("sms delivery failed",
			zap.String("phone", security.MaskPhone(phone)),
			zap.Error(err),
		)
		metrics.OtpSendTotal.WithLabelValues("send_failed").Inc()
		return nil, domainErrors.ErrOtpSendFailed
	}

	metrics.OtpSendTotal.WithLabelValues("sent").Inc()
	return &models.SendOtpResponse{
		Message:          "Verification code sent",
		PhoneNumber:      security.MaskPhone(phone),
		ExpiresInMinutes: int(s.cfg.CodeTTL.Minutes()),
		SentAt:           now,
	}, nil
}

// VerifyOtp validates a submitted code and, on success, resolves or
// creates the user and issues a token pair. Every attempt is counted
// toward the verify cap before any state is read.
func (s *OtpService) VerifyOtp(ctx context.Context, rawPhone, submittedCode string) (*models.VerifyOtpResponse, error) {
	phone, err := security.NormalizePhone(rawPhone)
	if err != nil {
		metrics.OtpVerifyTotal.WithLabelValues("invalid_phone").Inc()
		return nil, err
	}
	if !codePattern.MatchString(submittedCode) {
		metrics.OtpVerifyTotal.WithLabelValues("invalid_format").Inc()
		return nil, domainErrors.ErrInvalidCodeFormat
	}

	verifyKey := verifyKeyPrefix + phone
	allowed, err := s.limiter.Allow(ctx, verifyKey, s.cfg.VerifyLimit, s.cfg.VerifyWindow)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.OtpVerifyTotal.WithLabelValues("rate_limited").Inc()
		return nil, domainErrors.ErrRateLimited
	}

	otp, err := s.otpRepo.FindLatestByPhone(ctx, phone)
	if err != nil {
		metrics.OtpVerifyTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}

	now := time.Now()
	if otp.IsExpired(now) {
		metrics.OtpVerifyTotal.WithLabelValues("expired").Inc()
		return nil, domainErrors.ErrOtpExpired
	}
	if otp.IsConsumed() {
		metrics.OtpVerifyTotal.WithLabelValues("consumed").Inc()
		return nil, domainErrors.ErrOtpAlreadyConsumed
	}

	if !security.ConstantTimeEquals(submittedCode, otp.Code) {
		metrics.OtpVerifyTotal.WithLabelValues("invalid_code").Inc()
		return nil, domainErrors.ErrOtpInvalidCode
	}

	// Conditional update: a concurrent verification that won the race
	// leaves zero rows for us, which surfaces as AlreadyConsumed.
	if err := s.otpRepo.MarkConsumed(ctx, otp.ID, now); err != nil {
		metrics.OtpVerifyTotal.WithLabelValues("consumed").Inc()
		return nil, err
	}

	if err := s.limiter.Reset(ctx, verifyKey); err != nil {
		s.logger.Warn("failed to reset verify counter", zap.Error(err))
	}

	user, created, err := s.findOrCreateUser(ctx, phone)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokenService.IssuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to update last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	eventType := kafka.EventUserLoggedIn
	if created {
		eventType = kafka.EventUserRegistered
	}
	if err := s.publisher.Publish(ctx, eventType, user.ID.String(), user.ToResponse()); err != nil {
		s.logger.Warn("failed to publish auth event", zap.String("type", eventType), zap.Error(err))
	}

	metrics.OtpVerifyTotal.WithLabelValues("verified").Inc()
	return &models.VerifyOtpResponse{
		Message:      "Phone number verified",
		PhoneNumber:  security.MaskPhone(phone),
		VerifiedAt:   now,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
		User:         user.ToResponse(),
	}, nil
}

// findOrCreateUser resolves the account for a verified phone number,
// creating it on first sight. A concurrent create losing the unique
// race falls back to re-reading the winner's row.
func (s *OtpService) findOrCreateUser(ctx context.Context, phone string) (*models.User, bool, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, domainErrors.ErrUserNotFound) {
		return nil, false, err
	}

	user = &models.User{
		ID:          uuid.New(),
		PhoneNumber: phone,
		CreatedAt:   time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainErrors.ErrDuplicateValue) {
			existing, findErr := s.userRepo.FindByPhone(ctx, phone)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}
