package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abdur1547/roombridge/services/auth-service/internal/domain/models"
	"github.com/abdur1547/roombridge/services/auth-service/internal/handler/http/middleware"
	"github.com/abdur1547/roombridge/services/auth-service/internal/service"
)

const refreshTokenCookie = "refresh_token"

// AuthHandler handles the phone-OTP authentication endpoints.
type AuthHandler struct {
	otpService   *service.OtpService
	tokenService *service.TokenService
	logger       *zap.Logger
}

func NewAuthHandler(otpService *service.OtpService, tokenService *service.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		otpService:   otpService,
		tokenService: tokenService,
		logger:       logger.Named("auth_handler"),
	}
}

// SendOtp handles POST /api/v1/auth/otp/send.
func (h *AuthHandler) SendOtp(c *gin.Context) {
	var req models.SendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request payload", "validation_error", err, h.logger)
		return
	}

	resp, err := h.otpService.SendOtp(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyOtp handles POST /api/v1/auth/otp/verify.
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req models.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request payload", "validation_error", err, h.logger)
		return
	}

	resp, err := h.otpService.VerifyOtp(c.Request.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshToken handles POST /api/v1/auth/refresh. The token comes
// from the body, or from the refresh_token cookie when the body omits
// it.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshRequest
	// Body is optional when the cookie carries the token.
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
			req.RefreshToken = cookie
		}
	}
	if req.RefreshToken == "" {
		RespondWithError(c, http.StatusUnauthorized, "Unauthorized", "unauthorized", nil, h.logger)
		return
	}

	pair, err := h.tokenService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondWithDomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, models.RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Signout handles POST /api/v1/auth/signout. Runs behind the auth
// gate; always responds 200 once the gate passed, even when parts of
// the revocation failed internally.
func (h *AuthHandler) Signout(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "Unauthorized", "unauthorized", nil, h.logger)
		return
	}

	resp := h.tokenService.Signout(c.Request.Context(), claims)
	c.JSON(http.StatusOK, resp)
}
