package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/abdur1547/roombridge/services/auth-service/internal/domain/errors"
)

// ResponseError is the error body shape for every failure.
type ResponseError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RespondWithError writes the error body and logs the original error
// with full detail; the client sees only the mapped message.
func RespondWithError(c *gin.Context, statusCode int, message string, errorCode string, err error, logger *zap.Logger) {
	logger.Error("api error response",
		zap.Int("status_code", statusCode),
		zap.String("error_code", errorCode),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(statusCode, ResponseError{Error: message, Code: errorCode})
}

// RespondWithDomainError is the single adapter from domain error
// variants to HTTP status classes. Unauthorized causes are flattened
// to one client-facing message so callers cannot probe which check
// failed; the distinction stays in the logs.
func RespondWithDomainError(c *gin.Context, err error, logger *zap.Logger) {
	switch {
	case domainErrors.IsBadRequest(err):
		RespondWithError(c, http.StatusBadRequest, err.Error(), "validation_error", err, logger)
	case errors.Is(err, domainErrors.ErrRateLimited):
		RespondWithError(c, http.StatusTooManyRequests, err.Error(), "rate_limited", err, logger)
	case errors.Is(err, domainErrors.ErrOtpNotFound):
		RespondWithError(c, http.StatusNotFound, err.Error(), "otp_not_found", err, logger)
	case errors.Is(err, domainErrors.ErrOtpExpired):
		RespondWithError(c, http.StatusGone, err.Error(), "otp_expired", err, logger)
	case errors.Is(err, domainErrors.ErrOtpAlreadyConsumed):
		RespondWithError(c, http.StatusConflict, err.Error(), "otp_consumed", err, logger)
	case errors.Is(err, domainErrors.ErrOtpInvalidCode):
		RespondWithError(c, http.StatusUnauthorized, err.Error(), "otp_invalid_code", err, logger)
	case errors.Is(err, domainErrors.ErrOtpSendFailed):
		RespondWithError(c, http.StatusBadGateway, err.Error(), "otp_send_failed", err, logger)
	case domainErrors.IsUnauthorized(err), errors.Is(err, domainErrors.ErrUserNotFound):
		RespondWithError(c, http.StatusUnauthorized, "Unauthorized", "unauthorized", err, logger)
	default:
		RespondWithError(c, http.StatusInternalServerError, "Internal server error", "internal_error", err, logger)
	}
}
