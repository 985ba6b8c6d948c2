package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/abdur1547/roombridge/services/auth-service/internal/domain/errors"
)

func TestRespondWithDomainError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid phone", domainErrors.ErrInvalidPhoneNumber, http.StatusBadRequest, "validation_error"},
		{"invalid code format", domainErrors.ErrInvalidCodeFormat, http.StatusBadRequest, "validation_error"},
		{"rate limited", domainErrors.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"otp not found", domainErrors.ErrOtpNotFound, http.StatusNotFound, "otp_not_found"},
		{"otp expired", domainErrors.ErrOtpExpired, http.StatusGone, "otp_expired"},
		{"otp consumed", domainErrors.ErrOtpAlreadyConsumed, http.StatusConflict, "otp_consumed"},
		{"wrong code", domainErrors.ErrOtpInvalidCode, http.StatusUnauthorized, "otp_invalid_code"},
		{"delivery failed", domainErrors.ErrOtpSendFailed, http.StatusBadGateway, "otp_send_failed"},
		{"expired token", domainErrors.ErrExpiredToken, http.StatusUnauthorized, "unauthorized"},
		{"revoked token", domainErrors.ErrRevokedToken, http.StatusUnauthorized, "unauthorized"},
		{"unknown refresh token", domainErrors.ErrRefreshTokenNotFound, http.StatusUnauthorized, "unauthorized"},
		{"expired refresh token", domainErrors.ErrRefreshTokenExpired, http.StatusUnauthorized, "unauthorized"},
		{"user not found", domainErrors.ErrUserNotFound, http.StatusUnauthorized, "unauthorized"},
		{"wrapped cause", errors.New("pg: connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	gin.SetMode(gin.TestMode)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/verify", nil)

			RespondWithDomainError(c, tc.err, zap.NewNop())

			assert.Equal(t, tc.wantStatus, w.Code)

			var body ResponseError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestRespondWithDomainError_HidesUnauthorizedCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)

	RespondWithDomainError(c, domainErrors.ErrRefreshTokenExpired, zap.NewNop())

	var body ResponseError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	// The specific cause must not leak to the client.
	assert.Equal(t, "Unauthorized", body.Error)
}

func TestRespondWithDomainError_HidesInternalCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/send", nil)

	RespondWithDomainError(c, errors.New("dial tcp 10.0.0.4:5432: i/o timeout"), zap.NewNop())

	var body ResponseError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Error)
	assert.NotContains(t, body.Error, "10.0.0.4")
}
