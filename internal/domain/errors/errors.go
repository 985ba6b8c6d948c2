package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the auth domain. Services return these (possibly
// wrapped); the HTTP layer maps them to status codes in one place.
var (
	// Generic
	ErrInternal       = errors.New("internal error")
	ErrNotFound       = errors.New("resource not found")
	ErrDuplicateValue = errors.New("duplicate value")
	ErrUnauthorized   = errors.New("unauthorized")

	// Validation
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	ErrInvalidCodeFormat  = errors.New("verification code must be 6 digits")

	// OTP lifecycle
	ErrRateLimited        = errors.New("too many attempts, try again later")
	ErrOtpNotFound        = errors.New("no verification code found for this phone number")
	ErrOtpExpired         = errors.New("verification code has expired")
	ErrOtpAlreadyConsumed = errors.New("verification code has already been used")
	ErrOtpInvalidCode     = errors.New("incorrect verification code")
	ErrOtpSendFailed      = errors.New("failed to deliver verification code")

	// Tokens
	ErrMissingToken            = errors.New("no access token presented")
	ErrInvalidToken            = errors.New("invalid token")
	ErrExpiredToken            = errors.New("token has expired")
	ErrRevokedToken            = errors.New("token has been revoked")
	ErrInvalidIssuerOrAudience = errors.New("token issuer or audience mismatch")
	ErrRefreshTokenNotFound    = errors.New("refresh token not found")
	ErrRefreshTokenExpired     = errors.New("refresh token has expired")

	// Users
	ErrUserNotFound = errors.New("user not found")
)

// AppError carries caller-facing detail for an error variant.
type AppError struct {
	Err     error
	Message string
	Code    string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is one of the not-found variants.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrOtpNotFound) ||
		errors.Is(err, ErrRefreshTokenNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsUnauthorized reports whether err should surface as a 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrRevokedToken) ||
		errors.Is(err, ErrInvalidIssuerOrAudience) ||
		errors.Is(err, ErrRefreshTokenNotFound) ||
		errors.Is(err, ErrRefreshTokenExpired)
}

// IsBadRequest reports whether err stems from malformed input.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidPhoneNumber) ||
		errors.Is(err, ErrInvalidCodeFormat)
}
