package models

import "time"

// SendOtpRequest is the payload for POST /otp/send.
type SendOtpRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// SendOtpResponse masks the phone number; the code travels only via SMS.
type SendOtpResponse struct {
	Message          string    `json:"message"`
	PhoneNumber      string    `json:"phone_number"`
	ExpiresInMinutes int       `json:"expires_in_minutes"`
	SentAt           time.Time `json:"sent_at"`
}

// VerifyOtpRequest is the payload for POST /otp/verify.
type VerifyOtpRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Code        string `json:"code" binding:"required"`
}

// VerifyOtpResponse returns the token pair plus a user summary.
type VerifyOtpResponse struct {
	Message      string       `json:"message"`
	PhoneNumber  string       `json:"phone_number"`
	VerifiedAt   time.Time    `json:"verified_at"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// RefreshRequest carries the opaque refresh token. The handler also
// accepts it from the refresh_token cookie when the body is empty.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse omits refresh_token unless the token was rotated.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// SignoutResponse is always returned with a 200, even when revocation
// partially failed on the backend.
type SignoutResponse struct {
	Message     string    `json:"message"`
	SignedOutAt time.Time `json:"signed_out_at"`
}
