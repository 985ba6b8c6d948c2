package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
)

var otpMax = big.NewInt(1_000_000) // 10^6 for a 6-digit code

// GenerateOtpCode returns a cryptographically random, zero-padded
// 6-digit code. crypto/rand with big.Int avoids modulo bias.
func GenerateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// ConstantTimeEquals compares two codes without short-circuiting on
// the first differing character.
func ConstantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// GenerateRefreshTokenValue returns a 256-bit opaque token.
func GenerateRefreshTokenValue() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token entropy: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// HashToken returns the sha256 hex digest of an opaque token value.
// Refresh tokens are stored and looked up by this hash only.
func HashToken(value string) string {
	h := sha256.Sum256([]byte(value))
	return hex.EncodeToString(h[:])
}
