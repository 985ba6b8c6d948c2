package security

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOtpCode_SixDigits(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 100; i++ {
		code, err := GenerateOtpCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestConstantTimeEquals(t *testing.T) {
	assert.True(t, ConstantTimeEquals("123456", "123456"))
	assert.False(t, ConstantTimeEquals("123456", "123457"))
	assert.False(t, ConstantTimeEquals("123456", "12345"))
	assert.False(t, ConstantTimeEquals("", "123456"))
}

func TestGenerateRefreshTokenValue(t *testing.T) {
	first, err := GenerateRefreshTokenValue()
	require.NoError(t, err)
	second, err := GenerateRefreshTokenValue()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	// 32 bytes of entropy come out as 44 base64 characters.
	assert.Len(t, first, 44)
}

func TestHashToken_StableHexDigest(t *testing.T) {
	h := HashToken("some-opaque-value")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("some-opaque-value"))
	assert.NotEqual(t, h, HashToken("another-value"))
}
