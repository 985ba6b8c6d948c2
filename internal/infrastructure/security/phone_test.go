package security

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/abdur1547/roombridge/services/auth-service/internal/domain/errors"
)

func TestNormalizePhone_AcceptedFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"international", "+923001234567", "+923001234567"},
		{"international with spaces", "+92 300 123 4567", "+923001234567"},
		{"double zero prefix", "00923001234567", "+923001234567"},
		{"country code without plus", "923001234567", "+923001234567"},
		{"local with leading zero", "03001234567", "+923001234567"},
		{"bare subscriber number", "3001234567", "+923001234567"},
		{"dashes and parens", "(0300) 123-4567", "+923001234567"},
		{"surrounding whitespace", "  +923001234567  ", "+923001234567"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	first, err := NormalizePhone("0300-1234567")
	require.NoError(t, err)

	second, err := NormalizePhone(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalizePhone_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"too short", "+92300123"},
		{"too long", "+9230012345678"},
		{"non-mobile prefix", "+921001234567"},
		{"letters", "+9230012345ab"},
		{"other country code", "+13001234567"},
		{"local landline", "0421234567"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizePhone(tc.input)
			assert.True(t, errors.Is(err, domainErrors.ErrInvalidPhoneNumber))
		})
	}
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "+92300*****67", MaskPhone("+923001234567"))
	// Too short to mask meaningfully; returned untouched.
	assert.Equal(t, "1234567", MaskPhone("1234567"))
}
