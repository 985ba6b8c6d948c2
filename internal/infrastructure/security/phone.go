package security

import (
	"regexp"
	"strings"

	domainErrors "github.com/abdur1547/roombridge/services/auth-service/internal/domain/errors"
)

// canonicalPhone is the wire format: +92 followed by a mobile
// subscriber number starting with 3.
var canonicalPhone = regexp.MustCompile(`^\+923[0-9]{9}$`)

var phoneJunk = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// NormalizePhone canonicalizes a raw phone string to +92XXXXXXXXXX.
// Accepted inputs: +92..., 0092..., 92..., 03..., 3... with any
// spacing or punctuation. Pure function; idempotent on canonical
// input.
func NormalizePhone(raw string) (string, error) {
	p := phoneJunk.Replace(strings.TrimSpace(raw))
	if p == "" {
		return "", domainErrors.ErrInvalidPhoneNumber
	}

	switch {
	case strings.HasPrefix(p, "+92"):
		// already international
	case strings.HasPrefix(p, "0092"):
		p = "+92" + p[4:]
	case strings.HasPrefix(p, "92"):
		p = "+" + p
	case strings.HasPrefix(p, "0"):
		p = "+92" + p[1:]
	case strings.HasPrefix(p, "3"):
		p = "+92" + p
	default:
		return "", domainErrors.ErrInvalidPhoneNumber
	}

	if !canonicalPhone.MatchString(p) {
		return "", domainErrors.ErrInvalidPhoneNumber
	}
	return p, nil
}

// MaskPhone hides the middle digits of a canonical number for
// responses and logs: +923001234567 -> +92300*****67.
func MaskPhone(phone string) string {
	if len(phone) < 8 {
		return phone
	}
	return phone[:6] + strings.Repeat("*", len(phone)-8) + phone[len(phone)-2:]
}
