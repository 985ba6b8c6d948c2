package models

import (
	"time"

	"github.com/google/uuid"
)

// OtpCode is a one-time code issued to a phone number. At most one
// code per phone is active (consumed_at null, expires_at in the
// future); issuing a new one consumes any prior active code.
//
// Rows are keyed by phone, not by user: a code can exist before the
// user record does.
type OtpCode struct {
	ID          uuid.UUID  `db:"id"`
	PhoneNumber string     `db:"phone_number"`
	Code        string     `db:"code"`
	ExpiresAt   time.Time  `db:"expires_at"`
	ConsumedAt  *time.Time `db:"consumed_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

// IsExpired reports whether the code's validity window has passed.
func (o *OtpCode) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// IsConsumed reports whether the code was already used.
func (o *OtpCode) IsConsumed() bool {
	return o.ConsumedAt != nil
}
