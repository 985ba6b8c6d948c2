package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the account record keyed by phone number. It is created
// lazily on the first successful OTP verification and never deleted by
// this service. Profile attributes live in the profile service.
type User struct {
	ID          uuid.UUID  `db:"id"`
	PhoneNumber string     `db:"phone_number"`
	CreatedAt   time.Time  `db:"created_at"`
	LastLoginAt *time.Time `db:"last_login_at"`
}

// UserResponse is the minimal user summary returned after verification.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
	}
}
