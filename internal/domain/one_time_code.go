package domain

import (
	"time"

	"github.com/google/uuid"
)

type OTPPurpose string

const (
	OTPPurposeRegistration OTPPurpose = "registration"
	OTPPurposeLogin        OTPPurpose = "login"
)

func (p OTPPurpose) Valid() bool {
	return p == OTPPurposeRegistration || p == OTPPurposeLogin
}

// OneTimeCode is a ledger row. Rows are never updated except to flip Used
// or bump Attempts; a used or expired row can never be matched again.
type OneTimeCode struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	MobileNumber *string    `db:"mobile_number" json:"mobileNumber,omitempty"`
	Code         string     `db:"code" json:"-"`
	Purpose      OTPPurpose `db:"purpose" json:"purpose"`
	Used         bool       `db:"used" json:"used"`
	ExpiresAt    time.Time  `db:"expires_at" json:"expiresAt"`
	Attempts     int        `db:"attempts" json:"attempts"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}
