package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebUser is a site visitor account created through OTP registration or Google sign-in.
type WebUser struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"fullName"`
	Email        string    `db:"email" json:"email"`
	MobileNumber *string   `db:"mobile_number" json:"mobileNumber,omitempty"`
	Location     *string   `db:"location" json:"location,omitempty"`
	Company      *string   `db:"company" json:"company,omitempty"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	PasswordSalt []byte    `db:"password_salt" json:"-"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type NewWebUser struct {
	FullName     string
	Email        string
	MobileNumber *string
	Location     *string
	Company      *string
	PasswordHash []byte
	PasswordSalt []byte
}
