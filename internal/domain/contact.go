package domain

import (
	"time"

	"github.com/google/uuid"
)

type ContactSubmission struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FullName     string     `db:"full_name" json:"fullName"`
	Email        string     `db:"email" json:"email"`
	MobileNumber *string    `db:"mobile_number" json:"mobileNumber,omitempty"`
	Subject      *string    `db:"subject" json:"subject,omitempty"`
	Message      string     `db:"message" json:"message"`
	PropertyID   *uuid.UUID `db:"property_id" json:"propertyId,omitempty"`
	Handled      bool       `db:"handled" json:"handled"`
	HandledBy    *uuid.UUID `db:"handled_by" json:"handledBy,omitempty"`
	HandledAt    *time.Time `db:"handled_at" json:"handledAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}
