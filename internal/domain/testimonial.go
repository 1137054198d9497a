package domain

import (
	"time"

	"github.com/google/uuid"
)

type Testimonial struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ClientName string     `db:"client_name" json:"clientName"`
	ClientRole *string    `db:"client_role" json:"clientRole,omitempty"`
	Quote      string     `db:"quote" json:"quote"`
	Rating     int        `db:"rating" json:"rating"`
	Published  bool       `db:"published" json:"published"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt  *time.Time `db:"deleted_at" json:"-"`
}

type TestimonialInput struct {
	ClientName string
	ClientRole *string
	Quote      string
	Rating     int
	Published  bool
}
