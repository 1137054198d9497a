// Package events carries the notifications raised after registration, contact
// and job application submissions, either through RabbitMQ or inline.
package events

import (
	"context"
	"time"
)

type Kind string

const (
	KindWebUserRegistered       Kind = "web_user.registered"
	KindContactSubmitted        Kind = "contact.submitted"
	KindJobApplicationSubmitted Kind = "job_application.submitted"
)

type Event struct {
	Kind         Kind              `json:"kind"`
	OccurredAt   time.Time         `json:"occurred_at"`
	Email        string            `json:"email"`
	FullName     string            `json:"full_name"`
	MobileNumber string            `json:"mobile_number,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
}

// Notifier is implemented by every delivery path for events.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}
