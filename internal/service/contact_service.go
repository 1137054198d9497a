package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/events"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

var ErrContactNotFound = errors.New("contact submission not found")

type ContactInput struct {
	FullName     string
	Email        string
	MobileNumber *string
	Subject      *string
	Message      string
	PropertyID   *uuid.UUID
}

type ContactService struct {
	contacts ports.ContactRepository
	notifier events.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewContactService(contacts ports.ContactRepository, notifier events.Notifier, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{contacts: contacts, notifier: notifier, logger: logger, now: time.Now}
}

func (s *ContactService) Submit(ctx context.Context, input ContactInput) (*domain.ContactSubmission, error) {
	fullName, err := requireText("fullName", input.FullName, 120)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	mobile := normalizeString(input.MobileNumber)
	if mobile != nil {
		if err := validateMobile(*mobile); err != nil {
			return nil, err
		}
	}
	message, err := requireText("message", input.Message, 5000)
	if err != nil {
		return nil, err
	}

	submission, err := s.contacts.Create(ctx, domain.ContactSubmission{
		FullName:     fullName,
		Email:        email,
		MobileNumber: mobile,
		Subject:      normalizeString(input.Subject),
		Message:      message,
		PropertyID:   input.PropertyID,
	})
	if err != nil {
		return nil, fmt.Errorf("create contact submission: %w", err)
	}

	if s.notifier != nil {
		event := events.Event{
			Kind:       events.KindContactSubmitted,
			OccurredAt: s.now().UTC(),
			Email:      submission.Email,
			FullName:   submission.FullName,
			Details:    map[string]string{"message": submission.Message},
		}
		if submission.MobileNumber != nil {
			event.MobileNumber = *submission.MobileNumber
		}
		if submission.Subject != nil {
			event.Details["subject"] = *submission.Subject
		}
		if submission.PropertyID != nil {
			event.Details["property_id"] = submission.PropertyID.String()
		}
		if err := s.notifier.Notify(ctx, event); err != nil {
			s.logger.Warn("contact notification failed", zap.String("submission_id", submission.ID.String()), zap.Error(err))
		}
	}
	return submission, nil
}

func (s *ContactService) List(ctx context.Context, handled *bool, limit, offset int) (*Page[domain.ContactSubmission], error) {
	limit, offset = normalizePagination(limit, offset)
	items, err := s.contacts.List(ctx, handled, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	total, err := s.contacts.Count(ctx, handled)
	if err != nil {
		return nil, fmt.Errorf("count contact submissions: %w", err)
	}
	return &Page[domain.ContactSubmission]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *ContactService) MarkHandled(ctx context.Context, id, adminID uuid.UUID) (*domain.ContactSubmission, error) {
	submission, err := s.contacts.MarkHandled(ctx, id, adminID, s.now().UTC())
	if err != nil {
		if isNotFound(err) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return submission, nil
}
