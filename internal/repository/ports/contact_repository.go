package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
)

type ContactRepository interface {
	Create(ctx context.Context, submission domain.ContactSubmission) (*domain.ContactSubmission, error)
	List(ctx context.Context, handled *bool, limit, offset int) ([]domain.ContactSubmission, error)
	Count(ctx context.Context, handled *bool) (int64, error)
	MarkHandled(ctx context.Context, id, adminID uuid.UUID, at time.Time) (*domain.ContactSubmission, error)
}
