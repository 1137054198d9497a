package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
)

type JobRepository interface {
	Create(ctx context.Context, input domain.JobInput) (*domain.Job, error)
	Update(ctx context.Context, id uuid.UUID, input domain.JobInput) (*domain.Job, error)
	FindByID(ctx context.Context, id uuid.UUID, openOnly bool) (*domain.Job, error)
	List(ctx context.Context, openOnly bool, limit, offset int) ([]domain.Job, error)
	Count(ctx context.Context, openOnly bool) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type JobApplicationRepository interface {
	Create(ctx context.Context, application domain.JobApplication) (*domain.JobApplication, error)
	ListByJob(ctx context.Context, jobID uuid.UUID, limit, offset int) ([]domain.JobApplication, error)
	CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error)
}
