package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
)

type BlogRepository interface {
	Create(ctx context.Context, input domain.BlogInput, slug string, createdBy *uuid.UUID) (*domain.Blog, error)
	Update(ctx context.Context, id uuid.UUID, input domain.BlogInput, slug string) (*domain.Blog, error)
	FindByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*domain.Blog, error)
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Blog, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Blog, error)
	Count(ctx context.Context, publishedOnly bool) (int64, error)
	SetCoverImage(ctx context.Context, id uuid.UUID, url string) (*domain.Blog, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
