package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
)

type PropertyRepository interface {
	Create(ctx context.Context, input domain.PropertyInput, slug string) (*domain.Property, error)
	Update(ctx context.Context, id uuid.UUID, input domain.PropertyInput, slug string) (*domain.Property, error)
	FindByID(ctx context.Context, id uuid.UUID, publicOnly bool) (*domain.Property, error)
	FindBySlug(ctx context.Context, slug string, publicOnly bool) (*domain.Property, error)
	List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error)
	Count(ctx context.Context, filter domain.PropertyFilter) (int64, error)
	AppendGalleryImage(ctx context.Context, id uuid.UUID, url string) (*domain.Property, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
