package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
)

type TestimonialRepository interface {
	Create(ctx context.Context, input domain.TestimonialInput) (*domain.Testimonial, error)
	Update(ctx context.Context, id uuid.UUID, input domain.TestimonialInput) (*domain.Testimonial, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Testimonial, error)
	Count(ctx context.Context, publishedOnly bool) (int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
