package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

const testimonialColumns = `id, client_name, client_role, quote, rating, published, created_at, updated_at, deleted_at`

type TestimonialRepository struct {
	db *sqlx.DB
}

func NewTestimonialRepo(db *sqlx.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

func (r *TestimonialRepository) Create(ctx context.Context, input domain.TestimonialInput) (*domain.Testimonial, error) {
	const query = `
        INSERT INTO testimonial (client_name, client_role, quote, rating, published)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + testimonialColumns
	row := r.db.QueryRowxContext(ctx, query, input.ClientName, nullString(input.ClientRole), input.Quote, input.Rating, input.Published)
	var testimonial domain.Testimonial
	if err := row.StructScan(&testimonial); err != nil {
		return nil, err
	}
	return &testimonial, nil
}

func (r *TestimonialRepository) Update(ctx context.Context, id uuid.UUID, input domain.TestimonialInput) (*domain.Testimonial, error) {
	const query = `
        UPDATE testimonial
        SET client_name = $2,
            client_role = $3,
            quote = $4,
            rating = $5,
            published = $6,
            updated_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL
        RETURNING ` + testimonialColumns
	row := r.db.QueryRowxContext(ctx, query, id, input.ClientName, nullString(input.ClientRole), input.Quote, input.Rating, input.Published)
	var testimonial domain.Testimonial
	if err := row.StructScan(&testimonial); err != nil {
		return nil, err
	}
	return &testimonial, nil
}

func (r *TestimonialRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Testimonial, error) {
	const query = `
        SELECT ` + testimonialColumns + `
        FROM testimonial
        WHERE deleted_at IS NULL AND (published OR NOT $1)
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	testimonials := []domain.Testimonial{}
	if err := r.db.SelectContext(ctx, &testimonials, query, publishedOnly, limit, offset); err != nil {
		return nil, err
	}
	return testimonials, nil
}

func (r *TestimonialRepository) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	const query = `SELECT COUNT(*) FROM testimonial WHERE deleted_at IS NULL AND (published OR NOT $1)`
	var total int64
	if err := r.db.GetContext(ctx, &total, query, publishedOnly); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *TestimonialRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE testimonial SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	return execExpectingRow(ctx, r.db, query, id)
}

var _ ports.TestimonialRepository = (*TestimonialRepository)(nil)
