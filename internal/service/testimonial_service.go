package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

var ErrTestimonialNotFound = errors.New("testimonial not found")

type TestimonialService struct {
	testimonials ports.TestimonialRepository
}

func NewTestimonialService(testimonials ports.TestimonialRepository) *TestimonialService {
	return &TestimonialService{testimonials: testimonials}
}

func (s *TestimonialService) Create(ctx context.Context, input domain.TestimonialInput) (*domain.Testimonial, error) {
	input, err := normalizeTestimonialInput(input)
	if err != nil {
		return nil, err
	}
	t, err := s.testimonials.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}
	return t, nil
}

func (s *TestimonialService) Update(ctx context.Context, id uuid.UUID, input domain.TestimonialInput) (*domain.Testimonial, error) {
	input, err := normalizeTestimonialInput(input)
	if err != nil {
		return nil, err
	}
	t, err := s.testimonials.Update(ctx, id, input)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTestimonialNotFound
		}
		return nil, fmt.Errorf("update testimonial: %w", err)
	}
	return t, nil
}

func (s *TestimonialService) List(ctx context.Context, publishedOnly bool, limit, offset int) (*Page[domain.Testimonial], error) {
	limit, offset = normalizePagination(limit, offset)
	items, err := s.testimonials.List(ctx, publishedOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	total, err := s.testimonials.Count(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("count testimonials: %w", err)
	}
	return &Page[domain.Testimonial]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *TestimonialService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.testimonials.SoftDelete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrTestimonialNotFound
		}
		return err
	}
	return nil
}

func normalizeTestimonialInput(input domain.TestimonialInput) (domain.TestimonialInput, error) {
	name, err := requireText("clientName", input.ClientName, 120)
	if err != nil {
		return input, err
	}
	quote, err := requireText("quote", input.Quote, 2000)
	if err != nil {
		return input, err
	}
	if input.Rating < 1 || input.Rating > 5 {
		return input, validationError("rating must be between 1 and 5")
	}
	return domain.TestimonialInput{
		ClientName: name,
		ClientRole: normalizeString(input.ClientRole),
		Quote:      quote,
		Rating:     input.Rating,
		Published:  input.Published,
	}, nil
}
