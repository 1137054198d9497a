package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/media"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

var ErrPropertyNotFound = errors.New("property not found")

const (
	defaultCurrency  = "AED"
	maxGalleryImages = 30
)

type PropertyService struct {
	properties ports.PropertyRepository
	storage    ports.ObjectStorage
	images     *media.ImageInspector
	bucket     string
	now        func() time.Time
}

func NewPropertyService(properties ports.PropertyRepository, storage ports.ObjectStorage, images *media.ImageInspector, bucket string) *PropertyService {
	return &PropertyService{properties: properties, storage: storage, images: images, bucket: bucket, now: time.Now}
}

func (s *PropertyService) Create(ctx context.Context, input domain.PropertyInput) (*domain.Property, error) {
	input, slug, err := normalizePropertyInput(input)
	if err != nil {
		return nil, err
	}
	property, err := s.properties.Create(ctx, input, slug)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create property: %w", err)
	}
	return property, nil
}

func (s *PropertyService) Update(ctx context.Context, id uuid.UUID, input domain.PropertyInput) (*domain.Property, error) {
	input, slug, err := normalizePropertyInput(input)
	if err != nil {
		return nil, err
	}
	property, err := s.properties.Update(ctx, id, input, slug)
	if err != nil {
		switch {
		case isNotFound(err):
			return nil, ErrPropertyNotFound
		case isUniqueViolation(err):
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update property: %w", err)
	}
	return property, nil
}

func (s *PropertyService) Get(ctx context.Context, idOrSlug string, publicOnly bool) (*domain.Property, error) {
	var (
		property *domain.Property
		err      error
	)
	if id, slug, isID := parseIDOrSlug(strings.TrimSpace(idOrSlug)); isID {
		property, err = s.properties.FindByID(ctx, id, publicOnly)
	} else {
		property, err = s.properties.FindBySlug(ctx, slug, publicOnly)
	}
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return property, nil
}

func (s *PropertyService) List(ctx context.Context, filter domain.PropertyFilter) (*Page[domain.Property], error) {
	filter.Limit, filter.Offset = normalizePagination(filter.Limit, filter.Offset)
	filter.City = strings.TrimSpace(filter.City)
	if filter.PropertyType != "" && !filter.PropertyType.Valid() {
		return nil, validationError("type is not a known property type")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, validationError("minPrice cannot be greater than maxPrice")
	}

	items, err := s.properties.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	total, err := s.properties.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}
	return &Page[domain.Property]{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (s *PropertyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.properties.SoftDelete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrPropertyNotFound
		}
		return err
	}
	return nil
}

func (s *PropertyService) AddImage(ctx context.Context, id uuid.UUID, upload media.Upload) (*domain.Property, error) {
	property, err := s.properties.FindByID(ctx, id, false)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if len(property.Gallery) >= maxGalleryImages {
		return nil, validationError("a property can hold at most %d images", maxGalleryImages)
	}
	url, err := storeImage(ctx, s.storage, s.images, s.bucket, "properties", id, upload, s.now())
	if err != nil {
		return nil, err
	}
	updated, err := s.properties.AppendGalleryImage(ctx, id, url)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return updated, nil
}

func normalizePropertyInput(input domain.PropertyInput) (domain.PropertyInput, string, error) {
	title, err := requireText("title", input.Title, 200)
	if err != nil {
		return input, "", err
	}
	city, err := requireText("city", input.City, 100)
	if err != nil {
		return input, "", err
	}
	if !input.PropertyType.Valid() {
		return input, "", validationError("propertyType is not a known property type")
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return input, "", validationError("price must be greater than zero")
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if len(currency) != 3 {
		return input, "", validationError("currency must be a 3 letter code")
	}
	counts := []struct {
		field string
		value *int
	}{
		{"bedrooms", input.Bedrooms},
		{"bathrooms", input.Bathrooms},
		{"areaSqft", input.AreaSqft},
	}
	for _, c := range counts {
		if c.value != nil && *c.value < 0 {
			return input, "", validationError("%s cannot be negative", c.field)
		}
	}
	slug := util.Slugify(title + " " + city)
	if slug == "" {
		return input, "", validationError("title must contain letters or digits")
	}

	return domain.PropertyInput{
		Title:         title,
		Description:   normalizeString(input.Description),
		PropertyType:  input.PropertyType,
		City:          city,
		Address:       normalizeString(input.Address),
		DeveloperName: normalizeString(input.DeveloperName),
		Price:         input.Price.Round(2),
		Currency:      currency,
		Bedrooms:      input.Bedrooms,
		Bathrooms:     input.Bathrooms,
		AreaSqft:      input.AreaSqft,
		Featured:      input.Featured,
		Published:     input.Published,
	}, slug, nil
}
