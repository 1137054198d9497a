package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

const propertyColumns = `id, title, slug, description, property_type, city, address, developer_name, price, currency, bedrooms, bathrooms, area_sqft, gallery, featured, published, created_at, updated_at, deleted_at`

type PropertyRepository struct {
	db *sqlx.DB
}

func NewPropertyRepo(db *sqlx.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, input domain.PropertyInput, slug string) (*domain.Property, error) {
	const query = `
        INSERT INTO property_listing (
            title, slug, description, property_type, city, address, developer_name,
            price, currency, bedrooms, bathrooms, area_sqft, featured, published
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING ` + propertyColumns
	row := r.db.QueryRowxContext(ctx, query, propertyArgs(input, slug)...)
	var property domain.Property
	if err := row.StructScan(&property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepository) Update(ctx context.Context, id uuid.UUID, input domain.PropertyInput, slug string) (*domain.Property, error) {
	const query = `
        UPDATE property_listing
        SET title = $1,
            slug = $2,
            description = $3,
            property_type = $4,
            city = $5,
            address = $6,
            developer_name = $7,
            price = $8,
            currency = $9,
            bedrooms = $10,
            bathrooms = $11,
            area_sqft = $12,
            featured = $13,
            published = $14,
            updated_at = NOW()
        WHERE id = $15 AND deleted_at IS NULL
        RETURNING ` + propertyColumns
	args := append(propertyArgs(input, slug), id)
	row := r.db.QueryRowxContext(ctx, query, args...)
	var property domain.Property
	if err := row.StructScan(&property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id uuid.UUID, publicOnly bool) (*domain.Property, error) {
	const query = `
        SELECT ` + propertyColumns + `
        FROM property_listing
        WHERE id = $1 AND deleted_at IS NULL AND (published OR NOT $2)
    `
	var property domain.Property
	if err := r.db.GetContext(ctx, &property, query, id, publicOnly); err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepository) FindBySlug(ctx context.Context, slug string, publicOnly bool) (*domain.Property, error) {
	const query = `
        SELECT ` + propertyColumns + `
        FROM property_listing
        WHERE slug = $1 AND deleted_at IS NULL AND (published OR NOT $2)
    `
	var property domain.Property
	if err := r.db.GetContext(ctx, &property, query, slug, publicOnly); err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepository) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	where, params := propertyWhere(filter)

	var builder strings.Builder
	builder.WriteString(`SELECT ` + propertyColumns + ` FROM property_listing`)
	builder.WriteString(where)
	builder.WriteString(fmt.Sprintf(" ORDER BY featured DESC, created_at DESC LIMIT $%d OFFSET $%d", len(params)+1, len(params)+2))
	params = append(params, filter.Limit, filter.Offset)

	properties := []domain.Property{}
	if err := r.db.SelectContext(ctx, &properties, builder.String(), params...); err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *PropertyRepository) Count(ctx context.Context, filter domain.PropertyFilter) (int64, error) {
	where, params := propertyWhere(filter)
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM property_listing`+where, params...); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PropertyRepository) AppendGalleryImage(ctx context.Context, id uuid.UUID, url string) (*domain.Property, error) {
	const query = `
        UPDATE property_listing
        SET gallery = array_append(COALESCE(gallery, '{}'::text[]), $2),
            updated_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL
        RETURNING ` + propertyColumns
	row := r.db.QueryRowxContext(ctx, query, id, url)
	var property domain.Property
	if err := row.StructScan(&property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE property_listing SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	return execExpectingRow(ctx, r.db, query, id)
}

func propertyArgs(input domain.PropertyInput, slug string) []any {
	return []any{
		input.Title,
		slug,
		nullString(input.Description),
		input.PropertyType,
		input.City,
		nullString(input.Address),
		nullString(input.DeveloperName),
		input.Price,
		input.Currency,
		nullInt(input.Bedrooms),
		nullInt(input.Bathrooms),
		nullInt(input.AreaSqft),
		input.Featured,
		input.Published,
	}
}

func propertyWhere(filter domain.PropertyFilter) (string, []any) {
	params := make([]any, 0, 4)
	var builder strings.Builder
	builder.WriteString(" WHERE deleted_at IS NULL")

	if filter.PublicOnly {
		builder.WriteString(" AND published")
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		params = append(params, city)
		builder.WriteString(fmt.Sprintf(" AND LOWER(city) = LOWER($%d)", len(params)))
	}
	if filter.PropertyType != "" {
		params = append(params, filter.PropertyType)
		builder.WriteString(fmt.Sprintf(" AND property_type = $%d", len(params)))
	}
	if filter.MinPrice != nil {
		params = append(params, *filter.MinPrice)
		builder.WriteString(fmt.Sprintf(" AND price >= $%d", len(params)))
	}
	if filter.MaxPrice != nil {
		params = append(params, *filter.MaxPrice)
		builder.WriteString(fmt.Sprintf(" AND price <= $%d", len(params)))
	}
	return builder.String(), params
}

var _ ports.PropertyRepository = (*PropertyRepository)(nil)
