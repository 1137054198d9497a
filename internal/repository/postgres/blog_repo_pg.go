package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

const blogColumns = `id, title, slug, summary, content, cover_image_url, author, tags, published, published_at, created_by, created_at, updated_at, deleted_at`

type BlogRepository struct {
	db *sqlx.DB
}

func NewBlogRepo(db *sqlx.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) Create(ctx context.Context, input domain.BlogInput, slug string, createdBy *uuid.UUID) (*domain.Blog, error) {
	const query = `
        INSERT INTO blog_post (title, slug, summary, content, author, tags, published, published_at, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, CASE WHEN $7 THEN NOW() END, $8)
        RETURNING ` + blogColumns
	row := r.db.QueryRowxContext(ctx, query,
		input.Title,
		slug,
		nullString(input.Summary),
		input.Content,
		nullString(input.Author),
		pq.StringArray(input.Tags),
		input.Published,
		createdBy,
	)
	var blog domain.Blog
	if err := row.StructScan(&blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *BlogRepository) Update(ctx context.Context, id uuid.UUID, input domain.BlogInput, slug string) (*domain.Blog, error) {
	const query = `
        UPDATE blog_post
        SET title = $2,
            slug = $3,
            summary = $4,
            content = $5,
            author = $6,
            tags = $7,
            published = $8,
            published_at = CASE
                WHEN $8 AND published_at IS NULL THEN NOW()
                WHEN NOT $8 THEN NULL
                ELSE published_at
            END,
            updated_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL
        RETURNING ` + blogColumns
	row := r.db.QueryRowxContext(ctx, query,
		id,
		input.Title,
		slug,
		nullString(input.Summary),
		input.Content,
		nullString(input.Author),
		pq.StringArray(input.Tags),
		input.Published,
	)
	var blog domain.Blog
	if err := row.StructScan(&blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *BlogRepository) FindByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*domain.Blog, error) {
	const query = `
        SELECT ` + blogColumns + `
        FROM blog_post
        WHERE id = $1 AND deleted_at IS NULL AND (published OR NOT $2)
    `
	var blog domain.Blog
	if err := r.db.GetContext(ctx, &blog, query, id, publishedOnly); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *BlogRepository) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Blog, error) {
	const query = `
        SELECT ` + blogColumns + `
        FROM blog_post
        WHERE slug = $1 AND deleted_at IS NULL AND (published OR NOT $2)
    `
	var blog domain.Blog
	if err := r.db.GetContext(ctx, &blog, query, slug, publishedOnly); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *BlogRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Blog, error) {
	const query = `
        SELECT ` + blogColumns + `
        FROM blog_post
        WHERE deleted_at IS NULL AND (published OR NOT $1)
        ORDER BY COALESCE(published_at, created_at) DESC
        LIMIT $2 OFFSET $3
    `
	blogs := []domain.Blog{}
	if err := r.db.SelectContext(ctx, &blogs, query, publishedOnly, limit, offset); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *BlogRepository) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	const query = `SELECT COUNT(*) FROM blog_post WHERE deleted_at IS NULL AND (published OR NOT $1)`
	var total int64
	if err := r.db.GetContext(ctx, &total, query, publishedOnly); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *BlogRepository) SetCoverImage(ctx context.Context, id uuid.UUID, url string) (*domain.Blog, error) {
	const query = `
        UPDATE blog_post
        SET cover_image_url = $2,
            updated_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL
        RETURNING ` + blogColumns
	row := r.db.QueryRowxContext(ctx, query, id, url)
	var blog domain.Blog
	if err := row.StructScan(&blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *BlogRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE blog_post SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	return execExpectingRow(ctx, r.db, query, id)
}

// execExpectingRow runs a mutation and reports sql.ErrNoRows when it touched nothing.
func execExpectingRow(ctx context.Context, db *sqlx.DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

var _ ports.BlogRepository = (*BlogRepository)(nil)
