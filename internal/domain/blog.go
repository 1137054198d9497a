package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Blog struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	Title         string         `db:"title" json:"title"`
	Slug          string         `db:"slug" json:"slug"`
	Summary       *string        `db:"summary" json:"summary,omitempty"`
	Content       string         `db:"content" json:"content"`
	CoverImageURL *string        `db:"cover_image_url" json:"coverImageUrl,omitempty"`
	Author        *string        `db:"author" json:"author,omitempty"`
	Tags          pq.StringArray `db:"tags" json:"tags"`
	Published     bool           `db:"published" json:"published"`
	PublishedAt   *time.Time     `db:"published_at" json:"publishedAt,omitempty"`
	CreatedBy     *uuid.UUID     `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
	DeletedAt     *time.Time     `db:"deleted_at" json:"-"`
}

type BlogInput struct {
	Title     string
	Summary   *string
	Content   string
	Author    *string
	Tags      []string
	Published bool
}
