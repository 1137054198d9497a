package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/media"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

var (
	ErrBlogNotFound = errors.New("blog not found")
	ErrSlugTaken    = errors.New("slug already in use")
)

const maxBlogTags = 10

type BlogService struct {
	blogs   ports.BlogRepository
	storage ports.ObjectStorage
	images  *media.ImageInspector
	bucket  string
	now     func() time.Time
}

func NewBlogService(blogs ports.BlogRepository, storage ports.ObjectStorage, images *media.ImageInspector, bucket string) *BlogService {
	return &BlogService{blogs: blogs, storage: storage, images: images, bucket: bucket, now: time.Now}
}

func (s *BlogService) Create(ctx context.Context, createdBy uuid.UUID, input domain.BlogInput) (*domain.Blog, error) {
	input, slug, err := normalizeBlogInput(input)
	if err != nil {
		return nil, err
	}
	var author *uuid.UUID
	if createdBy != uuid.Nil {
		author = &createdBy
	}
	blog, err := s.blogs.Create(ctx, input, slug, author)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return blog, nil
}

func (s *BlogService) Update(ctx context.Context, id uuid.UUID, input domain.BlogInput) (*domain.Blog, error) {
	input, slug, err := normalizeBlogInput(input)
	if err != nil {
		return nil, err
	}
	blog, err := s.blogs.Update(ctx, id, input, slug)
	if err != nil {
		switch {
		case isNotFound(err):
			return nil, ErrBlogNotFound
		case isUniqueViolation(err):
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return blog, nil
}

// Get resolves a blog by UUID or slug. Public callers only see published posts.
func (s *BlogService) Get(ctx context.Context, idOrSlug string, publishedOnly bool) (*domain.Blog, error) {
	var (
		blog *domain.Blog
		err  error
	)
	if id, slug, isID := parseIDOrSlug(strings.TrimSpace(idOrSlug)); isID {
		blog, err = s.blogs.FindByID(ctx, id, publishedOnly)
	} else {
		blog, err = s.blogs.FindBySlug(ctx, slug, publishedOnly)
	}
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return blog, nil
}

func (s *BlogService) List(ctx context.Context, publishedOnly bool, limit, offset int) (*Page[domain.Blog], error) {
	limit, offset = normalizePagination(limit, offset)
	blogs, err := s.blogs.List(ctx, publishedOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	total, err := s.blogs.Count(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("count blogs: %w", err)
	}
	return &Page[domain.Blog]{Items: blogs, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *BlogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.blogs.SoftDelete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrBlogNotFound
		}
		return err
	}
	return nil
}

func (s *BlogService) UploadCover(ctx context.Context, id uuid.UUID, upload media.Upload) (*domain.Blog, error) {
	if _, err := s.blogs.FindByID(ctx, id, false); err != nil {
		if isNotFound(err) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	url, err := storeImage(ctx, s.storage, s.images, s.bucket, "blogs", id, upload, s.now())
	if err != nil {
		return nil, err
	}
	blog, err := s.blogs.SetCoverImage(ctx, id, url)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return blog, nil
}

func normalizeBlogInput(input domain.BlogInput) (domain.BlogInput, string, error) {
	title, err := requireText("title", input.Title, 200)
	if err != nil {
		return input, "", err
	}
	content, err := requireText("content", input.Content, 0)
	if err != nil {
		return input, "", err
	}
	slug := util.Slugify(title)
	if slug == "" {
		return input, "", validationError("title must contain letters or digits")
	}

	tags := make([]string, 0, len(input.Tags))
	seen := make(map[string]struct{}, len(input.Tags))
	for _, tag := range input.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) > maxBlogTags {
		return input, "", validationError("at most %d tags are allowed", maxBlogTags)
	}

	return domain.BlogInput{
		Title:     title,
		Summary:   normalizeString(input.Summary),
		Content:   content,
		Author:    normalizeString(input.Author),
		Tags:      tags,
		Published: input.Published,
	}, slug, nil
}
