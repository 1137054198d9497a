package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/events"
	"github.com/njprem/Estate_Site_BackEnd/internal/media"
)

type fakeBlogRepo struct {
	blogs     map[uuid.UUID]*domain.Blog
	createErr error
	lastSlug  string
	lastInput domain.BlogInput
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: map[uuid.UUID]*domain.Blog{}}
}

func (f *fakeBlogRepo) Create(ctx context.Context, input domain.BlogInput, slug string, createdBy *uuid.UUID) (*domain.Blog, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastSlug, f.lastInput = slug, input
	blog := &domain.Blog{ID: uuid.New(), Title: input.Title, Slug: slug, Content: input.Content, Tags: input.Tags, Published: input.Published, CreatedBy: createdBy}
	f.blogs[blog.ID] = blog
	return blog, nil
}

func (f *fakeBlogRepo) Update(ctx context.Context, id uuid.UUID, input domain.BlogInput, slug string) (*domain.Blog, error) {
	blog, ok := f.blogs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	blog.Title, blog.Slug = input.Title, slug
	return blog, nil
}

func (f *fakeBlogRepo) FindByID(ctx context.Context, id uuid.UUID, publishedOnly bool) (*domain.Blog, error) {
	blog, ok := f.blogs[id]
	if !ok || (publishedOnly && !blog.Published) {
		return nil, sql.ErrNoRows
	}
	return blog, nil
}

func (f *fakeBlogRepo) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Blog, error) {
	for _, blog := range f.blogs {
		if blog.Slug == slug && (!publishedOnly || blog.Published) {
			return blog, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBlogRepo) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Blog, error) {
	return nil, nil
}

func (f *fakeBlogRepo) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	return int64(len(f.blogs)), nil
}

func (f *fakeBlogRepo) SetCoverImage(ctx context.Context, id uuid.UUID, url string) (*domain.Blog, error) {
	blog, ok := f.blogs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	blog.CoverImageURL = &url
	return blog, nil
}

func (f *fakeBlogRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.blogs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.blogs, id)
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestBlogCreateNormalizesInput(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil, nil, "media")
	adminID := uuid.New()

	blog, err := svc.Create(context.Background(), adminID, domain.BlogInput{
		Title:   "  Café Living in Downtown Dubai ",
		Content: "Body",
		Tags:    []string{"Dubai", " dubai ", "", "Luxury"},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if blog.Slug != "cafe-living-in-downtown-dubai" {
		t.Fatalf("unexpected slug %q", blog.Slug)
	}
	if strings.Join(repo.lastInput.Tags, ",") != "dubai,luxury" {
		t.Fatalf("unexpected tags %v", repo.lastInput.Tags)
	}
	if blog.CreatedBy == nil || *blog.CreatedBy != adminID {
		t.Fatal("expected creator to be recorded")
	}
}

func TestBlogCreateErrors(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil, nil, "media")
	ctx := context.Background()

	if _, err := svc.Create(ctx, uuid.Nil, domain.BlogInput{Title: "!!!", Content: "x"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty slug, got %v", err)
	}
	repo.createErr = errUniqueViolation
	if _, err := svc.Create(ctx, uuid.Nil, domain.BlogInput{Title: "Same", Content: "x"}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestBlogGetHidesDrafts(t *testing.T) {
	repo := newFakeBlogRepo()
	svc := NewBlogService(repo, nil, nil, "media")
	ctx := context.Background()

	draft, err := svc.Create(ctx, uuid.Nil, domain.BlogInput{Title: "Draft Post", Content: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, draft.Slug, true); !errors.Is(err, ErrBlogNotFound) {
		t.Fatalf("expected draft to be hidden, got %v", err)
	}
	if got, err := svc.Get(ctx, draft.ID.String(), false); err != nil || got.ID != draft.ID {
		t.Fatalf("expected admin lookup by id to succeed, got %v", err)
	}
}

func TestBlogUploadCover(t *testing.T) {
	repo := newFakeBlogRepo()
	storage := &fakeStorage{}
	svc := NewBlogService(repo, storage, media.NewImageInspector(1<<20, 0), "media")
	ctx := context.Background()

	blog, err := svc.Create(ctx, uuid.Nil, domain.BlogInput{Title: "Cover", Content: "x"})
	if err != nil {
		t.Fatal(err)
	}
	data := pngBytes(t, 8, 4)
	updated, err := svc.UploadCover(ctx, blog.ID, media.Upload{Reader: bytes.NewReader(data), Size: int64(len(data)), FileName: "cover.png"})
	if err != nil {
		t.Fatalf("UploadCover returned error: %v", err)
	}
	if len(storage.uploaded) != 1 || storage.uploaded[0].contentType != "image/png" || !strings.HasPrefix(storage.uploaded[0].objectName, "blogs/"+blog.ID.String()+"/") {
		t.Fatalf("unexpected upload %+v", storage.uploaded)
	}
	if updated.CoverImageURL == nil {
		t.Fatal("expected cover url to be set")
	}

	_, err = svc.UploadCover(ctx, blog.ID, media.Upload{Reader: strings.NewReader("not an image"), Size: 12, FileName: "x.png"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for non-image, got %v", err)
	}
}

type fakeJobRepo struct {
	jobs map[uuid.UUID]*domain.Job
}

func (f *fakeJobRepo) Create(ctx context.Context, input domain.JobInput) (*domain.Job, error) {
	job := &domain.Job{ID: uuid.New(), Title: input.Title, EmploymentType: input.EmploymentType, Description: input.Description, IsOpen: input.IsOpen}
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeJobRepo) Update(ctx context.Context, id uuid.UUID, input domain.JobInput) (*domain.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	job.Title = input.Title
	return job, nil
}

func (f *fakeJobRepo) FindByID(ctx context.Context, id uuid.UUID, openOnly bool) (*domain.Job, error) {
	job, ok := f.jobs[id]
	if !ok || (openOnly && !job.IsOpen) {
		return nil, sql.ErrNoRows
	}
	return job, nil
}

func (f *fakeJobRepo) List(ctx context.Context, openOnly bool, limit, offset int) ([]domain.Job, error) {
	return nil, nil
}

func (f *fakeJobRepo) Count(ctx context.Context, openOnly bool) (int64, error) {
	return int64(len(f.jobs)), nil
}

func (f *fakeJobRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.jobs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.jobs, id)
	return nil
}

type fakeApplicationRepo struct {
	created []domain.JobApplication
	err     error
}

func (f *fakeApplicationRepo) Create(ctx context.Context, application domain.JobApplication) (*domain.JobApplication, error) {
	if f.err != nil {
		return nil, f.err
	}
	application.ID = uuid.New()
	application.CreatedAt = time.Now()
	f.created = append(f.created, application)
	return &application, nil
}

func (f *fakeApplicationRepo) ListByJob(ctx context.Context, jobID uuid.UUID, limit, offset int) ([]domain.JobApplication, error) {
	return f.created, nil
}

func (f *fakeApplicationRepo) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	return int64(len(f.created)), nil
}

func TestJobApplyStoresCVAndNotifies(t *testing.T) {
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]*domain.Job{}}
	apps := &fakeApplicationRepo{}
	storage := &fakeStorage{}
	notifier := &fakeNotifier{}
	svc := NewJobService(jobs, apps, storage, notifier, nil, JobServiceConfig{CVBucket: "cvs"})
	ctx := context.Background()

	job, err := svc.Create(ctx, domain.JobInput{Title: "Sales Agent", Description: "Sell", IsOpen: true})
	if err != nil {
		t.Fatal(err)
	}
	cv := []byte("%PDF-1.4\n% test document\n")
	application, err := svc.Apply(ctx, job.ID, JobApplicationInput{
		FullName:     "Omar",
		Email:        "Omar@Example.com",
		MobileNumber: "+971500000002",
		CV:           media.Upload{Reader: bytes.NewReader(cv), Size: int64(len(cv)), FileName: "cv.pdf"},
	})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if application.Email != "omar@example.com" || !strings.HasSuffix(application.CVObjectKey, ".pdf") {
		t.Fatalf("unexpected application %+v", application)
	}
	if len(storage.uploaded) != 1 || storage.uploaded[0].bucket != "cvs" || storage.uploaded[0].contentType != "application/pdf" {
		t.Fatalf("unexpected upload %+v", storage.uploaded)
	}
	if len(notifier.events) != 1 || notifier.events[0].Kind != events.KindJobApplicationSubmitted || notifier.events[0].Details["job_title"] != "Sales Agent" {
		t.Fatalf("unexpected events %+v", notifier.events)
	}
}

func TestJobApplyRejections(t *testing.T) {
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]*domain.Job{}}
	apps := &fakeApplicationRepo{err: errors.New("insert failed")}
	storage := &fakeStorage{}
	svc := NewJobService(jobs, apps, storage, nil, nil, JobServiceConfig{CVBucket: "cvs"})
	ctx := context.Background()

	closed, _ := svc.Create(ctx, domain.JobInput{Title: "Closed", Description: "x", IsOpen: false})
	open, _ := svc.Create(ctx, domain.JobInput{Title: "Open", Description: "x", IsOpen: true})
	base := JobApplicationInput{FullName: "Omar", Email: "o@example.com", MobileNumber: "+971500000002"}

	withCV := func(name string, data []byte) JobApplicationInput {
		in := base
		in.CV = media.Upload{Reader: bytes.NewReader(data), Size: int64(len(data)), FileName: name}
		return in
	}

	if _, err := svc.Apply(ctx, closed.ID, withCV("cv.pdf", []byte("%PDF-1.4"))); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound for closed job, got %v", err)
	}
	if _, err := svc.Apply(ctx, open.ID, withCV("cv.exe", []byte("MZ\x90\x00"))); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unsupported file, got %v", err)
	}
	if _, err := svc.Apply(ctx, open.ID, base); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing cv, got %v", err)
	}
	if _, err := svc.Apply(ctx, open.ID, withCV("cv.pdf", []byte("%PDF-1.4"))); err == nil {
		t.Fatal("expected insert failure to surface")
	}
	if len(storage.removed) != 1 {
		t.Fatalf("expected orphaned cv to be removed, got %v", storage.removed)
	}
}

type fakePropertyRepo struct {
	listCalls int
}

func (f *fakePropertyRepo) Create(ctx context.Context, input domain.PropertyInput, slug string) (*domain.Property, error) {
	return &domain.Property{ID: uuid.New(), Title: input.Title, Slug: slug, City: input.City, Price: input.Price, Currency: input.Currency, PropertyType: input.PropertyType}, nil
}

func (f *fakePropertyRepo) Update(ctx context.Context, id uuid.UUID, input domain.PropertyInput, slug string) (*domain.Property, error) {
	return nil, sql.ErrNoRows
}

func (f *fakePropertyRepo) FindByID(ctx context.Context, id uuid.UUID, publicOnly bool) (*domain.Property, error) {
	return nil, sql.ErrNoRows
}

func (f *fakePropertyRepo) FindBySlug(ctx context.Context, slug string, publicOnly bool) (*domain.Property, error) {
	return nil, sql.ErrNoRows
}

func (f *fakePropertyRepo) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	f.listCalls++
	return []domain.Property{}, nil
}

func (f *fakePropertyRepo) Count(ctx context.Context, filter domain.PropertyFilter) (int64, error) {
	return 0, nil
}

func (f *fakePropertyRepo) AppendGalleryImage(ctx context.Context, id uuid.UUID, url string) (*domain.Property, error) {
	return nil, sql.ErrNoRows
}

func (f *fakePropertyRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return sql.ErrNoRows
}

func TestPropertyCreateNormalizes(t *testing.T) {
	svc := NewPropertyService(&fakePropertyRepo{}, nil, nil, "media")

	p, err := svc.Create(context.Background(), domain.PropertyInput{
		Title:        "Marina View",
		City:         "Dubai",
		PropertyType: domain.PropertyTypeApartment,
		Price:        decimal.RequireFromString("1250000.456"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.Slug != "marina-view-dubai" || p.Currency != "AED" || p.Price.String() != "1250000.46" {
		t.Fatalf("unexpected property %+v", p)
	}
}

func TestPropertyValidation(t *testing.T) {
	repo := &fakePropertyRepo{}
	svc := NewPropertyService(repo, nil, nil, "media")
	ctx := context.Background()
	negative := -1

	bad := []domain.PropertyInput{
		{Title: "A", City: "Dubai", PropertyType: "castle", Price: decimal.NewFromInt(1)},
		{Title: "A", City: "Dubai", PropertyType: domain.PropertyTypeVilla, Price: decimal.Zero},
		{Title: "A", City: "Dubai", PropertyType: domain.PropertyTypeVilla, Price: decimal.NewFromInt(1), Bedrooms: &negative},
		{Title: "A", City: "Dubai", PropertyType: domain.PropertyTypeVilla, Price: decimal.NewFromInt(1), Currency: "DIRHAM"},
	}
	for i, in := range bad {
		if _, err := svc.Create(ctx, in); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}

	lo, hi := decimal.NewFromInt(500), decimal.NewFromInt(100)
	if _, err := svc.List(ctx, domain.PropertyFilter{MinPrice: &lo, MaxPrice: &hi}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for inverted price range, got %v", err)
	}
	page, err := svc.List(ctx, domain.PropertyFilter{Limit: 1000, Offset: -3})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Limit != 100 || page.Offset != 0 || repo.listCalls != 1 {
		t.Fatalf("unexpected pagination %+v", page)
	}
	if _, err := svc.Get(ctx, "missing-slug", true); !errors.Is(err, ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

type fakeTestimonialRepo struct {
	created []domain.TestimonialInput
}

func (f *fakeTestimonialRepo) Create(ctx context.Context, input domain.TestimonialInput) (*domain.Testimonial, error) {
	f.created = append(f.created, input)
	return &domain.Testimonial{ID: uuid.New(), ClientName: input.ClientName, Quote: input.Quote, Rating: input.Rating}, nil
}

func (f *fakeTestimonialRepo) Update(ctx context.Context, id uuid.UUID, input domain.TestimonialInput) (*domain.Testimonial, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeTestimonialRepo) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.Testimonial, error) {
	return nil, nil
}

func (f *fakeTestimonialRepo) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	return 0, nil
}

func (f *fakeTestimonialRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return sql.ErrNoRows
}

func TestTestimonialRatingBounds(t *testing.T) {
	repo := &fakeTestimonialRepo{}
	svc := NewTestimonialService(repo)
	ctx := context.Background()

	for _, rating := range []int{0, 6} {
		if _, err := svc.Create(ctx, domain.TestimonialInput{ClientName: "C", Quote: "Q", Rating: rating}); !errors.Is(err, ErrValidation) {
			t.Fatalf("rating %d: expected ErrValidation, got %v", rating, err)
		}
	}
	if _, err := svc.Create(ctx, domain.TestimonialInput{ClientName: "C", Quote: "Q", Rating: 5}); err != nil {
		t.Fatalf("expected rating 5 to be accepted, got %v", err)
	}
	if _, err := svc.Update(ctx, uuid.New(), domain.TestimonialInput{ClientName: "C", Quote: "Q", Rating: 4}); !errors.Is(err, ErrTestimonialNotFound) {
		t.Fatalf("expected ErrTestimonialNotFound, got %v", err)
	}
}

type fakeContactRepo struct {
	created []domain.ContactSubmission
	handled map[uuid.UUID]uuid.UUID
}

func (f *fakeContactRepo) Create(ctx context.Context, submission domain.ContactSubmission) (*domain.ContactSubmission, error) {
	submission.ID = uuid.New()
	f.created = append(f.created, submission)
	return &submission, nil
}

func (f *fakeContactRepo) List(ctx context.Context, handled *bool, limit, offset int) ([]domain.ContactSubmission, error) {
	return f.created, nil
}

func (f *fakeContactRepo) Count(ctx context.Context, handled *bool) (int64, error) {
	return int64(len(f.created)), nil
}

func (f *fakeContactRepo) MarkHandled(ctx context.Context, id, adminID uuid.UUID, at time.Time) (*domain.ContactSubmission, error) {
	for _, c := range f.created {
		if c.ID == id {
			f.handled[id] = adminID
			c.Handled, c.HandledBy, c.HandledAt = true, &adminID, &at
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func TestContactSubmitNotifiesAdmins(t *testing.T) {
	repo := &fakeContactRepo{handled: map[uuid.UUID]uuid.UUID{}}
	notifier := &fakeNotifier{}
	svc := NewContactService(repo, notifier, nil)
	ctx := context.Background()
	subject := "Viewing request"

	submission, err := svc.Submit(ctx, ContactInput{FullName: "Lead", Email: "Lead@Example.com", Subject: &subject, Message: "Call me"})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if submission.Email != "lead@example.com" {
		t.Fatalf("expected normalized email, got %s", submission.Email)
	}
	if len(notifier.events) != 1 || notifier.events[0].Kind != events.KindContactSubmitted || notifier.events[0].Details["subject"] != subject {
		t.Fatalf("unexpected events %+v", notifier.events)
	}

	adminID := uuid.New()
	handled, err := svc.MarkHandled(ctx, submission.ID, adminID)
	if err != nil || !handled.Handled || *handled.HandledBy != adminID {
		t.Fatalf("unexpected MarkHandled result %+v / %v", handled, err)
	}
	if _, err := svc.MarkHandled(ctx, uuid.New(), adminID); !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
	if _, err := svc.Submit(ctx, ContactInput{FullName: "Lead", Email: "lead@example.com"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty message, got %v", err)
	}
}
