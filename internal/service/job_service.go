package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/events"
	"github.com/njprem/Estate_Site_BackEnd/internal/media"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

var ErrJobNotFound = errors.New("job not found")

const defaultCVMaxBytes = int64(5 * 1024 * 1024)

type JobApplicationInput struct {
	FullName     string
	Email        string
	MobileNumber string
	CoverLetter  *string
	CV           media.Upload
}

type JobServiceConfig struct {
	CVBucket   string
	CVMaxBytes int64
}

type JobService struct {
	jobs         ports.JobRepository
	applications ports.JobApplicationRepository
	storage      ports.ObjectStorage
	notifier     events.Notifier
	logger       *zap.Logger

	cvBucket   string
	cvMaxBytes int64
	now        func() time.Time
}

func NewJobService(jobs ports.JobRepository, applications ports.JobApplicationRepository, storage ports.ObjectStorage, notifier events.Notifier, logger *zap.Logger, cfg JobServiceConfig) *JobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxBytes := cfg.CVMaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultCVMaxBytes
	}
	return &JobService{
		jobs:         jobs,
		applications: applications,
		storage:      storage,
		notifier:     notifier,
		logger:       logger,
		cvBucket:     cfg.CVBucket,
		cvMaxBytes:   maxBytes,
		now:          time.Now,
	}
}

func (s *JobService) Create(ctx context.Context, input domain.JobInput) (*domain.Job, error) {
	input, err := normalizeJobInput(input)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

func (s *JobService) Update(ctx context.Context, id uuid.UUID, input domain.JobInput) (*domain.Job, error) {
	input, err := normalizeJobInput(input)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.Update(ctx, id, input)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

func (s *JobService) Get(ctx context.Context, id uuid.UUID, openOnly bool) (*domain.Job, error) {
	job, err := s.jobs.FindByID(ctx, id, openOnly)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *JobService) List(ctx context.Context, openOnly bool, limit, offset int) (*Page[domain.Job], error) {
	limit, offset = normalizePagination(limit, offset)
	jobs, err := s.jobs.List(ctx, openOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	total, err := s.jobs.Count(ctx, openOnly)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	return &Page[domain.Job]{Items: jobs, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.jobs.SoftDelete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrJobNotFound
		}
		return err
	}
	return nil
}

// Apply stores the CV in object storage, records the application against an
// open job and raises a notification for the hiring team.
func (s *JobService) Apply(ctx context.Context, jobID uuid.UUID, input JobApplicationInput) (*domain.JobApplication, error) {
	fullName, err := requireText("fullName", input.FullName, 120)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	mobile := strings.TrimSpace(input.MobileNumber)
	if mobile == "" {
		return nil, validationError("mobileNumber is required")
	}
	if err := validateMobile(mobile); err != nil {
		return nil, err
	}
	if input.CV.Reader == nil {
		return nil, validationError("cv file is required")
	}

	job, err := s.jobs.FindByID(ctx, jobID, true)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	doc, err := media.InspectCV(input.CV, s.cvMaxBytes)
	if err != nil {
		return nil, mediaError(err)
	}
	objectKey := fmt.Sprintf("applications/%s/%s_%s%s", job.ID, s.now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8], doc.Extension)
	url, err := s.storage.Upload(ctx, s.cvBucket, objectKey, doc.ContentType, bytes.NewReader(doc.Bytes), int64(len(doc.Bytes)))
	if err != nil {
		return nil, fmt.Errorf("upload cv: %w", err)
	}

	application, err := s.applications.Create(ctx, domain.JobApplication{
		JobID:        job.ID,
		FullName:     fullName,
		Email:        email,
		MobileNumber: mobile,
		CoverLetter:  normalizeString(input.CoverLetter),
		CVObjectKey:  objectKey,
		CVURL:        url,
	})
	if err != nil {
		if rmErr := s.storage.Remove(ctx, s.cvBucket, objectKey); rmErr != nil {
			s.logger.Warn("remove orphaned cv failed", zap.String("object", objectKey), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("create job application: %w", err)
	}

	if s.notifier != nil {
		err := s.notifier.Notify(ctx, events.Event{
			Kind:         events.KindJobApplicationSubmitted,
			OccurredAt:   s.now().UTC(),
			Email:        application.Email,
			FullName:     application.FullName,
			MobileNumber: application.MobileNumber,
			Details: map[string]string{
				"job_id":    job.ID.String(),
				"job_title": job.Title,
				"cv_url":    application.CVURL,
			},
		})
		if err != nil {
			s.logger.Warn("job application notification failed", zap.String("application_id", application.ID.String()), zap.Error(err))
		}
	}
	return application, nil
}

func (s *JobService) ListApplications(ctx context.Context, jobID uuid.UUID, limit, offset int) (*Page[domain.JobApplication], error) {
	if _, err := s.Get(ctx, jobID, false); err != nil {
		return nil, err
	}
	limit, offset = normalizePagination(limit, offset)
	items, err := s.applications.ListByJob(ctx, jobID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list job applications: %w", err)
	}
	total, err := s.applications.CountByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("count job applications: %w", err)
	}
	return &Page[domain.JobApplication]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func normalizeJobInput(input domain.JobInput) (domain.JobInput, error) {
	title, err := requireText("title", input.Title, 200)
	if err != nil {
		return input, err
	}
	description, err := requireText("description", input.Description, 0)
	if err != nil {
		return input, err
	}
	employment := input.EmploymentType
	if employment == "" {
		employment = domain.EmploymentFullTime
	}
	if !employment.Valid() {
		return input, validationError("employmentType must be one of full_time, part_time, contract, internship")
	}
	return domain.JobInput{
		Title:          title,
		Department:     normalizeString(input.Department),
		Location:       normalizeString(input.Location),
		EmploymentType: employment,
		Description:    description,
		Requirements:   normalizeString(input.Requirements),
		IsOpen:         input.IsOpen,
	}, nil
}
