package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

const jobColumns = `id, title, department, location, employment_type, description, requirements, is_open, created_at, updated_at, deleted_at`

type JobRepository struct {
	db *sqlx.DB
}

func NewJobRepo(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, input domain.JobInput) (*domain.Job, error) {
	const query = `
        INSERT INTO job_opening (title, department, location, employment_type, description, requirements, is_open)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + jobColumns
	row := r.db.QueryRowxContext(ctx, query,
		input.Title,
		nullString(input.Department),
		nullString(input.Location),
		input.EmploymentType,
		input.Description,
		nullString(input.Requirements),
		input.IsOpen,
	)
	var job domain.Job
	if err := row.StructScan(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Update(ctx context.Context, id uuid.UUID, input domain.JobInput) (*domain.Job, error) {
	const query = `
        UPDATE job_opening
        SET title = $2,
            department = $3,
            location = $4,
            employment_type = $5,
            description = $6,
            requirements = $7,
            is_open = $8,
            updated_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL
        RETURNING ` + jobColumns
	row := r.db.QueryRowxContext(ctx, query,
		id,
		input.Title,
		nullString(input.Department),
		nullString(input.Location),
		input.EmploymentType,
		input.Description,
		nullString(input.Requirements),
		input.IsOpen,
	)
	var job domain.Job
	if err := row.StructScan(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID, openOnly bool) (*domain.Job, error) {
	const query = `
        SELECT ` + jobColumns + `
        FROM job_opening
        WHERE id = $1 AND deleted_at IS NULL AND (is_open OR NOT $2)
    `
	var job domain.Job
	if err := r.db.GetContext(ctx, &job, query, id, openOnly); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) List(ctx context.Context, openOnly bool, limit, offset int) ([]domain.Job, error) {
	const query = `
        SELECT ` + jobColumns + `
        FROM job_opening
        WHERE deleted_at IS NULL AND (is_open OR NOT $1)
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	jobs := []domain.Job{}
	if err := r.db.SelectContext(ctx, &jobs, query, openOnly, limit, offset); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *JobRepository) Count(ctx context.Context, openOnly bool) (int64, error) {
	const query = `SELECT COUNT(*) FROM job_opening WHERE deleted_at IS NULL AND (is_open OR NOT $1)`
	var total int64
	if err := r.db.GetContext(ctx, &total, query, openOnly); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *JobRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const query = `UPDATE job_opening SET deleted_at = NOW(), is_open = FALSE WHERE id = $1 AND deleted_at IS NULL`
	return execExpectingRow(ctx, r.db, query, id)
}

var _ ports.JobRepository = (*JobRepository)(nil)
