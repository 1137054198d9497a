package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

type JobApplicationRepository struct {
	db *sqlx.DB
}

func NewJobApplicationRepo(db *sqlx.DB) *JobApplicationRepository {
	return &JobApplicationRepository{db: db}
}

func (r *JobApplicationRepository) Create(ctx context.Context, application domain.JobApplication) (*domain.JobApplication, error) {
	const query = `
        INSERT INTO job_application (job_id, full_name, email, mobile_number, cover_letter, cv_object_key, cv_url)
        VALUES (:job_id, :full_name, :email, :mobile_number, :cover_letter, :cv_object_key, :cv_url)
        RETURNING id, job_id, full_name, email, mobile_number, cover_letter, cv_object_key, cv_url, created_at
    `
	rows, err := r.db.NamedQueryContext(ctx, query, application)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var created domain.JobApplication
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	if err := rows.StructScan(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *JobApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID, limit, offset int) ([]domain.JobApplication, error) {
	const query = `
        SELECT id, job_id, full_name, email, mobile_number, cover_letter, cv_object_key, cv_url, created_at
        FROM job_application
        WHERE job_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `
	applications := []domain.JobApplication{}
	if err := r.db.SelectContext(ctx, &applications, query, jobID, limit, offset); err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *JobApplicationRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM job_application WHERE job_id = $1`, jobID); err != nil {
		return 0, err
	}
	return total, nil
}

var _ ports.JobApplicationRepository = (*JobApplicationRepository)(nil)
