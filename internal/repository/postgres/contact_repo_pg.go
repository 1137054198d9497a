package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

const contactColumns = `id, full_name, email, mobile_number, subject, message, property_id, handled, handled_by, handled_at, created_at`

type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepo(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, submission domain.ContactSubmission) (*domain.ContactSubmission, error) {
	const query = `
        INSERT INTO contact_submission (full_name, email, mobile_number, subject, message, property_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + contactColumns
	row := r.db.QueryRowxContext(ctx, query,
		submission.FullName,
		submission.Email,
		nullString(submission.MobileNumber),
		nullString(submission.Subject),
		submission.Message,
		submission.PropertyID,
	)
	var created domain.ContactSubmission
	if err := row.StructScan(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *ContactRepository) List(ctx context.Context, handled *bool, limit, offset int) ([]domain.ContactSubmission, error) {
	where, params := contactWhere(handled)
	query := `SELECT ` + contactColumns + ` FROM contact_submission` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(params)+1, len(params)+2)
	params = append(params, limit, offset)

	submissions := []domain.ContactSubmission{}
	if err := r.db.SelectContext(ctx, &submissions, query, params...); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *ContactRepository) Count(ctx context.Context, handled *bool) (int64, error) {
	where, params := contactWhere(handled)
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM contact_submission`+where, params...); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ContactRepository) MarkHandled(ctx context.Context, id, adminID uuid.UUID, at time.Time) (*domain.ContactSubmission, error) {
	const query = `
        UPDATE contact_submission
        SET handled = TRUE,
            handled_by = $2,
            handled_at = $3
        WHERE id = $1
        RETURNING ` + contactColumns
	row := r.db.QueryRowxContext(ctx, query, id, adminID, at)
	var submission domain.ContactSubmission
	if err := row.StructScan(&submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

func contactWhere(handled *bool) (string, []any) {
	if handled == nil {
		return "", nil
	}
	return " WHERE handled = $1", []any{*handled}
}

var _ ports.ContactRepository = (*ContactRepository)(nil)
