package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

type OneTimeCodeRepository struct {
	db *sqlx.DB
}

func NewOneTimeCodeRepo(db *sqlx.DB) *OneTimeCodeRepository {
	return &OneTimeCodeRepository{db: db}
}

func (r *OneTimeCodeRepository) Create(ctx context.Context, email string, mobileNumber *string, code string, purpose domain.OTPPurpose, expiresAt time.Time) (*domain.OneTimeCode, error) {
	const query = `
        INSERT INTO one_time_code (email, mobile_number, code, purpose, expires_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, email, mobile_number, code, purpose, used, expires_at, attempts, created_at
    `
	row := r.db.QueryRowxContext(ctx, query, email, nullString(mobileNumber), code, purpose, expiresAt)
	var otp domain.OneTimeCode
	if err := row.StructScan(&otp); err != nil {
		return nil, err
	}
	return &otp, nil
}

// Consume flips used on a single row in one statement. The inner SELECT skips rows
// another transaction is already consuming and the outer predicate re-checks used,
// so concurrent callers presenting the same code see exactly one success.
func (r *OneTimeCodeRepository) Consume(ctx context.Context, email, code string, purpose domain.OTPPurpose, now time.Time) (*domain.OneTimeCode, error) {
	const query = `
        UPDATE one_time_code
        SET used = TRUE
        WHERE id = (
            SELECT id
            FROM one_time_code
            WHERE email = $1 AND code = $2 AND purpose = $3
              AND used = FALSE AND expires_at > $4
            ORDER BY created_at DESC
            LIMIT 1
            FOR UPDATE SKIP LOCKED
        )
        AND used = FALSE
        RETURNING id, email, mobile_number, code, purpose, used, expires_at, attempts, created_at
    `
	row := r.db.QueryRowxContext(ctx, query, email, code, purpose, now)
	var otp domain.OneTimeCode
	if err := row.StructScan(&otp); err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *OneTimeCodeRepository) RecordFailedAttempt(ctx context.Context, email string, purpose domain.OTPPurpose, now time.Time) error {
	const query = `
        UPDATE one_time_code
        SET attempts = attempts + 1
        WHERE email = $1 AND purpose = $2 AND used = FALSE AND expires_at > $3
    `
	_, err := r.db.ExecContext(ctx, query, email, purpose, now)
	return err
}

var _ ports.OneTimeCodeRepository = (*OneTimeCodeRepository)(nil)
