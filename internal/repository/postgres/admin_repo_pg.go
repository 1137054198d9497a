package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

const adminColumns = `id, full_name, email, mobile_number, password_hash, role, is_active, last_login_at, created_at, updated_at`

type AdminRepository struct {
	db *sqlx.DB
}

func NewAdminRepo(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, fullName, email string, mobileNumber *string, passwordHash string, role domain.AdminRole) (*domain.Admin, error) {
	const query = `
        INSERT INTO admin_account (full_name, email, mobile_number, password_hash, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + adminColumns
	row := r.db.QueryRowxContext(ctx, query, fullName, email, nullString(mobileNumber), passwordHash, role)
	var admin domain.Admin
	if err := row.StructScan(&admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	const query = `SELECT ` + adminColumns + ` FROM admin_account WHERE email = $1`
	var admin domain.Admin
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	const query = `SELECT ` + adminColumns + ` FROM admin_account WHERE id = $1`
	var admin domain.Admin
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) List(ctx context.Context, limit, offset int) ([]domain.Admin, error) {
	const query = `SELECT ` + adminColumns + ` FROM admin_account ORDER BY created_at ASC LIMIT $1 OFFSET $2`
	admins := []domain.Admin{}
	if err := r.db.SelectContext(ctx, &admins, query, limit, offset); err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM admin_account`); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *AdminRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.Admin, error) {
	const query = `
        UPDATE admin_account
        SET is_active = $2,
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + adminColumns
	row := r.db.QueryRowxContext(ctx, query, id, active)
	var admin domain.Admin
	if err := row.StructScan(&admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) SetRole(ctx context.Context, id uuid.UUID, role domain.AdminRole) (*domain.Admin, error) {
	const query = `
        UPDATE admin_account
        SET role = $2,
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + adminColumns
	row := r.db.QueryRowxContext(ctx, query, id, role)
	var admin domain.Admin
	if err := row.StructScan(&admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `UPDATE admin_account SET last_login_at = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}

var _ ports.AdminRepository = (*AdminRepository)(nil)
