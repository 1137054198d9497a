package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

const webUserColumns = `id, full_name, email, mobile_number, location, company, password_hash, password_salt, is_active, created_at, updated_at`

type WebUserRepository struct {
	db *sqlx.DB
}

func NewWebUserRepo(db *sqlx.DB) *WebUserRepository {
	return &WebUserRepository{db: db}
}

func (r *WebUserRepository) Create(ctx context.Context, user domain.NewWebUser) (*domain.WebUser, error) {
	const query = `
        INSERT INTO web_user (full_name, email, mobile_number, location, company, password_hash, password_salt)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + webUserColumns

	row := r.db.QueryRowxContext(ctx, query,
		user.FullName,
		user.Email,
		nullString(user.MobileNumber),
		nullString(user.Location),
		nullString(user.Company),
		user.PasswordHash,
		user.PasswordSalt,
	)
	var created domain.WebUser
	if err := row.StructScan(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *WebUserRepository) FindByEmail(ctx context.Context, email string) (*domain.WebUser, error) {
	const query = `SELECT ` + webUserColumns + ` FROM web_user WHERE email = $1`
	var user domain.WebUser
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *WebUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.WebUser, error) {
	const query = `SELECT ` + webUserColumns + ` FROM web_user WHERE id = $1`
	var user domain.WebUser
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *WebUserRepository) ExistsByEmailOrMobile(ctx context.Context, email string, mobileNumber *string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM web_user
            WHERE email = $1 OR ($2::text IS NOT NULL AND mobile_number = $2::text)
        )
    `
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email, nullString(mobileNumber)); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *WebUserRepository) List(ctx context.Context, limit, offset int) ([]domain.WebUser, error) {
	const query = `SELECT ` + webUserColumns + ` FROM web_user ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	users := []domain.WebUser{}
	if err := r.db.SelectContext(ctx, &users, query, limit, offset); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *WebUserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM web_user`); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *WebUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.WebUser, error) {
	const query = `
        UPDATE web_user
        SET is_active = $2,
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + webUserColumns
	row := r.db.QueryRowxContext(ctx, query, id, active)
	var user domain.WebUser
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

var _ ports.WebUserRepository = (*WebUserRepository)(nil)
