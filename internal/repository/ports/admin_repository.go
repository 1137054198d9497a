package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
)

type AdminRepository interface {
	Create(ctx context.Context, fullName, email string, mobileNumber *string, passwordHash string, role domain.AdminRole) (*domain.Admin, error)
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
	List(ctx context.Context, limit, offset int) ([]domain.Admin, error)
	Count(ctx context.Context) (int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.Admin, error)
	SetRole(ctx context.Context, id uuid.UUID, role domain.AdminRole) (*domain.Admin, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
