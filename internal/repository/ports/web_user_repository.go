package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
)

type WebUserRepository interface {
	Create(ctx context.Context, user domain.NewWebUser) (*domain.WebUser, error)
	FindByEmail(ctx context.Context, email string) (*domain.WebUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.WebUser, error)
	ExistsByEmailOrMobile(ctx context.Context, email string, mobileNumber *string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]domain.WebUser, error)
	Count(ctx context.Context) (int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.WebUser, error)
}
