package ports

import (
	"context"
	"time"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
)

type OneTimeCodeRepository interface {
	Create(ctx context.Context, email string, mobileNumber *string, code string, purpose domain.OTPPurpose, expiresAt time.Time) (*domain.OneTimeCode, error)
	// Consume atomically marks the newest matching unused, unexpired code as used.
	// It returns sql.ErrNoRows when nothing matched.
	Consume(ctx context.Context, email, code string, purpose domain.OTPPurpose, now time.Time) (*domain.OneTimeCode, error)
	RecordFailedAttempt(ctx context.Context, email string, purpose domain.OTPPurpose, now time.Time) error
}
