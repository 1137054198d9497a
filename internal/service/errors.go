package service

import (
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("resource not found")
	ErrAccountExists   = errors.New("an account with this email or mobile number already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInactive = errors.New("account is inactive")
	ErrUnauthorized    = errors.New("unauthorized")
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Page is the shape returned by every paginated listing.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func normalizePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return validationError("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return validationError("email is invalid")
	}
	return nil
}

// validateMobile accepts an optional leading + followed by 7 to 15 digits.
func validateMobile(mobile string) error {
	digits := strings.TrimPrefix(mobile, "+")
	if len(digits) < 7 || len(digits) > 15 {
		return validationError("mobileNumber is invalid")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return validationError("mobileNumber is invalid")
		}
	}
	return nil
}

func normalizeString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func requireText(field, value string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", validationError("%s is required", field)
	}
	if maxLen > 0 && len([]rune(trimmed)) > maxLen {
		return "", validationError("%s must be at most %d characters", field, maxLen)
	}
	return trimmed, nil
}
