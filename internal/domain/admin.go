package domain

import (
	"time"

	"github.com/google/uuid"
)

type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "super_admin"
	AdminRoleEditor     AdminRole = "editor"
)

func (r AdminRole) Valid() bool {
	return r == AdminRoleSuperAdmin || r == AdminRoleEditor
}

type Admin struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FullName     string     `db:"full_name" json:"fullName"`
	Email        string     `db:"email" json:"email"`
	MobileNumber *string    `db:"mobile_number" json:"mobileNumber,omitempty"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         AdminRole  `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}
