package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminSelfUpdate    = errors.New("admins cannot change their own status or role")
)

type AdminCreateInput struct {
	FullName     string
	Email        string
	MobileNumber *string
	Password     string
	Role         domain.AdminRole
}

type AdminAuthResult struct {
	Admin     *domain.Admin
	Token     string
	ExpiresAt time.Time
}

type AdminService struct {
	admins ports.AdminRepository
	jwt    *util.JWTManager
	logger *zap.Logger
	now    func() time.Time
}

func NewAdminService(admins ports.AdminRepository, jwt *util.JWTManager, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{admins: admins, jwt: jwt, logger: logger, now: time.Now}
}

func (s *AdminService) Login(ctx context.Context, email, password string) (*AdminAuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationError("email and password are required")
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !util.CheckAdminPassword(admin.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, ErrAccountInactive
	}

	now := s.now().UTC()
	if err := s.admins.TouchLastLogin(ctx, admin.ID, now); err != nil {
		s.logger.Warn("update admin last login failed", zap.String("admin_id", admin.ID.String()), zap.Error(err))
	} else {
		admin.LastLoginAt = &now
	}

	token, expiresAt, err := s.jwt.Generate(admin.ID, admin.Email, util.SubjectAdmin, string(admin.Role))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AdminAuthResult{Admin: admin, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AdminService) Get(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) Create(ctx context.Context, input AdminCreateInput) (*domain.Admin, error) {
	fullName, err := requireText("fullName", input.FullName, 120)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	mobile := normalizeString(input.MobileNumber)
	if mobile != nil {
		if err := validateMobile(*mobile); err != nil {
			return nil, err
		}
	}
	role := input.Role
	if role == "" {
		role = domain.AdminRoleEditor
	}
	if !role.Valid() {
		return nil, validationError("role must be super_admin or editor")
	}
	if err := util.ValidatePassword(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	hash, err := util.HashAdminPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	admin, err := s.admins.Create(ctx, fullName, email, mobile, hash, role)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

func (s *AdminService) List(ctx context.Context, limit, offset int) (*Page[domain.Admin], error) {
	limit, offset = normalizePagination(limit, offset)
	admins, err := s.admins.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	total, err := s.admins.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	return &Page[domain.Admin]{Items: admins, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *AdminService) SetActive(ctx context.Context, actorID, id uuid.UUID, active bool) (*domain.Admin, error) {
	if actorID == id {
		return nil, ErrAdminSelfUpdate
	}
	admin, err := s.admins.SetActive(ctx, id, active)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) SetRole(ctx context.Context, actorID, id uuid.UUID, role domain.AdminRole) (*domain.Admin, error) {
	if !role.Valid() {
		return nil, validationError("role must be super_admin or editor")
	}
	if actorID == id {
		return nil, ErrAdminSelfUpdate
	}
	admin, err := s.admins.SetRole(ctx, id, role)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return admin, nil
}

// EnsureSeed creates a super admin with the given credentials unless the email
// is already taken. It reports whether an account was created.
func (s *AdminService) EnsureSeed(ctx context.Context, email, password, fullName string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	if _, err := s.admins.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !isNotFound(err) {
		return false, fmt.Errorf("find seed admin: %w", err)
	}

	if strings.TrimSpace(fullName) == "" {
		fullName = "Site Administrator"
	}
	_, err := s.Create(ctx, AdminCreateInput{
		FullName: fullName,
		Email:    email,
		Password: password,
		Role:     domain.AdminRoleSuperAdmin,
	})
	if errors.Is(err, ErrAccountExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.logger.Info("seeded super admin", zap.String("email", email))
	return true, nil
}
