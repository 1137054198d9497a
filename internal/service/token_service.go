package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

// TokenAuthenticator resolves bearer tokens to live accounts. A token for a
// deactivated or deleted account is rejected even before it expires.
type TokenAuthenticator struct {
	webUserJWT *util.JWTManager
	adminJWT   *util.JWTManager
	users      ports.WebUserRepository
	admins     ports.AdminRepository
}

func NewTokenAuthenticator(webUserJWT, adminJWT *util.JWTManager, users ports.WebUserRepository, admins ports.AdminRepository) *TokenAuthenticator {
	return &TokenAuthenticator{webUserJWT: webUserJWT, adminJWT: adminJWT, users: users, admins: admins}
}

func (a *TokenAuthenticator) WebUser(ctx context.Context, token string) (*domain.WebUser, error) {
	claims, err := parseKind(a.webUserJWT, token, util.SubjectWebUser)
	if err != nil {
		return nil, err
	}
	user, err := a.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("find web user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

func (a *TokenAuthenticator) Admin(ctx context.Context, token string) (*domain.Admin, error) {
	claims, err := parseKind(a.adminJWT, token, util.SubjectAdmin)
	if err != nil {
		return nil, err
	}
	admin, err := a.admins.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !admin.IsActive {
		return nil, ErrAccountInactive
	}
	return admin, nil
}

func parseKind(m *util.JWTManager, token string, kind util.SubjectKind) (*util.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" || m == nil {
		return nil, ErrUnauthorized
	}
	claims, err := m.Parse(token)
	if err != nil || claims.Kind != kind {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
