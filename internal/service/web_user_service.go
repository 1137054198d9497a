package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

type WebUserService struct {
	users ports.WebUserRepository
}

func NewWebUserService(users ports.WebUserRepository) *WebUserService {
	return &WebUserService{users: users}
}

func (s *WebUserService) Get(ctx context.Context, id uuid.UUID) (*domain.WebUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *WebUserService) List(ctx context.Context, limit, offset int) (*Page[domain.WebUser], error) {
	limit, offset = normalizePagination(limit, offset)
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list web users: %w", err)
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count web users: %w", err)
	}
	return &Page[domain.WebUser]{Items: users, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *WebUserService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.WebUser, error) {
	user, err := s.users.SetActive(ctx, id, active)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}
