package service

import (
	"context"

	"github.com/user-vault/backend/internal/model"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// GetAll returns the projection of every account plus the total count for the
// X-Total-Count header.
func (s *UserService) GetAll(ctx context.Context) ([]model.UserProjection, int, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, 0, err
	}

	projections := make([]model.UserProjection, 0, len(users))
	for i := range users {
		projections = append(projections, users[i].Projection())
	}
	return projections, len(projections), nil
}
