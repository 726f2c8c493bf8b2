package services

import (
	"context"

	"github.com/reliefgrid/reliefgrid/internal/model"
	"github.com/reliefgrid/reliefgrid/internal/store"
)

// UserService handles user-related operations.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService { return &UserService{store: s} }

func (s *UserService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	return s.store.Users().Create(ctx, req)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.store.Users().Get(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.store.Users().GetByUsername(ctx, username)
}
