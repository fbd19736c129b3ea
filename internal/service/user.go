package service

import (
	"context"

	"github.com/corethink/backend/internal/domain"
	"github.com/corethink/backend/internal/store"
)

type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// DeleteUser removes the user and, through the schema's cascade, their
// projects.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return s.Store.Users().DeleteUser(ctx, userID)
}
