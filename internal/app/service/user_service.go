package service

import (
	"context"
	"errors"
	"fmt"
	"todo_service/internal/common"
	"todo_service/internal/domain/model"
	"todo_service/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	todoRepo repository.TodoRepository
}

func NewUserService(userRepo repository.UserRepository, todoRepo repository.TodoRepository) *UserService {
	return &UserService{userRepo: userRepo, todoRepo: todoRepo}
}

func (s *UserService) Me(ctx context.Context, userID string) (*model.UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Valid token for an account the store no longer knows.
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return buildProfile(ctx, s.todoRepo, user)
}

// ListNonAdmin returns a page of non-admin user profiles ordered by join
// date descending, plus the total count for pagination.
func (s *UserService) ListNonAdmin(ctx context.Context, page, pageSize int) ([]model.UserProfile, int, error) {
	offset := (page - 1) * pageSize
	users, total, err := s.userRepo.ListNonAdmin(ctx, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	profiles := make([]model.UserProfile, 0, len(users))
	for i := range users {
		profile, err := buildProfile(ctx, s.todoRepo, &users[i])
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, total, nil
}

func buildProfile(ctx context.Context, todoRepo repository.TodoRepository, user *model.User) (*model.UserProfile, error) {
	count, err := todoRepo.CountByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count todos for user %s: %w", user.ID, err)
	}
	return &model.UserProfile{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		IsAdmin:    user.IsAdmin,
		DateJoined: user.DateJoined,
		TodoCount:  count,
	}, nil
}
