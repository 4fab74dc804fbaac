package service

import (
	"context"
	"errors"
	"fmt"
	"todo_service/internal/common"
	"todo_service/internal/domain/model"
	"todo_service/internal/domain/repository"

	"github.com/google/uuid"
)

type TodoService struct {
	todoRepo repository.TodoRepository
	userRepo repository.UserRepository
}

func NewTodoService(todoRepo repository.TodoRepository, userRepo repository.UserRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo, userRepo: userRepo}
}

type CreateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type UpdateTodoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// List returns the caller's todos newest first; admins see every todo.
func (s *TodoService) List(ctx context.Context, caller model.Principal, page, pageSize int) ([]model.Todo, int, error) {
	offset := (page - 1) * pageSize
	if caller.IsAdmin() {
		return s.todoRepo.ListAll(ctx, pageSize, offset)
	}
	return s.todoRepo.ListByOwner(ctx, caller.UserID, pageSize, offset)
}

// Create stores a new todo owned by the caller. Ownership always comes from
// the authenticated identity, never from the request body.
func (s *TodoService) Create(ctx context.Context, caller model.Principal, req CreateTodoRequest) (*model.Todo, error) {
	if req.Title == "" {
		return nil, common.Errorf("title is required: %w", common.ErrValidation)
	}

	owner, err := s.userRepo.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}

	todo := &model.Todo{
		ID:          uuid.NewString(),
		UserID:      owner.ID,
		Username:    owner.Username,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Get(ctx context.Context, caller model.Principal, id string) (*model.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(todo.UserID) {
		return nil, common.ErrForbidden
	}
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, caller model.Principal, id string, req UpdateTodoRequest) (*model.Todo, error) {
	todo, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, common.Errorf("title cannot be empty: %w", common.ErrValidation)
		}
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}

	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, caller model.Principal, id string) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	return s.todoRepo.Delete(ctx, id)
}

// ListByUser is the admin cross-user query: the target user must exist, and
// their todos come back newest first.
func (s *TodoService) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Todo, int, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, 0, common.Errorf("user not found: %w", common.ErrNotFound)
		}
		return nil, 0, fmt.Errorf("failed to load user: %w", err)
	}
	offset := (page - 1) * pageSize
	return s.todoRepo.ListByOwner(ctx, userID, pageSize, offset)
}
