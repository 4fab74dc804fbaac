package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"todo_service/internal/common"
	"todo_service/internal/domain/model"
)

type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	FindByID(ctx context.Context, id string) (*model.Todo, error)
	Update(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Todo, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.Todo, int, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

type pgTodoRepository struct {
	db *sql.DB
}

func NewPgTodoRepository(db *sql.DB) TodoRepository {
	return &pgTodoRepository{db: db}
}

func (r *pgTodoRepository) Create(ctx context.Context, todo *model.Todo) error {
	query := `INSERT INTO todos (id, user_id, title, description, completed)
	          VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, todo.ID, todo.UserID, todo.Title, todo.Description, todo.Completed).
		Scan(&todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgTodoRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTodoRepository) FindByID(ctx context.Context, id string) (*model.Todo, error) {
	query := `SELECT t.id, t.user_id, u.username, t.title, t.description, t.completed, t.created_at, t.updated_at
	          FROM todos t
	          JOIN users u ON t.user_id = u.id
	          WHERE t.id = $1`
	todo := &model.Todo{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&todo.ID, &todo.UserID, &todo.Username, &todo.Title, &todo.Description, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTodoRepository.FindByID: %w", err)
	}
	return todo, nil
}

// Update persists title, description and completed, refreshing updated_at.
// The owner column is immutable and never part of the statement.
func (r *pgTodoRepository) Update(ctx context.Context, todo *model.Todo) error {
	query := `UPDATE todos SET title = $1, description = $2, completed = $3, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $4 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, todo.Title, todo.Description, todo.Completed, todo.ID).
		Scan(&todo.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgTodoRepository.Update: %w", err)
	}
	return nil
}

func (r *pgTodoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgTodoRepository.Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgTodoRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTodoRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Todo, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM todos WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgTodoRepository.ListByOwner count: %w", err)
	}

	query := `SELECT t.id, t.user_id, u.username, t.title, t.description, t.completed, t.created_at, t.updated_at
	          FROM todos t
	          JOIN users u ON t.user_id = u.id
	          WHERE t.user_id = $1
	          ORDER BY t.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgTodoRepository.ListByOwner: %w", err)
	}
	defer rows.Close()

	todos, err := scanTodos(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("pgTodoRepository.ListByOwner scan: %w", err)
	}
	return todos, total, nil
}

func (r *pgTodoRepository) ListAll(ctx context.Context, limit, offset int) ([]model.Todo, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgTodoRepository.ListAll count: %w", err)
	}

	query := `SELECT t.id, t.user_id, u.username, t.title, t.description, t.completed, t.created_at, t.updated_at
	          FROM todos t
	          JOIN users u ON t.user_id = u.id
	          ORDER BY t.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgTodoRepository.ListAll: %w", err)
	}
	defer rows.Close()

	todos, err := scanTodos(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("pgTodoRepository.ListAll scan: %w", err)
	}
	return todos, total, nil
}

func (r *pgTodoRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos WHERE user_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgTodoRepository.CountByOwner: %w", err)
	}
	return count, nil
}

func scanTodos(rows *sql.Rows) ([]model.Todo, error) {
	todos := []model.Todo{}
	for rows.Next() {
		var todo model.Todo
		if err := rows.Scan(&todo.ID, &todo.UserID, &todo.Username, &todo.Title, &todo.Description, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}
