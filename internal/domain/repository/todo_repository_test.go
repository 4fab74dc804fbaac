package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
	"todo_service/internal/common"
	"todo_service/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPgTodoRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO todos`).
		WithArgs("t1", "u1", "buy milk", "two liters", false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := NewPgTodoRepository(db)
	todo := &model.Todo{ID: "t1", UserID: "u1", Title: "buy milk", Description: "two liters"}
	if err := repo.Create(context.Background(), todo); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !todo.CreatedAt.Equal(now) || !todo.UpdatedAt.Equal(now) {
		t.Errorf("timestamps not populated: %+v", todo)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPgTodoRepository_FindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT t.id, t.user_id, u.username`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewPgTodoRepository(db)
	_, err = repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPgTodoRepository_Update_RefreshesTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	updated := time.Now()
	mock.ExpectQuery(`UPDATE todos SET title = \$1, description = \$2, completed = \$3, updated_at = CURRENT_TIMESTAMP`).
		WithArgs("done", "all of it", true, "t1").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updated))

	repo := NewPgTodoRepository(db)
	todo := &model.Todo{ID: "t1", Title: "done", Description: "all of it", Completed: true}
	if err := repo.Update(context.Background(), todo); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !todo.UpdatedAt.Equal(updated) {
		t.Errorf("UpdatedAt not refreshed: %v", todo.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPgTodoRepository_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM todos WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPgTodoRepository(db)
	err = repo.Delete(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPgTodoRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM todos WHERE id = \$1`).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPgTodoRepository(db)
	if err := repo.Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPgTodoRepository_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM todos WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT t.id, t.user_id, u.username`).
		WithArgs("u1", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "username", "title", "description", "completed", "created_at", "updated_at"}).
			AddRow("t1", "u1", "alice", "buy milk", "", false, now, now))

	repo := NewPgTodoRepository(db)
	todos, total, err := repo.ListByOwner(context.Background(), "u1", 10, 0)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if total != 1 || len(todos) != 1 || todos[0].Username != "alice" {
		t.Errorf("unexpected result: total=%d todos=%+v", total, todos)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
