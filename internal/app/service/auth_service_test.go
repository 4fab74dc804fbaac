package service

import (
	"context"
	"database/sql"
	"testing"
	"time"
	"todo_service/internal/common/security"
	"todo_service/internal/domain/repository"
	"todo_service/internal/platform/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func setupAuthServiceTest(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:        []byte("test-secret"),
		AccessExp:     30 * time.Minute,
		RefreshExp:    time.Hour,
		AdminUsername: "admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "root-password",
	}
	security.InitJWT()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	userRepo := repository.NewPgUserRepository(db)
	todoRepo := repository.NewPgTodoRepository(db)
	return NewAuthService(userRepo, todoRepo, NewTokenService(nil, userRepo)), mock
}

func TestAuthService_EnsureAdmin_AlreadyExists(t *testing.T) {
	svc, mock := setupAuthServiceTest(t)

	mock.ExpectQuery(`SELECT id, username, email, hashed_password, is_admin, date_joined`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "hashed_password", "is_admin", "date_joined"}).
			AddRow("a1", "admin", "admin@example.com", "hash", true, time.Now()))

	svc.EnsureAdmin(context.Background())

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthService_EnsureAdmin_CreatesWhenMissing(t *testing.T) {
	svc, mock := setupAuthServiceTest(t)

	mock.ExpectQuery(`SELECT id, username, email, hashed_password, is_admin, date_joined`).
		WithArgs("admin").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "admin", "admin@example.com", sqlmock.AnyArg(), true).
		WillReturnRows(sqlmock.NewRows([]string{"date_joined"}).AddRow(time.Now()))

	svc.EnsureAdmin(context.Background())

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// A racing instance creating the admin first must not disturb startup.
func TestAuthService_EnsureAdmin_ToleratesRaceConflict(t *testing.T) {
	svc, mock := setupAuthServiceTest(t)

	mock.ExpectQuery(`SELECT id, username, email, hashed_password, is_admin, date_joined`).
		WithArgs("admin").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	svc.EnsureAdmin(context.Background())

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthService_EnsureAdmin_SkipsWithoutPassword(t *testing.T) {
	svc, mock := setupAuthServiceTest(t)
	config.AppConfig.AdminPassword = ""

	svc.EnsureAdmin(context.Background())

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
