package service

import (
	"context"
	"errors"
	"testing"
	"time"
	"todo_service/internal/common"
	"todo_service/internal/common/security"
	"todo_service/internal/domain/repository"
	"todo_service/internal/platform/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTokenTest(t *testing.T) (*TokenService, sqlmock.Sqlmock) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:     []byte("test-secret"),
		AccessExp:  30 * time.Minute,
		RefreshExp: time.Hour,
	}
	security.InitJWT()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewTokenService(rdb, repository.NewPgUserRepository(db)), mock
}

func expectUserLookup(mock sqlmock.Sqlmock, id, username string, isAdmin bool) {
	mock.ExpectQuery(`SELECT id, username, email, hashed_password, is_admin, date_joined`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "hashed_password", "is_admin", "date_joined"}).
			AddRow(id, username, username+"@example.com", "hash", isAdmin, time.Now()))
}

func TestTokenService_IssuePair(t *testing.T) {
	svc, _ := setupTokenTest(t)

	pair, err := svc.IssuePair("u1", "user")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatalf("incomplete pair: %+v", pair)
	}
	if pair.Access == pair.Refresh {
		t.Error("access and refresh tokens are identical")
	}
}

func TestTokenService_Refresh(t *testing.T) {
	svc, mock := setupTokenTest(t)

	pair, err := svc.IssuePair("u1", "user")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	expectUserLookup(mock, "u1", "alice", false)
	access, err := svc.Refresh(context.Background(), pair.Refresh)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if access == "" {
		t.Error("empty access token from refresh")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTokenService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, _ := setupTokenTest(t)

	pair, err := svc.IssuePair("u1", "user")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	_, err = svc.Refresh(context.Background(), pair.Access)
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for access token, got %v", err)
	}
}

func TestTokenService_Refresh_AfterRevoke(t *testing.T) {
	svc, _ := setupTokenTest(t)

	pair, err := svc.IssuePair("u1", "user")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	if err := svc.Revoke(context.Background(), pair.Refresh); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	_, err = svc.Refresh(context.Background(), pair.Refresh)
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized after revoke, got %v", err)
	}
}

func TestTokenService_Revoke_SwallowsGarbage(t *testing.T) {
	svc, _ := setupTokenTest(t)

	if err := svc.Revoke(context.Background(), "not-a-token"); err != nil {
		t.Errorf("Revoke malformed token: %v", err)
	}
	if err := svc.Revoke(context.Background(), ""); err != nil {
		t.Errorf("Revoke empty token: %v", err)
	}
}

func TestTokenService_Revoke_Twice(t *testing.T) {
	svc, _ := setupTokenTest(t)

	pair, err := svc.IssuePair("u1", "user")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if err := svc.Revoke(context.Background(), pair.Refresh); err != nil {
		t.Fatalf("first Revoke: %v", err)
	}
	if err := svc.Revoke(context.Background(), pair.Refresh); err != nil {
		t.Errorf("second Revoke should also succeed: %v", err)
	}
}
