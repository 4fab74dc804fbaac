package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"todo_service/internal/common"
	"todo_service/internal/common/security"
	"todo_service/internal/domain/repository"
	"todo_service/internal/platform/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenService issues access/refresh token pairs and maintains the refresh
// token blacklist in Redis. Access tokens are stateless; refresh tokens carry
// a jti so they can be individually revoked.
type TokenService struct {
	rdb      *redis.Client
	userRepo repository.UserRepository
}

func NewTokenService(rdb *redis.Client, userRepo repository.UserRepository) *TokenService {
	return &TokenService{rdb: rdb, userRepo: userRepo}
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (s *TokenService) IssuePair(userID, role string) (*TokenPair, error) {
	access, err := security.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.generateRefreshToken(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid, non-revoked refresh token for a new access
// token. The user is looked up so the new token reflects the current admin
// flag rather than the one at issue time.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, jti, _, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return "", common.ErrUnauthorized
	}

	revoked, err := s.rdb.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if revoked > 0 {
		return "", common.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", fmt.Errorf("failed to load user for refresh: %w", err)
	}

	access, err := security.GenerateAccessToken(user.ID, user.Role())
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return access, nil
}

// Revoke blacklists the refresh token's jti until the token would have
// expired anyway, so the blacklist cleans itself up. Malformed, expired or
// already-revoked tokens are treated as success: logout must never fail.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	_, jti, ttl, err := s.parseRefreshToken(refreshToken)
	if err != nil || ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, blacklistKey(jti), "revoked", ttl).Err(); err != nil {
		// Logout still reports success; keep a trace for operators.
		log.Printf("token revoke: failed to blacklist %s: %v", jti, err)
	}
	return nil
}

func (s *TokenService) generateRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    userID,
		"jti":        uuid.NewString(),
		"token_type": "refresh",
		"iat":        now.Unix(),
		"exp":        now.Add(config.AppConfig.RefreshExp).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.AppConfig.JWTKey)
}

func (s *TokenService) parseRefreshToken(tokenString string) (userID, jti string, ttl time.Duration, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return config.AppConfig.JWTKey, nil
	})
	if err != nil || !token.Valid {
		return "", "", 0, common.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", 0, common.ErrUnauthorized
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != "refresh" {
		return "", "", 0, common.ErrUnauthorized
	}
	userID, ok = claims["user_id"].(string)
	if !ok {
		return "", "", 0, common.ErrUnauthorized
	}
	jti, ok = claims["jti"].(string)
	if !ok {
		return "", "", 0, common.ErrUnauthorized
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", "", 0, common.ErrUnauthorized
	}
	return userID, jti, time.Until(exp.Time), nil
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}
