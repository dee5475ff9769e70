package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"resellhub-api/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionTokenPrefix marks every session token issued by this service.
	SessionTokenPrefix = "rsh_"

	// SessionTTL is the default session lifetime.
	SessionTTL = 8 * time.Hour

	// SessionRedisKeyPrefix is the Redis key prefix for sessions.
	SessionRedisKeyPrefix = "resellhub:session:"
)

// SessionService issues and validates opaque session tokens backed by Redis.
type SessionService struct {
	redis *redis.Client
}

// NewSessionService creates a new session service.
func NewSessionService(redisClient *redis.Client) *SessionService {
	return &SessionService{redis: redisClient}
}

// Generate creates a new session token and stores it in Redis.
func (s *SessionService) Generate(ctx context.Context, data model.SessionData) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	token := SessionTokenPrefix + hex.EncodeToString(tokenBytes)

	data.CreatedAt = time.Now()
	data.ExpiresAt = data.CreatedAt.Add(SessionTTL)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize session data: %w", err)
	}

	key := SessionRedisKeyPrefix + token
	if err := s.redis.Set(ctx, key, jsonData, SessionTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	log.Printf("[SessionService] Created session for user_id=%d role=%s, expires=%v",
		data.UserID, data.Role, data.ExpiresAt)

	return token, nil
}

// Validate checks if a token is valid and returns its session data.
func (s *SessionService) Validate(ctx context.Context, token string) (*model.SessionData, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	if len(token) < len(SessionTokenPrefix) || token[:len(SessionTokenPrefix)] != SessionTokenPrefix {
		return nil, fmt.Errorf("invalid token format")
	}

	key := SessionRedisKeyPrefix + token
	jsonData, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var data model.SessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session data: %w", err)
	}

	if time.Now().After(data.ExpiresAt) {
		s.redis.Del(ctx, key)
		return nil, fmt.Errorf("session expired")
	}

	return &data, nil
}

// Revoke deletes a session from Redis.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	key := SessionRedisKeyPrefix + token
	return s.redis.Del(ctx, key).Err()
}

// Refresh extends the TTL of an existing session.
func (s *SessionService) Refresh(ctx context.Context, token string) error {
	key := SessionRedisKeyPrefix + token

	jsonData, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	var data model.SessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return err
	}

	data.ExpiresAt = time.Now().Add(SessionTTL)

	newJSON, _ := json.Marshal(data)
	return s.redis.Set(ctx, key, newJSON, SessionTTL).Err()
}
