package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusreview/betyg/internal/models"
)

const (
	timeFormat    = "2006-01-02 15:04:05"
	sessionKeyTpl = "session:%s" // session:${token}
	tokenPrefix   = "sk-betyg-"
)

// SessionManager keeps login sessions in redis, one hash per token.
type SessionManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSessionManager(redis *redis.Client, ttl time.Duration) *SessionManager {
	return &SessionManager{redis: redis, ttl: ttl}
}

func generateToken() (string, error) {
	randomBytes := make([]byte, 12)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

func (sm *SessionManager) CreateSession(ctx context.Context, email, regNo string) (*models.SessionInfo, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	key := fmt.Sprintf(sessionKeyTpl, token)
	now := time.Now().UTC()

	pipe := sm.redis.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"email":                 email,
		"reg_no":                regNo,
		"request_count":         0,
		"last_request_dttm_utc": now.Format(timeFormat),
		"created_dttm_utc":      now.Format(timeFormat),
	})
	if sm.ttl > 0 {
		pipe.Expire(ctx, key, sm.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.SessionInfo{
		Token:           token,
		Email:           email,
		RegNo:           regNo,
		RequestCount:    0,
		LastRequestTime: now,
		CreatedTime:     now,
	}, nil
}

func (sm *SessionManager) FetchSession(ctx context.Context, token string) (*models.SessionInfo, error) {
	key := fmt.Sprintf(sessionKeyTpl, token)

	values, err := sm.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("session not found")
	}

	now := time.Now().UTC()
	pipe := sm.redis.Pipeline()
	pipe.HIncrBy(ctx, key, "request_count", 1)
	pipe.HSet(ctx, key, "last_request_dttm_utc", now.Format(timeFormat))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to update session stats: %w", err)
	}

	lastReqTime, _ := time.Parse(timeFormat, values["last_request_dttm_utc"])
	createdTime, _ := time.Parse(timeFormat, values["created_dttm_utc"])
	reqCount, _ := strconv.Atoi(values["request_count"])

	return &models.SessionInfo{
		Token:           token,
		Email:           values["email"],
		RegNo:           values["reg_no"],
		RequestCount:    reqCount,
		LastRequestTime: lastReqTime,
		CreatedTime:     createdTime,
	}, nil
}

func (sm *SessionManager) DeleteSession(ctx context.Context, token string) error {
	key := fmt.Sprintf(sessionKeyTpl, token)
	return sm.redis.Del(ctx, key).Err()
}

func (sm *SessionManager) Close() error {
	if sm.redis != nil {
		return sm.redis.Close()
	}
	return nil
}
