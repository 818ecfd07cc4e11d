package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"whiteboard-service/internal/database"
	"whiteboard-service/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const liveSessionsKey = "whiteboard:sessions"

// PresenceRecord is what the mirror stores per member
type PresenceRecord struct {
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
	JoinedAt    int64  `json:"joinedAt"`
}

type RedisService struct {
	client *database.RedisClient
	logger *logger.Logger
}

func NewRedisService(client *database.RedisClient, log *logger.Logger) *RedisService {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisService{
		client: client,
		logger: log,
	}
}

func sessionMembersKey(sessionID string) string {
	return fmt.Sprintf("whiteboard:session:%s:members", sessionID)
}

// SessionEventsChannel is the pub/sub channel carrying a session's presence and log events
func SessionEventsChannel(sessionID string) string {
	return fmt.Sprintf("whiteboard:session:%s:events", sessionID)
}

// =============================================================================
// Session Presence
// =============================================================================

func (r *RedisService) MemberJoined(ctx context.Context, sessionID, connID string, record PresenceRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal presence: %w", err)
	}

	pipe := r.client.GetClient().Pipeline()
	pipe.HSet(ctx, sessionMembersKey(sessionID), connID, data)
	pipe.SAdd(ctx, liveSessionsKey, sessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to mirror member join", "sessionID", sessionID, "connectionID", connID, "error", err)
		return err
	}
	return nil
}

func (r *RedisService) MemberLeft(ctx context.Context, sessionID, connID string) error {
	if err := r.client.GetClient().HDel(ctx, sessionMembersKey(sessionID), connID).Err(); err != nil {
		r.logger.Error("Failed to mirror member leave", "sessionID", sessionID, "connectionID", connID, "error", err)
		return err
	}
	return nil
}

func (r *RedisService) SessionClosed(ctx context.Context, sessionID string) error {
	pipe := r.client.GetClient().Pipeline()
	pipe.Del(ctx, sessionMembersKey(sessionID))
	pipe.SRem(ctx, liveSessionsKey, sessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to mirror session close", "sessionID", sessionID, "error", err)
		return err
	}
	return nil
}

func (r *RedisService) GetSessionMembers(ctx context.Context, sessionID string) (map[string]PresenceRecord, error) {
	raw, err := r.client.GetClient().HGetAll(ctx, sessionMembersKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	members := make(map[string]PresenceRecord, len(raw))
	for connID, data := range raw {
		var record PresenceRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal presence for %s: %w", connID, err)
		}
		members[connID] = record
	}
	return members, nil
}

func (r *RedisService) GetLiveSessions(ctx context.Context) ([]string, error) {
	return r.client.GetClient().SMembers(ctx, liveSessionsKey).Result()
}

// =============================================================================
// PubSub Operations
// =============================================================================

func (r *RedisService) PublishSessionEvent(ctx context.Context, sessionID string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := r.client.GetClient().Publish(ctx, SessionEventsChannel(sessionID), data).Err(); err != nil {
		r.logger.Error("Failed to publish session event", "sessionID", sessionID, "error", err)
		return err
	}

	r.logger.Debug("Published session event", "sessionID", sessionID)
	return nil
}

// =============================================================================
// Rate Limiting
// =============================================================================

// CheckRateLimit records one hit on key and reports whether fewer than limit hits fell
// inside the trailing window
func (r *RedisService) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()

	pipe := r.client.GetClient().Pipeline()

	// Remove old entries
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))

	// Count current entries
	count := pipe.ZCard(ctx, key)

	// Add current request
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})

	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return count.Val() < int64(limit), nil
}

// =============================================================================
// Cache Operations
// =============================================================================

func (r *RedisService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return r.client.GetClient().Set(ctx, key, data, expiration).Err()
}

// Get decodes key into dest. A missing key returns redis.Nil.
func (r *RedisService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.GetClient().Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisService) Delete(ctx context.Context, keys ...string) error {
	return r.client.GetClient().Del(ctx, keys...).Err()
}
