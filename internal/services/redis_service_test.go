package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"whiteboard-service/internal/database"
	"whiteboard-service/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isRedisAvailable reports whether a local Redis is reachable for integration tests
func isRedisAvailable() bool {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

func newTestRedisService(t *testing.T) *RedisService {
	t.Helper()
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	t.Cleanup(func() {
		rdb.FlushDB(context.Background())
		rdb.Close()
	})
	return NewRedisService(database.NewRedisClient(rdb, logger.Nop()), logger.Nop())
}

func TestRedisPresenceLifecycle(t *testing.T) {
	svc := newTestRedisService(t)
	ctx := context.Background()
	sessionID := fmt.Sprintf("board-%d", time.Now().UnixNano())

	require.NoError(t, svc.MemberJoined(ctx, sessionID, "conn-a", PresenceRecord{DisplayName: "Alice", Color: "#e6194b"}))
	require.NoError(t, svc.MemberJoined(ctx, sessionID, "conn-b", PresenceRecord{DisplayName: "Bob", Color: "#3cb44b"}))

	members, err := svc.GetSessionMembers(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, "Alice", members["conn-a"].DisplayName)

	live, err := svc.GetLiveSessions(ctx)
	require.NoError(t, err)
	assert.Contains(t, live, sessionID)

	require.NoError(t, svc.MemberLeft(ctx, sessionID, "conn-a"))
	members, err = svc.GetSessionMembers(ctx, sessionID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	require.NoError(t, svc.SessionClosed(ctx, sessionID))
	members, err = svc.GetSessionMembers(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, members)
	live, err = svc.GetLiveSessions(ctx)
	require.NoError(t, err)
	assert.NotContains(t, live, sessionID)
}

func TestRedisPublishSessionEvent(t *testing.T) {
	svc := newTestRedisService(t)
	ctx := context.Background()

	sub := svc.client.GetClient().Subscribe(ctx, SessionEventsChannel("board-1"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.PublishSessionEvent(ctx, "board-1", map[string]string{"kind": "canvas-cleared"}))

	select {
	case msg := <-sub.Channel():
		assert.JSONEq(t, `{"kind":"canvas-cleared"}`, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestRedisCheckRateLimit(t *testing.T) {
	svc := newTestRedisService(t)
	ctx := context.Background()
	key := fmt.Sprintf("rate_limit:test:%d", time.Now().UnixNano())

	for i := 0; i < 3; i++ {
		allowed, err := svc.CheckRateLimit(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, err := svc.CheckRateLimit(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisCache(t *testing.T) {
	svc := newTestRedisService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "cache:test", []string{"a", "b"}, time.Minute))

	var got []string
	require.NoError(t, svc.Get(ctx, "cache:test", &got))
	assert.Equal(t, []string{"a", "b"}, got)

	require.NoError(t, svc.Delete(ctx, "cache:test"))
	assert.ErrorIs(t, svc.Get(ctx, "cache:test", &got), redis.Nil)
}
