package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"whiteboard-service/internal/whiteboard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresenceStore struct {
	mu        sync.Mutex
	members   map[string]map[string]PresenceRecord
	published []string
	failJoin  bool
	block     chan struct{}
}

func newFakePresenceStore() *fakePresenceStore {
	return &fakePresenceStore{members: make(map[string]map[string]PresenceRecord)}
}

func (f *fakePresenceStore) MemberJoined(_ context.Context, sessionID, connID string, record PresenceRecord) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failJoin {
		return errors.New("redis down")
	}
	if f.members[sessionID] == nil {
		f.members[sessionID] = make(map[string]PresenceRecord)
	}
	f.members[sessionID][connID] = record
	return nil
}

func (f *fakePresenceStore) MemberLeft(_ context.Context, sessionID, connID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members[sessionID], connID)
	return nil
}

func (f *fakePresenceStore) SessionClosed(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members, sessionID)
	return nil
}

func (f *fakePresenceStore) PublishSessionEvent(_ context.Context, sessionID string, event interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := event.(whiteboard.Notification)
	f.published = append(f.published, sessionID+":"+string(n.Kind))
	return nil
}

func (f *fakePresenceStore) snapshot() (map[string]map[string]PresenceRecord, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	members := make(map[string]map[string]PresenceRecord, len(f.members))
	for k, v := range f.members {
		inner := make(map[string]PresenceRecord, len(v))
		for ik, iv := range v {
			inner[ik] = iv
		}
		members[k] = inner
	}
	return members, append([]string(nil), f.published...)
}

func TestPresenceMirrorFollowsCoordinator(t *testing.T) {
	store := newFakePresenceStore()
	mirror := NewPresenceMirror(store, 16, nil)
	go mirror.Run()

	coord := whiteboard.NewCoordinator(whiteboard.WithObserver(mirror))
	coord.Connect("conn-a", nil)
	coord.Connect("conn-b", nil)
	coord.Join("conn-a", "board-1", "Alice")
	coord.Join("conn-b", "board-1", "Bob")
	coord.AppendStroke("board-1", "conn-a", []byte(`{"n":1}`))
	coord.Leave("conn-a", "board-1")

	mirror.Close(time.Second)

	members, published := store.snapshot()
	require.Contains(t, members, "board-1")
	assert.Equal(t, map[string]PresenceRecord{
		"conn-b": {DisplayName: "Bob", Color: whiteboard.Palette[1], JoinedAt: members["board-1"]["conn-b"].JoinedAt},
	}, members["board-1"])
	assert.Equal(t, []string{
		"board-1:member-joined",
		"board-1:member-joined",
		"board-1:stroke-appended",
		"board-1:member-left",
	}, published)
}

func TestPresenceMirrorRemovesClosedSessions(t *testing.T) {
	store := newFakePresenceStore()
	mirror := NewPresenceMirror(store, 16, nil)
	go mirror.Run()

	coord := whiteboard.NewCoordinator(whiteboard.WithObserver(mirror))
	coord.Connect("conn-a", nil)
	coord.Join("conn-a", "board-1", "")
	coord.Disconnect("conn-a")

	mirror.Close(time.Second)

	members, published := store.snapshot()
	assert.NotContains(t, members, "board-1")
	assert.Equal(t, "board-1:session-closed", published[len(published)-1])
}

func TestPresenceMirrorKeepsPublishingWhenStoreFails(t *testing.T) {
	store := newFakePresenceStore()
	store.failJoin = true
	mirror := NewPresenceMirror(store, 4, nil)
	go mirror.Run()

	mirror.Observe(whiteboard.Notification{Kind: whiteboard.NotifyMemberJoined, SessionID: "board-1", ConnectionID: "a"})
	mirror.Close(time.Second)

	_, published := store.snapshot()
	assert.Equal(t, []string{"board-1:member-joined"}, published)
}

func TestPresenceMirrorDropsWhenFull(t *testing.T) {
	store := newFakePresenceStore()
	store.block = make(chan struct{})
	mirror := NewPresenceMirror(store, 1, nil)

	// nothing drains the queue yet
	mirror.Observe(whiteboard.Notification{Kind: whiteboard.NotifyMemberJoined, SessionID: "board-1"})
	mirror.Observe(whiteboard.Notification{Kind: whiteboard.NotifyMemberJoined, SessionID: "board-1"})
	mirror.Observe(whiteboard.Notification{Kind: whiteboard.NotifyMemberJoined, SessionID: "board-1"})

	assert.Equal(t, int64(2), mirror.Dropped())

	close(store.block)
	go mirror.Run()
	mirror.Close(time.Second)

	// observing after close is a no-op
	mirror.Observe(whiteboard.Notification{Kind: whiteboard.NotifyMemberLeft, SessionID: "board-1"})
	_, published := store.snapshot()
	assert.Len(t, published, 1)
}
