package whiteboard

import (
	"sort"
	"time"
)

// Store is the in-memory session table. A session is present iff it has at least one
// member; RemoveMember deletes the session in the same step that empties it.
type Store struct {
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

// Get returns the live session for sessionID
func (s *Store) Get(sessionID string) (*Session, bool) {
	sess, exists := s.sessions[sessionID]
	return sess, exists
}

// GetOrCreate returns the session for sessionID, creating an empty one when absent.
// Callers must add a member to a newly created session before releasing the lock.
func (s *Store) GetOrCreate(sessionID string) (sess *Session, created bool) {
	if sess, exists := s.sessions[sessionID]; exists {
		return sess, false
	}

	sess = &Session{
		ID:         sessionID,
		Members:    make([]Member, 0, 4),
		Operations: make([]Operation, 0),
		CreatedAt:  s.now(),
	}
	s.sessions[sessionID] = sess
	return sess, true
}

// RemoveMember drops connID from sessionID. When that leaves the session empty the
// session is destroyed before returning.
func (s *Store) RemoveMember(sessionID, connID string) (member Member, destroyed bool, ok bool) {
	sess, exists := s.sessions[sessionID]
	if !exists {
		return Member{}, false, false
	}

	member, ok = sess.removeMember(connID)
	if !ok {
		return Member{}, false, false
	}

	if len(sess.Members) == 0 {
		delete(s.sessions, sessionID)
		return member, true, true
	}
	return member, false, true
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	return len(s.sessions)
}

// Summaries returns a sorted read-only view of all live sessions
func (s *Store) Summaries() []SessionSummary {
	out := make([]SessionSummary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, SessionSummary{
			ID:             sess.ID,
			MemberCount:    len(sess.Members),
			OperationCount: len(sess.Operations),
			CreatedAt:      sess.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
