package whiteboard

import (
	"encoding/json"
	"time"
)

// Sender delivers a server event to one live connection. Implementations must not block:
// a saturated or closed connection reports an error and the event is dropped.
type Sender interface {
	Send(event Event) error
}

// Connection is one live network connection known to the registry
type Connection struct {
	ID          string
	DisplayName string
	Color       string
	SessionID   string // empty while the connection is not in a session
	ConnectedAt time.Time

	sender Sender
}

// InSession reports whether the connection is currently a member of sessionID
func (c *Connection) InSession(sessionID string) bool {
	return c.SessionID != "" && c.SessionID == sessionID
}

// Member is a connection's presence inside a session
type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
}

// OperationKind tags entries of a session's operation log
type OperationKind string

const (
	OperationStroke OperationKind = "stroke"
)

// Operation is one accepted drawing action. The stroke payload is opaque to the server.
type Operation struct {
	Kind      OperationKind   `json:"kind"`
	AuthorID  string          `json:"authorId"`
	Timestamp time.Time       `json:"timestamp"`
	Stroke    json.RawMessage `json:"stroke"`
}

// Session is the live collaborative state of one drawing. It is owned by the Store.
type Session struct {
	ID         string
	Members    []Member
	Operations []Operation
	CreatedAt  time.Time
}

func (s *Session) memberIndex(connID string) int {
	for i, m := range s.Members {
		if m.ID == connID {
			return i
		}
	}
	return -1
}

func (s *Session) hasMember(connID string) bool {
	return s.memberIndex(connID) >= 0
}

func (s *Session) addMember(m Member) {
	s.Members = append(s.Members, m)
}

func (s *Session) removeMember(connID string) (Member, bool) {
	i := s.memberIndex(connID)
	if i < 0 {
		return Member{}, false
	}
	m := s.Members[i]
	s.Members = append(s.Members[:i], s.Members[i+1:]...)
	return m, true
}

// lastStrokeBy returns the highest log index of a stroke authored by authorID, or -1
func (s *Session) lastStrokeBy(authorID string) int {
	for i := len(s.Operations) - 1; i >= 0; i-- {
		op := s.Operations[i]
		if op.Kind == OperationStroke && op.AuthorID == authorID {
			return i
		}
	}
	return -1
}

func (s *Session) removeOperation(index int) Operation {
	op := s.Operations[index]
	s.Operations = append(s.Operations[:index], s.Operations[index+1:]...)
	return op
}

func (s *Session) clearOperations() {
	s.Operations = make([]Operation, 0)
}

// copyMembers returns the members in join order, skipping excludeID when non-empty
func (s *Session) copyMembers(excludeID string) []Member {
	members := make([]Member, 0, len(s.Members))
	for _, m := range s.Members {
		if excludeID != "" && m.ID == excludeID {
			continue
		}
		members = append(members, m)
	}
	return members
}

func (s *Session) copyOperations() []Operation {
	ops := make([]Operation, len(s.Operations))
	copy(ops, s.Operations)
	return ops
}

// SessionState is the snapshot sent to a joining connection. Members lists everyone else
// in join order; Self carries the joiner's own assigned attributes.
type SessionState struct {
	SessionID  string      `json:"sessionId"`
	Self       Member      `json:"self"`
	Members    []Member    `json:"members"`
	Operations []Operation `json:"operations"`
}

// SessionSummary is a read-only view used by the HTTP API
type SessionSummary struct {
	ID             string    `json:"id"`
	MemberCount    int       `json:"memberCount"`
	OperationCount int       `json:"operationCount"`
	CreatedAt      time.Time `json:"createdAt"`
}
