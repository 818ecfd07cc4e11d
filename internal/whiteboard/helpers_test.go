package whiteboard

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errSenderClosed = errors.New("sender closed")

// recordingSender captures every event delivered to one fake connection
type recordingSender struct {
	events []Event
	closed bool
}

func (s *recordingSender) Send(event Event) error {
	if s.closed {
		return errSenderClosed
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSender) ofType(t EventType) []Event {
	out := make([]Event, 0)
	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (s *recordingSender) reset() {
	s.events = nil
}

type fixedClock struct {
	now time.Time
}

func (f *fixedClock) Now() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func newTestCoordinator(opts ...Option) *Coordinator {
	clock := &fixedClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewCoordinator(append([]Option{WithClock(clock.Now)}, opts...)...)
}

// connect registers connID and clears the greeting so tests only see later traffic
func connect(c *Coordinator, connID string) *recordingSender {
	s := &recordingSender{}
	c.Connect(connID, s)
	s.reset()
	return s
}

func stroke(t *testing.T, label string) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(map[string]string{"label": label})
	require.NoError(t, err)
	return b
}

func strokeLabels(t *testing.T, ops []Operation) []string {
	t.Helper()
	labels := make([]string, 0, len(ops))
	for _, op := range ops {
		var v map[string]string
		require.NoError(t, json.Unmarshal(op.Stroke, &v))
		labels = append(labels, v["label"])
	}
	return labels
}

func memberIDs(members []Member) []string {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return ids
}
