package whiteboard

import "time"

// NotificationKind names an accepted state change reported to observers
type NotificationKind string

const (
	NotifyMemberJoined   NotificationKind = "member-joined"
	NotifyMemberLeft     NotificationKind = "member-left"
	NotifySessionClosed  NotificationKind = "session-closed"
	NotifyStrokeAppended NotificationKind = "stroke-appended"
	NotifyStrokeUndone   NotificationKind = "stroke-undone"
	NotifyCanvasCleared  NotificationKind = "canvas-cleared"
)

// Notification describes one accepted mutation of the session table
type Notification struct {
	Kind         NotificationKind `json:"kind"`
	SessionID    string           `json:"sessionId"`
	ConnectionID string           `json:"connectionId,omitempty"`
	DisplayName  string           `json:"displayName,omitempty"`
	Color        string           `json:"color,omitempty"`
	Index        int              `json:"index"`
	LogLength    int              `json:"logLength"`
	MemberCount  int              `json:"memberCount"`
	At           time.Time        `json:"at"`
}

// Observer receives notifications while the coordinator lock is held, so Observe must
// return immediately. Slow work belongs on the observer's own goroutine.
type Observer interface {
	Observe(n Notification)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Notification)

func (f ObserverFunc) Observe(n Notification) {
	f(n)
}
