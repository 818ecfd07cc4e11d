package whiteboard

import "encoding/json"

// EventType names a server to client event
type EventType string

const (
	EventConnected     EventType = "connected"
	EventSessionState  EventType = "session-state"
	EventMemberJoined  EventType = "member-joined"
	EventMemberLeft    EventType = "member-left"
	EventStroke        EventType = "stroke"
	EventCursor        EventType = "cursor"
	EventStrokeUndone  EventType = "stroke-undone"
	EventCanvasCleared EventType = "canvas-cleared"
	EventError         EventType = "error"
)

func (t EventType) String() string {
	return string(t)
}

// Event is a typed server event; Data is one of the payload structs below
type Event struct {
	Type EventType
	Data any
}

type ConnectedData struct {
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
}

type MemberJoinedData struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
}

type MemberLeftData struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type StrokeData struct {
	Stroke   json.RawMessage `json:"stroke"`
	AuthorID string          `json:"authorId"`
}

type CursorData struct {
	AuthorID string  `json:"authorId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type StrokeUndoneData struct {
	AuthorID string `json:"authorId"`
	Index    int    `json:"index"`
}

type CanvasClearedData struct{}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
