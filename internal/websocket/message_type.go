package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"whiteboard-service/internal/whiteboard"
)

var (
	ErrMalformedMessage   = errors.New("malformed message")
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Error codes carried by error envelopes
const (
	ErrorCodeInvalidMessage = "INVALID_MESSAGE"
	ErrorCodeUnknownType    = "UNKNOWN_TYPE"
)

// MessageType is the type of a client to server envelope
type MessageType string

const (
	MessageTypeJoin   MessageType = "join"
	MessageTypeStroke MessageType = "stroke"
	MessageTypeCursor MessageType = "cursor"
	MessageTypeUndo   MessageType = "undo"
	MessageTypeClear  MessageType = "clear"
	MessageTypeLeave  MessageType = "leave"
)

func (mt MessageType) String() string {
	return string(mt)
}

// IsValid checks if the MessageType is one the server accepts
func (mt MessageType) IsValid() bool {
	switch mt {
	case MessageTypeJoin, MessageTypeStroke, MessageTypeCursor,
		MessageTypeUndo, MessageTypeClear, MessageTypeLeave:
		return true
	default:
		return false
	}
}

// GetAllMessageTypes returns all accepted client message types
func GetAllMessageTypes() []MessageType {
	return []MessageType{
		MessageTypeJoin, MessageTypeStroke, MessageTypeCursor,
		MessageTypeUndo, MessageTypeClear, MessageTypeLeave,
	}
}

// Message is the inbound envelope. Data is decoded according to Type.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// Envelope is the outbound frame; exactly one per WebSocket text message
type Envelope struct {
	Type      whiteboard.EventType `json:"type"`
	Data      any                  `json:"data"`
	Timestamp int64                `json:"timestamp"`
}

type JoinData struct {
	SessionID   string `json:"sessionId"`
	DisplayName string `json:"displayName,omitempty"`
}

type StrokeData struct {
	SessionID string          `json:"sessionId"`
	Stroke    json.RawMessage `json:"stroke"`
}

type CursorData struct {
	SessionID string   `json:"sessionId"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
}

// SessionData carries only the session id (undo, clear, leave)
type SessionData struct {
	SessionID string `json:"sessionId"`
}

// DecodeCommand parses one inbound frame into a core command. Every rejection wraps
// ErrMalformedMessage or ErrUnknownMessageType.
func DecodeCommand(raw []byte) (whiteboard.Command, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}
	if !msg.Type.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessageType, msg.Type)
	}

	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := decodeData(msg, &data); err != nil {
			return nil, err
		}
		if err := requireSession(msg.Type, data.SessionID); err != nil {
			return nil, err
		}
		return whiteboard.JoinCommand{SessionID: data.SessionID, DisplayName: data.DisplayName}, nil

	case MessageTypeStroke:
		var data StrokeData
		if err := decodeData(msg, &data); err != nil {
			return nil, err
		}
		if err := requireSession(msg.Type, data.SessionID); err != nil {
			return nil, err
		}
		if len(data.Stroke) == 0 || string(data.Stroke) == "null" {
			return nil, fmt.Errorf("%w: stroke requires a payload", ErrMalformedMessage)
		}
		return whiteboard.StrokeCommand{SessionID: data.SessionID, Stroke: data.Stroke}, nil

	case MessageTypeCursor:
		var data CursorData
		if err := decodeData(msg, &data); err != nil {
			return nil, err
		}
		if err := requireSession(msg.Type, data.SessionID); err != nil {
			return nil, err
		}
		if data.X == nil || data.Y == nil {
			return nil, fmt.Errorf("%w: cursor requires x and y", ErrMalformedMessage)
		}
		return whiteboard.CursorCommand{SessionID: data.SessionID, X: *data.X, Y: *data.Y}, nil
	}

	var data SessionData
	if err := decodeData(msg, &data); err != nil {
		return nil, err
	}
	if err := requireSession(msg.Type, data.SessionID); err != nil {
		return nil, err
	}
	switch msg.Type {
	case MessageTypeUndo:
		return whiteboard.UndoCommand{SessionID: data.SessionID}, nil
	case MessageTypeClear:
		return whiteboard.ClearCommand{SessionID: data.SessionID}, nil
	default:
		return whiteboard.LeaveCommand{SessionID: data.SessionID}, nil
	}
}

func decodeData(msg Message, v any) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("%w: %s requires data", ErrMalformedMessage, msg.Type)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%w: %s data: %v", ErrMalformedMessage, msg.Type, err)
	}
	return nil
}

func requireSession(mt MessageType, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: %s requires sessionId", ErrMalformedMessage, mt)
	}
	return nil
}

// EncodeEvent renders a server event as one envelope
func EncodeEvent(event whiteboard.Event, now time.Time) ([]byte, error) {
	data := event.Data
	if data == nil {
		data = struct{}{}
	}
	return json.Marshal(Envelope{
		Type:      event.Type,
		Data:      data,
		Timestamp: now.Unix(),
	})
}

// NewErrorEvent creates the event sent back for a rejected frame
func NewErrorEvent(code, message string) whiteboard.Event {
	return whiteboard.Event{
		Type: whiteboard.EventError,
		Data: whiteboard.ErrorData{Code: code, Message: message},
	}
}

// errorEventFor maps a decode failure to the error event reported to the sender
func errorEventFor(err error) whiteboard.Event {
	if errors.Is(err, ErrUnknownMessageType) {
		return NewErrorEvent(ErrorCodeUnknownType, err.Error())
	}
	return NewErrorEvent(ErrorCodeInvalidMessage, err.Error())
}
