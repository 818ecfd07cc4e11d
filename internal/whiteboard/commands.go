package whiteboard

import "encoding/json"

// Command is the closed set of inbound client events the coordinator handles
type Command interface {
	CommandName() string
	isCommand()
}

type JoinCommand struct {
	SessionID   string
	DisplayName string
}

type StrokeCommand struct {
	SessionID string
	Stroke    json.RawMessage
}

type CursorCommand struct {
	SessionID string
	X, Y      float64
}

type UndoCommand struct {
	SessionID string
}

type ClearCommand struct {
	SessionID string
}

type LeaveCommand struct {
	SessionID string
}

type DisconnectCommand struct{}

func (JoinCommand) CommandName() string       { return "join" }
func (StrokeCommand) CommandName() string     { return "stroke" }
func (CursorCommand) CommandName() string     { return "cursor" }
func (UndoCommand) CommandName() string       { return "undo" }
func (ClearCommand) CommandName() string      { return "clear" }
func (LeaveCommand) CommandName() string      { return "leave" }
func (DisconnectCommand) CommandName() string { return "disconnect" }

func (JoinCommand) isCommand()       {}
func (StrokeCommand) isCommand()     {}
func (CursorCommand) isCommand()     {}
func (UndoCommand) isCommand()       {}
func (ClearCommand) isCommand()      {}
func (LeaveCommand) isCommand()      {}
func (DisconnectCommand) isCommand() {}

// Dispatch routes one command from connID to its handler
func (c *Coordinator) Dispatch(connID string, cmd Command) {
	switch cmd := cmd.(type) {
	case JoinCommand:
		c.Join(connID, cmd.SessionID, cmd.DisplayName)
	case StrokeCommand:
		c.AppendStroke(cmd.SessionID, connID, cmd.Stroke)
	case CursorCommand:
		c.Cursor(cmd.SessionID, connID, cmd.X, cmd.Y)
	case UndoCommand:
		c.UndoLast(cmd.SessionID, connID)
	case ClearCommand:
		c.Clear(cmd.SessionID, connID)
	case LeaveCommand:
		c.Leave(connID, cmd.SessionID)
	case DisconnectCommand:
		c.Disconnect(connID)
	}
}
