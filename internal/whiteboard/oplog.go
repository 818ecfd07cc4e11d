package whiteboard

import "encoding/json"

var nullStroke = json.RawMessage("null")

// AppendStroke records a stroke by authorID and relays it to every other member
func (c *Coordinator) AppendStroke(sessionID, authorID string, stroke json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.actingSession(sessionID, authorID)
	if !ok {
		return
	}

	if len(stroke) == 0 {
		stroke = nullStroke
	}
	sess.Operations = append(sess.Operations, Operation{
		Kind:      OperationStroke,
		AuthorID:  authorID,
		Timestamp: c.now(),
		Stroke:    stroke,
	})

	c.router.BroadcastToSession(sessionID, Event{
		Type: EventStroke,
		Data: StrokeData{Stroke: stroke, AuthorID: authorID},
	}, authorID)

	c.notify(Notification{
		Kind:         NotifyStrokeAppended,
		SessionID:    sessionID,
		ConnectionID: authorID,
		Index:        len(sess.Operations) - 1,
		LogLength:    len(sess.Operations),
		MemberCount:  len(sess.Members),
	})
}

// UndoLast removes authorID's most recent stroke and tells every member, the author
// included, which index went away. Nothing happens when the author has no strokes left.
func (c *Coordinator) UndoLast(sessionID, authorID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.actingSession(sessionID, authorID)
	if !ok {
		return
	}

	index := sess.lastStrokeBy(authorID)
	if index < 0 {
		return
	}
	sess.removeOperation(index)

	c.router.BroadcastToSession(sessionID, Event{
		Type: EventStrokeUndone,
		Data: StrokeUndoneData{AuthorID: authorID, Index: index},
	}, "")

	c.log.Debug("Stroke undone", "sessionID", sessionID, "authorID", authorID, "index", index)
	c.notify(Notification{
		Kind:         NotifyStrokeUndone,
		SessionID:    sessionID,
		ConnectionID: authorID,
		Index:        index,
		LogLength:    len(sess.Operations),
		MemberCount:  len(sess.Members),
	})
}

// Clear empties the log of sessionID on behalf of any member
func (c *Coordinator) Clear(sessionID, initiatorID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.actingSession(sessionID, initiatorID)
	if !ok {
		return
	}

	removed := len(sess.Operations)
	sess.clearOperations()

	c.router.BroadcastToSession(sessionID, Event{Type: EventCanvasCleared, Data: CanvasClearedData{}}, "")

	c.log.Info("Canvas cleared", "sessionID", sessionID, "initiatorID", initiatorID, "removed", removed)
	c.notify(Notification{
		Kind:         NotifyCanvasCleared,
		SessionID:    sessionID,
		ConnectionID: initiatorID,
		MemberCount:  len(sess.Members),
	})
}

// Cursor relays a pointer position to the other members. Cursors are never logged.
func (c *Coordinator) Cursor(sessionID, authorID string, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.actingSession(sessionID, authorID); !ok {
		return
	}

	c.router.BroadcastToSession(sessionID, Event{
		Type: EventCursor,
		Data: CursorData{AuthorID: authorID, X: x, Y: y},
	}, authorID)
}

// actingSession returns the live session when connID is currently one of its members
func (c *Coordinator) actingSession(sessionID, connID string) (*Session, bool) {
	sess, ok := c.store.Get(sessionID)
	if !ok {
		return nil, false
	}
	conn, ok := c.registry.Get(connID)
	if !ok || !conn.InSession(sessionID) {
		return nil, false
	}
	return sess, true
}
