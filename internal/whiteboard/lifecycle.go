package whiteboard

// Join puts connID into sessionID, leaving any other session first. The joiner receives
// a session-state snapshot and every other member receives member-joined.
func (c *Coordinator) Join(connID, sessionID, displayName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.join(connID, sessionID, displayName)
}

// Leave removes connID from sessionID and tears the session down when it empties
func (c *Coordinator) Leave(connID, sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leave(connID, sessionID)
}

// Disconnect leaves the connection's session and forgets the connection
func (c *Coordinator) Disconnect(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnect(connID)
}

func (c *Coordinator) join(connID, sessionID, displayName string) {
	conn, ok := c.registry.Get(connID)
	if !ok || sessionID == "" {
		return
	}

	if conn.InSession(sessionID) {
		if sess, ok := c.store.Get(sessionID); ok {
			c.router.Unicast(connID, Event{Type: EventSessionState, Data: snapshot(sess, connID)})
		}
		return
	}

	if conn.SessionID != "" {
		c.leave(connID, conn.SessionID)
	}

	sess, created := c.store.GetOrCreate(sessionID)
	if created {
		c.log.Info("Session created", "sessionID", sessionID)
	}

	name := displayName
	if name == "" {
		name = DefaultDisplayName(connID)
	}
	member := Member{
		ID:          connID,
		DisplayName: name,
		Color:       AllocateColor(sessionID, len(sess.Members)),
	}
	sess.addMember(member)

	conn.SessionID = sessionID
	conn.DisplayName = member.DisplayName
	conn.Color = member.Color

	c.router.Unicast(connID, Event{Type: EventSessionState, Data: snapshot(sess, connID)})
	c.router.BroadcastToSession(sessionID, Event{
		Type: EventMemberJoined,
		Data: MemberJoinedData{ID: member.ID, DisplayName: member.DisplayName, Color: member.Color},
	}, connID)

	c.log.Info("Member joined", "sessionID", sessionID, "connectionID", connID, "members", len(sess.Members))
	c.notify(Notification{
		Kind:         NotifyMemberJoined,
		SessionID:    sessionID,
		ConnectionID: connID,
		DisplayName:  member.DisplayName,
		Color:        member.Color,
		LogLength:    len(sess.Operations),
		MemberCount:  len(sess.Members),
	})
}

func (c *Coordinator) leave(connID, sessionID string) {
	member, destroyed, ok := c.store.RemoveMember(sessionID, connID)
	if !ok {
		return
	}

	if conn, exists := c.registry.Get(connID); exists && conn.InSession(sessionID) {
		conn.SessionID = ""
		conn.Color = ""
	}

	remaining := 0
	if sess, exists := c.store.Get(sessionID); exists {
		remaining = len(sess.Members)
		c.router.BroadcastToSession(sessionID, Event{
			Type: EventMemberLeft,
			Data: MemberLeftData{ID: member.ID, DisplayName: member.DisplayName},
		}, connID)
	}

	c.log.Info("Member left", "sessionID", sessionID, "connectionID", connID, "members", remaining)
	c.notify(Notification{
		Kind:         NotifyMemberLeft,
		SessionID:    sessionID,
		ConnectionID: connID,
		DisplayName:  member.DisplayName,
		Color:        member.Color,
		MemberCount:  remaining,
	})

	if destroyed {
		c.log.Info("Session closed", "sessionID", sessionID)
		c.notify(Notification{Kind: NotifySessionClosed, SessionID: sessionID})
	}
}

func (c *Coordinator) disconnect(connID string) {
	conn, ok := c.registry.Get(connID)
	if !ok {
		return
	}

	if conn.SessionID != "" {
		c.leave(connID, conn.SessionID)
	}
	c.registry.Unregister(connID)
	c.log.Debug("Connection unregistered", "connectionID", connID, "connections", c.registry.Len())
}

func snapshot(sess *Session, selfID string) SessionState {
	state := SessionState{
		SessionID:  sess.ID,
		Members:    sess.copyMembers(selfID),
		Operations: sess.copyOperations(),
	}
	if i := sess.memberIndex(selfID); i >= 0 {
		state.Self = sess.Members[i]
	}
	return state
}
