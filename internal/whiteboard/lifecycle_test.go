package whiteboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinCreatesSessionWithOneMember(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "conn-a")

	c.Join("conn-a", "board-1", "Alice")

	members, ops, ok := c.Session("board-1")
	require.True(t, ok)
	assert.Equal(t, []string{"conn-a"}, memberIDs(members))
	assert.Empty(t, ops)
}

func TestJoinExistingSessionKeepsLog(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "conn-a")
	connect(c, "conn-b")
	connect(c, "conn-c")

	c.Join("conn-a", "board-1", "")
	c.Join("conn-b", "board-1", "")
	c.AppendStroke("board-1", "conn-a", stroke(t, "A1"))

	c.Join("conn-c", "board-1", "")

	members, ops, ok := c.Session("board-1")
	require.True(t, ok)
	assert.Equal(t, []string{"conn-a", "conn-b", "conn-c"}, memberIDs(members))
	assert.Equal(t, []string{"A1"}, strokeLabels(t, ops))
}

func TestJoinNotifiesOthersButNotJoiner(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "conn-a")
	b := connect(c, "conn-b")

	c.Join("conn-a", "board-1", "Alice")
	a.reset()

	c.Join("conn-b", "board-1", "Bob")

	joined := a.ofType(EventMemberJoined)
	require.Len(t, joined, 1)
	assert.Equal(t, MemberJoinedData{ID: "conn-b", DisplayName: "Bob", Color: Palette[1]}, joined[0].Data)

	assert.Empty(t, b.ofType(EventMemberJoined))
	require.Len(t, b.ofType(EventSessionState), 1)
}

func TestJoinUsesDefaultDisplayName(t *testing.T) {
	c := newTestCoordinator()
	s := connect(c, "abcdef123456")

	c.Join("abcdef123456", "board-1", "")

	states := s.ofType(EventSessionState)
	require.Len(t, states, 1)
	state := states[0].Data.(SessionState)
	assert.Equal(t, "Guest-abcdef", state.Self.DisplayName)
}

func TestJoinKeepsRequestedDisplayNameVerbatim(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "conn-a")
	b := connect(c, "conn-b")

	c.Join("conn-a", "board-1", "  Bob  ")
	c.Join("conn-b", "board-1", " ")

	state := a.ofType(EventSessionState)[0].Data.(SessionState)
	assert.Equal(t, "  Bob  ", state.Self.DisplayName)

	members, _, ok := c.Session("board-1")
	require.True(t, ok)
	assert.Equal(t, "  Bob  ", members[0].DisplayName)
	assert.Equal(t, " ", members[1].DisplayName)
	assert.Equal(t, " ", b.ofType(EventSessionState)[0].Data.(SessionState).Self.DisplayName)
}

func TestEmptySessionIsTornDown(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "conn-a")

	c.Join("conn-a", "board-1", "")
	c.AppendStroke("board-1", "conn-a", stroke(t, "A1"))
	c.Leave("conn-a", "board-1")

	_, _, ok := c.Session("board-1")
	assert.False(t, ok)
	assert.Empty(t, c.Sessions())

	c.Join("conn-a", "board-1", "")
	_, ops, ok := c.Session("board-1")
	require.True(t, ok)
	assert.Empty(t, ops)
}

func TestLeaveNotifiesRemainingMembers(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "conn-a")
	b := connect(c, "conn-b")

	c.Join("conn-a", "board-1", "Alice")
	c.Join("conn-b", "board-1", "Bob")
	a.reset()
	b.reset()

	c.Leave("conn-b", "board-1")

	left := a.ofType(EventMemberLeft)
	require.Len(t, left, 1)
	assert.Equal(t, MemberLeftData{ID: "conn-b", DisplayName: "Bob"}, left[0].Data)
	assert.Empty(t, b.events)

	sessionID, ok := c.ConnectionSession("conn-b")
	require.True(t, ok)
	assert.Empty(t, sessionID)
}

func TestLeaveUnknownSessionIsNoop(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "conn-a")
	c.Join("conn-a", "board-1", "")

	c.Leave("conn-a", "board-2")
	c.Leave("conn-z", "board-1")

	members, _, ok := c.Session("board-1")
	require.True(t, ok)
	assert.Len(t, members, 1)
}

func TestSwitchingSessionsLeavesPrevious(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "conn-a")
	connect(c, "conn-b")

	c.Join("conn-a", "board-a", "")
	c.Join("conn-b", "board-a", "Bob")
	a.reset()

	c.Join("conn-b", "board-b", "Bob")

	membersA, _, ok := c.Session("board-a")
	require.True(t, ok)
	assert.Equal(t, []string{"conn-a"}, memberIDs(membersA))

	membersB, _, ok := c.Session("board-b")
	require.True(t, ok)
	assert.Equal(t, []string{"conn-b"}, memberIDs(membersB))

	left := a.ofType(EventMemberLeft)
	require.Len(t, left, 1)
	assert.Equal(t, "conn-b", left[0].Data.(MemberLeftData).ID)
}

func TestSwitchingFromSoloSessionDestroysIt(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "conn-a")

	c.Join("conn-a", "board-a", "")
	c.Join("conn-a", "board-b", "")

	_, _, ok := c.Session("board-a")
	assert.False(t, ok)
	sessionID, _ := c.ConnectionSession("conn-a")
	assert.Equal(t, "board-b", sessionID)
}

func TestRejoinSameSessionResendsSnapshotOnly(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "conn-a")
	b := connect(c, "conn-b")

	c.Join("conn-a", "board-1", "")
	c.Join("conn-b", "board-1", "")
	a.reset()
	b.reset()

	c.Join("conn-b", "board-1", "")

	assert.Empty(t, a.events)
	require.Len(t, b.ofType(EventSessionState), 1)
	members, _, _ := c.Session("board-1")
	assert.Len(t, members, 2)
}

func TestLateJoinerReceivesExactState(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "conn-a")
	connect(c, "conn-b")
	late := connect(c, "conn-c")

	c.Join("conn-a", "board-1", "Alice")
	c.Join("conn-b", "board-1", "Bob")
	c.AppendStroke("board-1", "conn-a", stroke(t, "A1"))
	c.AppendStroke("board-1", "conn-b", stroke(t, "B1"))
	c.Cursor("board-1", "conn-a", 10, 20)

	c.Join("conn-c", "board-1", "Carol")

	require.Len(t, late.events, 1)
	state, ok := late.events[0].Data.(SessionState)
	require.True(t, ok)
	assert.Equal(t, "board-1", state.SessionID)
	assert.Equal(t, []Member{
		{ID: "conn-a", DisplayName: "Alice", Color: Palette[0]},
		{ID: "conn-b", DisplayName: "Bob", Color: Palette[1]},
	}, state.Members)
	assert.Equal(t, []string{"A1", "B1"}, strokeLabels(t, state.Operations))
	assert.Equal(t, "conn-a", state.Operations[0].AuthorID)
	assert.Equal(t, Member{ID: "conn-c", DisplayName: "Carol", Color: Palette[2]}, state.Self)
	assert.Empty(t, late.ofType(EventCursor))
}

func TestSnapshotIsACopy(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "conn-a")

	c.Join("conn-a", "board-1", "")
	state := a.ofType(EventSessionState)[0].Data.(SessionState)

	c.AppendStroke("board-1", "conn-a", stroke(t, "A1"))

	assert.Empty(t, state.Operations)
}

func TestColorAssignmentFollowsJoinOrder(t *testing.T) {
	c := newTestCoordinator()
	ids := []string{"c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9"}
	for _, id := range ids {
		connect(c, id)
		c.Join(id, "board-1", "")
	}

	members, _, ok := c.Session("board-1")
	require.True(t, ok)
	for n, m := range members {
		assert.Equal(t, Palette[n%8], m.Color, "member %d", n)
	}
}

func TestDisconnectLeavesAndUnregisters(t *testing.T) {
	c := newTestCoordinator()
	a := connect(c, "conn-a")
	connect(c, "conn-b")

	c.Join("conn-a", "board-1", "")
	c.Join("conn-b", "board-1", "Bob")
	a.reset()

	c.Disconnect("conn-b")

	assert.Equal(t, 1, c.ConnectionCount())
	_, ok := c.ConnectionSession("conn-b")
	assert.False(t, ok)
	require.Len(t, a.ofType(EventMemberLeft), 1)

	c.Disconnect("conn-a")
	assert.Empty(t, c.Sessions())
	assert.Equal(t, 0, c.ConnectionCount())
}

func TestDisconnectUnknownIsNoop(t *testing.T) {
	c := newTestCoordinator()
	connect(c, "conn-a")

	c.Disconnect("ghost")
	c.Disconnect("ghost")

	assert.Equal(t, 1, c.ConnectionCount())
}

func TestJoinFromUnregisteredConnectionIsNoop(t *testing.T) {
	c := newTestCoordinator()

	c.Join("ghost", "board-1", "")

	assert.Empty(t, c.Sessions())
}

func TestObserversSeeLifecycle(t *testing.T) {
	var seen []NotificationKind
	c := newTestCoordinator(WithObserver(ObserverFunc(func(n Notification) {
		seen = append(seen, n.Kind)
	})))
	connect(c, "conn-a")

	c.Join("conn-a", "board-1", "")
	c.AppendStroke("board-1", "conn-a", stroke(t, "A1"))
	c.UndoLast("board-1", "conn-a")
	c.Clear("board-1", "conn-a")
	c.Disconnect("conn-a")

	assert.Equal(t, []NotificationKind{
		NotifyMemberJoined,
		NotifyStrokeAppended,
		NotifyStrokeUndone,
		NotifyCanvasCleared,
		NotifyMemberLeft,
		NotifySessionClosed,
	}, seen)
}
