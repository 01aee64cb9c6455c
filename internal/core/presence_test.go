package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDiff_JoinsThenLeavesSorted(t *testing.T) {
	req := require.New(t)
	at := time.Now()

	events := Diff([]string{"a", "c", "d"}, []string{"a", "b", "e", "c"}, "ROOM", at)

	req.Len(events, 3)
	req.Equal(PresenceEvent{Kind: EventPresenceJoin, ParticipantID: "b", Room: "ROOM", ObservedAt: at}, events[0])
	req.Equal(PresenceEvent{Kind: EventPresenceJoin, ParticipantID: "e", Room: "ROOM", ObservedAt: at}, events[1])
	req.Equal(PresenceEvent{Kind: EventPresenceLeave, ParticipantID: "d", Room: "ROOM", ObservedAt: at}, events[2])
}

func TestDiff_NoChange(t *testing.T) {
	require.Empty(t, Diff([]string{"a", "b"}, []string{"b", "a"}, "ROOM", time.Now()))
	require.Empty(t, Diff(nil, nil, "ROOM", time.Now()))
}

func TestDiff_JoinThenLeaveAreBothReported(t *testing.T) {
	req := require.New(t)

	// Given a participant that joins and leaves right away
	join := Diff(nil, []string{"a"}, "ROOM", time.Now())
	leave := Diff([]string{"a"}, nil, "ROOM", time.Now())

	// Then each step reports its own transition
	req.Len(join, 1)
	req.Equal(EventPresenceJoin, join[0].Kind)
	req.Len(leave, 1)
	req.Equal(EventPresenceLeave, leave[0].Kind)
}

func TestPresenceEvent_Event(t *testing.T) {
	at := time.Now()
	ev := PresenceEvent{Kind: EventPresenceLeave, ParticipantID: "a", Room: "R", ObservedAt: at, Reason: LeaveReasonLeft}.Event()
	require.Equal(t, &Event{Kind: EventPresenceLeave, Room: "R", User: "a", Reason: LeaveReasonLeft, At: at}, ev)
}

func TestSnapshot_Sorted(t *testing.T) {
	sessions := map[string]*Session{"c": {}, "a": {}, "b": {}}
	require.Equal(t, []string{"a", "b", "c"}, Snapshot(sessions))
}
