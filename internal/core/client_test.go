package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientDeliverIsBounded(t *testing.T) {
	c := NewClient("alice", 2)

	require.True(t, c.Deliver(&Event{Kind: EventMessage}))
	require.True(t, c.Deliver(&Event{Kind: EventMessage}))
	require.False(t, c.Deliver(&Event{Kind: EventMessage}))
	require.Len(t, drain(c), 2)
}

func TestClientDropKeepsFirstReason(t *testing.T) {
	c := NewClient("alice", 2)
	require.Empty(t, c.DropReason())

	c.Drop(LeaveReasonBackpressure)
	c.Drop(LeaveReasonDisconnected)

	<-c.Dropped()
	require.Equal(t, LeaveReasonBackpressure, c.DropReason())
	require.False(t, c.Deliver(&Event{Kind: EventMessage}))
}

func TestClientRename(t *testing.T) {
	c := NewClient("user-1", 1)
	c.Rename("alice")
	require.Equal(t, "alice", c.ParticipantID())
}
