package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/codechat/internal/proto"
)

func TestResolveRoom(t *testing.T) {
	room, err := resolveRoom(options{room: " ab12cd "})
	require.NoError(t, err)
	require.Equal(t, "AB12CD", room)

	generated, err := resolveRoom(options{newRoom: true})
	require.NoError(t, err)
	require.Len(t, generated, 6)

	_, err = resolveRoom(options{room: "   "})
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	left, err := proto.NewEvent(proto.EventUserLeft, proto.EventUserLeftData{Room: "AB12CD", User: "bob", Reason: "left"})
	require.NoError(t, err)
	require.Equal(t, "[room AB12CD] bob left (left)", render(left))

	state, err := proto.NewEvent(proto.EventPresenceState, proto.EventPresenceStateData{Room: "AB12CD", Members: []string{"alice", "bob"}})
	require.NoError(t, err)
	require.Equal(t, "[room AB12CD] 2 online: alice, bob", render(state))

	require.Equal(t, "error not_attached: nope", render(proto.NewError("not_attached", "nope")))
}
