package core

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// PresenceEvent is a single join or leave transition observed in a room.
type PresenceEvent struct {
	Kind          EventKind // EventPresenceJoin or EventPresenceLeave
	ParticipantID string
	Room          string
	ObservedAt    time.Time
	Reason        LeaveReason
}

// Event converts the transition into a client notification.
func (p PresenceEvent) Event() *Event {
	return &Event{
		Kind:   p.Kind,
		Room:   p.Room,
		User:   p.ParticipantID,
		Reason: p.Reason,
		At:     p.ObservedAt,
	}
}

// Diff computes the minimal presence delta between two membership sets.
// Joins come first, then leaves, each ordered by participant ID. Every call
// reports its own delta; nothing is coalesced across calls.
func Diff(before, after []string, room string, at time.Time) []PresenceEvent {
	left, joined := lo.Difference(before, after)
	sort.Strings(joined)
	sort.Strings(left)

	events := make([]PresenceEvent, 0, len(joined)+len(left))
	for _, id := range joined {
		events = append(events, PresenceEvent{Kind: EventPresenceJoin, ParticipantID: id, Room: room, ObservedAt: at})
	}
	for _, id := range left {
		events = append(events, PresenceEvent{Kind: EventPresenceLeave, ParticipantID: id, Room: room, ObservedAt: at})
	}
	return events
}

// Snapshot returns the sorted participant IDs of a session set.
func Snapshot(sessions map[string]*Session) []string {
	members := lo.Keys(sessions)
	sort.Strings(members)
	return members
}
