package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessage notifies clients about a chat message in a room.
	EventMessage EventKind = iota
	// EventPresenceSnapshot gives a newly attached client the full member list.
	EventPresenceSnapshot
	// EventPresenceJoin notifies clients about a participant joining a room.
	EventPresenceJoin
	// EventPresenceLeave notifies clients about a participant leaving a room.
	EventPresenceLeave
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventPresenceSnapshot:
		return "presence_snapshot"
	case EventPresenceJoin:
		return "presence_join"
	case EventPresenceLeave:
		return "presence_leave"
	default:
		return "unknown"
	}
}

// LeaveReason tells why a participant left a room.
type LeaveReason string

const (
	LeaveReasonLeft         LeaveReason = "left"
	LeaveReasonDisconnected LeaveReason = "disconnected"
	LeaveReasonBackpressure LeaveReason = "backpressure"
)

// Event is sent to clients to describe what happened in a room.
type Event struct {
	Kind    EventKind
	Room    string
	User    string      // participant for presence join/leave
	Reason  LeaveReason // presence leave only
	Members []string    // presence snapshot only
	Message Message     // message only
	At      time.Time
}
