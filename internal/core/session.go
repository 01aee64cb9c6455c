package core

import "time"

// Session is one participant's attachment to one room. It is owned by the
// room and lives from join until leave or disconnect.
type Session struct {
	ParticipantID string
	RoomCode      string
	AttachedAt    time.Time

	sink Sink
}

func newSession(sink Sink, code string, at time.Time) *Session {
	return &Session{
		ParticipantID: sink.ParticipantID(),
		RoomCode:      code,
		AttachedAt:    at,
		sink:          sink,
	}
}
