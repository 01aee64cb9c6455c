package core

import "sync/atomic"

// Stats holds process-wide counters updated by rooms and the registry.
type Stats struct {
	roomsCreated   atomic.Int64
	roomsDestroyed atomic.Int64
	sessions       atomic.Int64
	joins          atomic.Int64
	leaves         atomic.Int64
	messages       atomic.Int64
	presence       atomic.Int64
	evictions      atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	ActiveRooms    int64 `json:"active_rooms"`
	ActiveSessions int64 `json:"active_sessions"`
	RoomsCreated   int64 `json:"rooms_created"`
	RoomsDestroyed int64 `json:"rooms_destroyed"`
	Joins          int64 `json:"joins"`
	Leaves         int64 `json:"leaves"`
	Messages       int64 `json:"messages"`
	PresenceEvents int64 `json:"presence_events"`
	Evictions      int64 `json:"evictions"`
}

// Snapshot reads all counters. Counters are read independently, so the copy
// is not a consistent cut across rooms.
func (s *Stats) Snapshot() StatsSnapshot {
	created := s.roomsCreated.Load()
	destroyed := s.roomsDestroyed.Load()
	return StatsSnapshot{
		ActiveRooms:    created - destroyed,
		ActiveSessions: s.sessions.Load(),
		RoomsCreated:   created,
		RoomsDestroyed: destroyed,
		Joins:          s.joins.Load(),
		Leaves:         s.leaves.Load(),
		Messages:       s.messages.Load(),
		PresenceEvents: s.presence.Load(),
		Evictions:      s.evictions.Load(),
	}
}
