package core

import (
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultRegistryShards = 32

// Registry maps room codes to live rooms. The map is split into shards so
// that rooms with different codes never contend on the same lock.
//
// Lock order is shard before room; a room never takes a shard lock while
// holding its own.
type Registry struct {
	shards        []*registryShard
	maxCodeLength int
	stats         *Stats
	log           *zerolog.Logger

	// onEvict is called after a session was force-left for backpressure.
	onEvict func(code string, sink Sink)
}

type registryShard struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRegistry builds an empty registry.
func NewRegistry(shards, maxCodeLength int, logger *zerolog.Logger) *Registry {
	if shards <= 0 {
		shards = defaultRegistryShards
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	r := &Registry{
		shards:        make([]*registryShard, shards),
		maxCodeLength: maxCodeLength,
		stats:         &Stats{},
		log:           logger,
	}
	for i := range r.shards {
		r.shards[i] = &registryShard{rooms: make(map[string]*Room)}
	}
	return r
}

func (r *Registry) shard(code string) *registryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(code))
	return r.shards[h.Sum32()%uint32(len(r.shards))]
}

// Normalize validates and normalizes a room code with the registry's limits.
func (r *Registry) Normalize(raw string) (string, error) {
	return NormalizeCode(raw, r.maxCodeLength)
}

// GetOrCreate returns the live room for code, creating it when absent.
// Concurrent callers with the same code always get the same instance.
func (r *Registry) GetOrCreate(raw string) (*Room, error) {
	code, err := r.Normalize(raw)
	if err != nil {
		return nil, err
	}

	sh := r.shard(code)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if room, ok := sh.rooms[code]; ok {
		return room, nil
	}
	room := newRoom(code, r)
	sh.rooms[code] = room
	r.stats.roomsCreated.Add(1)
	r.log.Debug().Str("room", code).Msg("room created")
	return room, nil
}

// Join attaches sink to the room for code, creating the room if needed.
// A join that lands on a room being destroyed retries on a fresh one.
func (r *Registry) Join(raw string, sink Sink) (*Session, error) {
	for {
		room, err := r.GetOrCreate(raw)
		if err != nil {
			return nil, err
		}
		sess, err := room.Join(sink)
		if errors.Is(err, errRoomClosed) {
			continue
		}
		return sess, err
	}
}

// Lookup returns the live room for code without creating it.
func (r *Registry) Lookup(raw string) (*Room, bool) {
	code, err := r.Normalize(raw)
	if err != nil {
		return nil, false
	}
	sh := r.shard(code)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	room, ok := sh.rooms[code]
	return room, ok
}

// RemoveIfEmpty unregisters room if it is still the registered instance for
// its code and still has no sessions. It reports whether the room was removed.
func (r *Registry) RemoveIfEmpty(room *Room) bool {
	sh := r.shard(room.code)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if sh.rooms[room.code] != room {
		return false
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if len(room.sessions) != 0 {
		return false
	}
	room.closed = true
	delete(sh.rooms, room.code)
	r.stats.roomsDestroyed.Add(1)
	r.log.Debug().Str("room", room.code).Dur("lifetime", time.Since(room.createdAt)).Msg("room destroyed")
	return true
}

// Len returns the number of live rooms.
func (r *Registry) Len() int {
	n := 0
	for _, sh := range r.shards {
		sh.mu.Lock()
		n += len(sh.rooms)
		sh.mu.Unlock()
	}
	return n
}

// Stats returns the registry counters.
func (r *Registry) Stats() StatsSnapshot {
	return r.stats.Snapshot()
}

func (r *Registry) evicted(code string, sink Sink) {
	r.stats.evictions.Add(1)
	r.log.Warn().Str("room", code).Str("participant", sink.ParticipantID()).Msg("participant dropped for backpressure")
	if r.onEvict != nil {
		r.onEvict(code, sink)
	}
}
