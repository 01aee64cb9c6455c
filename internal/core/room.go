package core

import (
	"sync"
	"time"

	"github.com/vovakirdan/codechat/internal/utils"
)

// Room is the logical channel for one room code. All membership changes and
// broadcasts on a room are serialized by its mutex; events are handed to the
// sinks while the lock is held, so every member observes the same order.
type Room struct {
	code      string
	createdAt time.Time
	registry  *Registry

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func newRoom(code string, registry *Registry) *Room {
	return &Room{
		code:      code,
		createdAt: time.Now(),
		registry:  registry,
		sessions:  make(map[string]*Session),
	}
}

// Code returns the normalized room code.
func (r *Room) Code() string { return r.code }

// CreatedAt returns when the room was created.
func (r *Room) CreatedAt() time.Time { return r.createdAt }

// Members returns the sorted participant IDs attached right now.
func (r *Room) Members() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot(r.sessions)
}

// Len returns the number of attached sessions.
func (r *Room) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Join attaches sink to the room. The new participant receives a presence
// snapshot followed by the join notification every member receives.
func (r *Room) Join(sink Sink) (*Session, error) {
	pid := sink.ParticipantID()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, errRoomClosed
	}
	if _, exists := r.sessions[pid]; exists {
		r.mu.Unlock()
		return nil, coreError(ErrCodeAlreadyAttached, ErrAlreadyAttached,
			"participant %s already attached to room %s", pid, r.code)
	}

	now := time.Now()
	before := Snapshot(r.sessions)
	sess := newSession(sink, r.code, now)
	r.sessions[pid] = sess
	after := Snapshot(r.sessions)

	var overflow []*Session
	if !sink.Deliver(&Event{Kind: EventPresenceSnapshot, Room: r.code, Members: after, At: now}) {
		overflow = append(overflow, sess)
	}
	overflow = r.publishLocked(Diff(before, after, r.code, now), overflow)
	r.mu.Unlock()

	r.registry.stats.joins.Add(1)
	r.registry.stats.sessions.Add(1)
	r.evict(overflow)
	return sess, nil
}

// Leave detaches the participant if present and reports whether it was.
// Leaving twice is a no-op the second time.
func (r *Room) Leave(participantID string, reason LeaveReason) bool {
	r.mu.Lock()
	left, overflow, empty := r.leaveLocked(participantID, reason)
	r.mu.Unlock()

	r.evict(overflow)
	if empty {
		r.registry.RemoveIfEmpty(r)
	}
	return left
}

// detach leaves sess only if it is still the participant's session here.
func (r *Room) detach(sess *Session, reason LeaveReason) bool {
	r.mu.Lock()
	if r.sessions[sess.ParticipantID] != sess {
		r.mu.Unlock()
		return false
	}
	left, overflow, empty := r.leaveLocked(sess.ParticipantID, reason)
	r.mu.Unlock()

	r.evict(overflow)
	if empty {
		r.registry.RemoveIfEmpty(r)
	}
	return left
}

// Broadcast accepts msg from an attached sender and delivers it to every
// attached session, the sender included.
func (r *Room) Broadcast(msg Message) (Message, error) {
	r.mu.Lock()
	if _, ok := r.sessions[msg.Sender]; !ok {
		r.mu.Unlock()
		return Message{}, coreError(ErrCodeNotAttached, ErrNotAttached,
			"participant %s is not attached to room %s", msg.Sender, r.code)
	}

	now := time.Now()
	msg.Room = r.code
	msg.CreatedAt = now
	msg.ID = utils.NewMessageID(now)
	overflow := r.fanoutLocked(&Event{Kind: EventMessage, Room: r.code, User: msg.Sender, Message: msg, At: now}, nil)
	r.mu.Unlock()

	r.registry.stats.messages.Add(1)
	r.evict(overflow)
	return msg, nil
}

func (r *Room) leaveLocked(participantID string, reason LeaveReason) (bool, []*Session, bool) {
	if _, ok := r.sessions[participantID]; !ok {
		return false, nil, false
	}

	now := time.Now()
	before := Snapshot(r.sessions)
	delete(r.sessions, participantID)
	after := Snapshot(r.sessions)

	events := Diff(before, after, r.code, now)
	for i := range events {
		if events[i].Kind == EventPresenceLeave {
			events[i].Reason = reason
		}
	}
	overflow := r.publishLocked(events, nil)

	r.registry.stats.leaves.Add(1)
	r.registry.stats.sessions.Add(-1)
	return true, overflow, len(r.sessions) == 0
}

func (r *Room) publishLocked(events []PresenceEvent, overflow []*Session) []*Session {
	for _, pe := range events {
		overflow = r.fanoutLocked(pe.Event(), overflow)
		r.registry.stats.presence.Add(1)
	}
	return overflow
}

func (r *Room) fanoutLocked(ev *Event, overflow []*Session) []*Session {
	for _, sess := range r.sessions {
		if !sess.sink.Deliver(ev) {
			overflow = append(overflow, sess)
		}
	}
	return overflow
}

// evict force-leaves sessions whose queue overflowed. Evicting one session
// emits presence events that may overflow further sessions; those are
// processed in the same loop.
func (r *Room) evict(queue []*Session) {
	for len(queue) > 0 {
		sess := queue[0]
		queue = queue[1:]

		r.mu.Lock()
		if r.sessions[sess.ParticipantID] != sess {
			r.mu.Unlock()
			continue
		}
		_, overflow, empty := r.leaveLocked(sess.ParticipantID, LeaveReasonBackpressure)
		r.mu.Unlock()

		sess.sink.Drop(LeaveReasonBackpressure)
		r.registry.evicted(r.code, sess.sink)
		queue = append(queue, overflow...)
		if empty {
			r.registry.RemoveIfEmpty(r)
		}
	}
}
