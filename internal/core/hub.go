package core

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options tunes the hub and its registry.
type Options struct {
	RegistryShards int
	MaxCodeLength  int
	MaxTextLength  int
}

// Hub is the boundary between transports and rooms. It keeps a directory of
// which room each participant is attached to, so a participant can sit in at
// most one room and competing leave signals resolve to a single leave.
type Hub struct {
	registry      *Registry
	attached      sync.Map // participant ID -> *attachment
	maxTextLength int
	log           *zerolog.Logger
}

type attachment struct {
	code string
	sink Sink
}

// RoomInfo is a read-only view of a live room.
type RoomInfo struct {
	Code      string
	Members   []string
	CreatedAt time.Time
}

// NewHub creates a hub with an empty registry.
func NewHub(opts Options, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	h := &Hub{
		registry:      NewRegistry(opts.RegistryShards, opts.MaxCodeLength, logger),
		maxTextLength: opts.MaxTextLength,
		log:           logger,
	}
	h.registry.onEvict = h.forget
	return h
}

// Registry exposes the underlying room registry.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Join attaches sink to the room for code. A participant already attached
// anywhere gets ErrAlreadyAttached and nothing changes.
func (h *Hub) Join(code string, sink Sink) (*Session, error) {
	code, err := h.registry.Normalize(code)
	if err != nil {
		return nil, err
	}
	pid := sink.ParticipantID()
	if pid == "" {
		return nil, coreError(ErrCodeBadRequest, ErrBadRequest, "participant id is required")
	}

	att := &attachment{code: code, sink: sink}
	if prev, loaded := h.attached.LoadOrStore(pid, att); loaded {
		return nil, coreError(ErrCodeAlreadyAttached, ErrAlreadyAttached,
			"participant %s already attached to room %s", pid, prev.(*attachment).code)
	}

	sess, err := h.registry.Join(code, sink)
	if err != nil {
		h.attached.CompareAndDelete(pid, att)
		return nil, err
	}
	// Run may have drained the directory while the room was being joined.
	if v, ok := h.attached.Load(pid); !ok || v != att {
		if room, ok := h.registry.Lookup(code); ok {
			room.detach(sess, LeaveReasonDisconnected)
		}
		return nil, coreError(ErrCodeNotAttached, ErrNotAttached,
			"participant %s was detached while joining room %s", pid, code)
	}
	h.log.Debug().Str("room", code).Str("participant", pid).Msg("participant joined")
	return sess, nil
}

// Leave detaches the participant from the room for code. Leaving a room the
// participant is not attached to is a no-op.
func (h *Hub) Leave(code, participantID string, reason LeaveReason) error {
	code, err := h.registry.Normalize(code)
	if err != nil {
		return err
	}
	v, ok := h.attached.Load(participantID)
	if !ok {
		return nil
	}
	att := v.(*attachment)
	if att.code != code {
		return nil
	}
	h.release(participantID, att, reason)
	return nil
}

// Release leaves whatever room sink is attached to. Unlike Disconnect it does
// nothing when the participant ID is held by a different sink.
func (h *Hub) Release(sink Sink, reason LeaveReason) {
	pid := sink.ParticipantID()
	v, ok := h.attached.Load(pid)
	if !ok {
		return
	}
	if att := v.(*attachment); att.sink == sink {
		h.release(pid, att, reason)
	}
}

// Holds reports whether sink is the one attached under its participant ID.
func (h *Hub) Holds(sink Sink) bool {
	v, ok := h.attached.Load(sink.ParticipantID())
	return ok && v.(*attachment).sink == sink
}

// release removes att from the directory and the room. Only the caller that
// wins the compare-and-delete performs the leave.
func (h *Hub) release(participantID string, att *attachment, reason LeaveReason) {
	if !h.attached.CompareAndDelete(participantID, att) {
		return
	}
	if room, ok := h.registry.Lookup(att.code); ok {
		room.Leave(participantID, reason)
	}
	h.log.Debug().Str("room", att.code).Str("participant", participantID).Str("reason", string(reason)).Msg("participant left")
}

// Disconnect leaves whatever room the participant is attached to.
func (h *Hub) Disconnect(participantID string, reason LeaveReason) {
	code, ok := h.AttachedRoom(participantID)
	if !ok {
		return
	}
	_ = h.Leave(code, participantID, reason)
}

// AttachedRoom returns the room code the participant is attached to.
func (h *Hub) AttachedRoom(participantID string) (string, bool) {
	v, ok := h.attached.Load(participantID)
	if !ok {
		return "", false
	}
	return v.(*attachment).code, true
}

// Send broadcasts text from the participant to the room for code. clientID is
// optional and travels with the message untouched.
func (h *Hub) Send(code, participantID, clientID, text string) (Message, error) {
	code, err := h.registry.Normalize(code)
	if err != nil {
		return Message{}, err
	}
	if err := validateText(text, h.maxTextLength); err != nil {
		return Message{}, err
	}
	if err := validateClientID(clientID); err != nil {
		return Message{}, err
	}
	room, ok := h.registry.Lookup(code)
	if !ok {
		return Message{}, coreError(ErrCodeNotAttached, ErrNotAttached,
			"participant %s is not attached to room %s", participantID, code)
	}
	return room.Broadcast(Message{ClientID: clientID, Sender: participantID, Text: text})
}

// Lookup describes the live room for code.
func (h *Hub) Lookup(code string) (RoomInfo, bool) {
	room, ok := h.registry.Lookup(code)
	if !ok {
		return RoomInfo{}, false
	}
	return RoomInfo{Code: room.Code(), Members: room.Members(), CreatedAt: room.CreatedAt()}, true
}

// Stats returns the current counters.
func (h *Hub) Stats() StatsSnapshot {
	return h.registry.Stats()
}

// Run blocks until ctx is done, then detaches and drops every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	dropped := 0
	h.attached.Range(func(key, value any) bool {
		att := value.(*attachment)
		h.release(key.(string), att, LeaveReasonDisconnected)
		att.sink.Drop(LeaveReasonDisconnected)
		dropped++
		return true
	})
	h.log.Info().Int("clients", dropped).Msg("hub stopped")
}

// forget clears the directory entry of a sink the room already evicted.
func (h *Hub) forget(code string, sink Sink) {
	pid := sink.ParticipantID()
	v, ok := h.attached.Load(pid)
	if !ok {
		return
	}
	att := v.(*attachment)
	if att.code == code && att.sink == sink {
		h.attached.CompareAndDelete(pid, att)
	}
}
