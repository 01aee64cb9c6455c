package core

import "sync"

// Sink is the outbound notification path of one participant.
// Deliver must never block: a false return means the event could not be
// queued and the room drops the participant.
type Sink interface {
	ParticipantID() string
	Deliver(ev *Event) bool
	Drop(reason LeaveReason)
}

// Client is a chat participant as seen by the core layer. Events is a bounded
// queue drained by exactly one transport writer.
type Client struct {
	Events chan *Event

	mu      sync.RWMutex
	id      string
	once    sync.Once
	dropped chan struct{}
	reason  LeaveReason
}

// NewClient constructs a client with an outbound queue of queueSize events.
func NewClient(id string, queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Client{
		Events:  make(chan *Event, queueSize),
		id:      id,
		dropped: make(chan struct{}),
	}
}

// ParticipantID returns the identifier the client is attached under.
func (c *Client) ParticipantID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// Rename changes the participant identifier. Callers must only rename a
// client that is not attached to any room.
func (c *Client) Rename(id string) {
	c.mu.Lock()
	c.id = id
	c.mu.Unlock()
}

// Deliver queues ev without blocking.
func (c *Client) Deliver(ev *Event) bool {
	select {
	case <-c.dropped:
		return false
	default:
	}
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}

// Drop marks the client as dropped. Only the first reason is kept.
func (c *Client) Drop(reason LeaveReason) {
	c.once.Do(func() {
		c.reason = reason
		close(c.dropped)
	})
}

// Dropped is closed once the client has been dropped.
func (c *Client) Dropped() <-chan struct{} {
	return c.dropped
}

// DropReason is valid after Dropped is closed.
func (c *Client) DropReason() LeaveReason {
	select {
	case <-c.dropped:
		return c.reason
	default:
		return ""
	}
}
