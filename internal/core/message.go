package core

import "time"

// Message is a chat message accepted by a room. It is never stored.
// ID is assigned by the room; ClientID is whatever the sender attached.
type Message struct {
	ID        string
	ClientID  string
	Room      string
	Sender    string
	Text      string
	CreatedAt time.Time
}
