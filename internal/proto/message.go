package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeHello = "hello"
	InboundTypeJoin  = "join"
	InboundTypeLeave = "leave"
	InboundTypeMsg   = "msg"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventWelcome       = "welcome"
	EventPresenceState = "presence_state"
	EventUserJoined    = "user_joined"
	EventUserLeft      = "user_left"
	EventMessage       = "message"

	ErrCodeUnsupportedVersion = "unsupported_version"
	ErrCodeRateLimited        = "rate_limited"
)

// NewInbound builds an envelope around data.
func NewInbound(typ string, data any) (Inbound, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Inbound{}, err
	}
	return Inbound{Type: typ, Data: raw}, nil
}

// HelloData is sent by the client to introduce itself.
type HelloData struct {
	User     string `json:"user,omitempty"`
	Protocol int    `json:"protocol,omitempty"`
}

// JoinData requests to join or leave a specific room.
type JoinData struct {
	Room string `json:"room"`
}

// MsgData is a chat message from the client. ClientID is optional and comes
// back on the echo so the client can recognize its own message.
type MsgData struct {
	Room     string `json:"room"`
	Text     string `json:"text"`
	ClientID string `json:"client_id,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *Error          `json:"error,omitempty"`
}

// NewEvent builds an event envelope around data.
func NewEvent(event string, data any) (Outbound, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Outbound{}, err
	}
	return Outbound{Type: OutboundTypeEvent, Event: event, Data: raw}, nil
}

// NewError builds an error envelope.
func NewError(code, msg string) Outbound {
	return Outbound{Type: OutboundTypeError, Error: &Error{Code: code, Msg: msg}}
}

// Decode unmarshals the event payload into v.
func (o Outbound) Decode(v any) error {
	return json.Unmarshal(o.Data, v)
}

// EventWelcomeData tells the client which participant ID it holds.
type EventWelcomeData struct {
	User     string `json:"user"`
	Protocol int    `json:"protocol"`
}

// EventPresenceStateData lists everyone attached to a room.
type EventPresenceStateData struct {
	Room    string   `json:"room"`
	Members []string `json:"members"`
}

// EventMessageData is a chat message fanned out to a room.
type EventMessageData struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id,omitempty"`
	Room     string `json:"room"`
	User     string `json:"user"`
	Text     string `json:"text"`
	TS       int64  `json:"ts"`
}

// EventUserJoinedData notifies that a user joined a room.
type EventUserJoinedData struct {
	Room string `json:"room"`
	User string `json:"user"`
	TS   int64  `json:"ts"`
}

// EventUserLeftData notifies that a user left a room.
type EventUserLeftData struct {
	Room   string `json:"room"`
	User   string `json:"user"`
	Reason string `json:"reason,omitempty"`
	TS     int64  `json:"ts"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
