package http

import (
	"fmt"

	"github.com/vovakirdan/codechat/internal/core"
	"github.com/vovakirdan/codechat/internal/proto"
)

func outboundFromEvent(event *core.Event) (proto.Outbound, error) {
	switch event.Kind {
	case core.EventMessage:
		return proto.NewEvent(proto.EventMessage, proto.EventMessageData{
			ID:       event.Message.ID,
			ClientID: event.Message.ClientID,
			Room:     event.Message.Room,
			User:     event.Message.Sender,
			Text:     event.Message.Text,
			TS:       event.Message.CreatedAt.UnixMilli(),
		})
	case core.EventPresenceSnapshot:
		members := event.Members
		if members == nil {
			members = []string{}
		}
		return proto.NewEvent(proto.EventPresenceState, proto.EventPresenceStateData{
			Room:    event.Room,
			Members: members,
		})
	case core.EventPresenceJoin:
		return proto.NewEvent(proto.EventUserJoined, proto.EventUserJoinedData{
			Room: event.Room,
			User: event.User,
			TS:   event.At.UnixMilli(),
		})
	case core.EventPresenceLeave:
		return proto.NewEvent(proto.EventUserLeft, proto.EventUserLeftData{
			Room:   event.Room,
			User:   event.User,
			Reason: string(event.Reason),
			TS:     event.At.UnixMilli(),
		})
	default:
		return proto.Outbound{}, fmt.Errorf("unknown event kind %v", event.Kind)
	}
}

func outboundFromError(err error) proto.Outbound {
	return proto.NewError(core.CodeOf(err), err.Error())
}
