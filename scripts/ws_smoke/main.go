package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/codechat/internal/proto"
	"github.com/vovakirdan/codechat/internal/utils"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

// run joins a room with two connections and checks that both see the
// same message and that the sender's departure reaches the other one.
func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	room := flag.String("room", "", "room code (random if empty)")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	if *room == "" {
		*room = utils.NewRoomCode()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sender, err := connect(ctx, *addr, "smoke-sender", *room)
	if err != nil {
		return err
	}
	defer sender.Close(websocket.StatusNormalClosure, "bye")

	receiver, err := connect(ctx, *addr, "smoke-receiver", *room)
	if err != nil {
		return err
	}
	defer receiver.Close(websocket.StatusNormalClosure, "bye")

	if _, err := waitFor(ctx, sender, proto.EventUserJoined, "smoke-receiver"); err != nil {
		return err
	}

	msg, err := proto.NewInbound(proto.InboundTypeMsg, proto.MsgData{Room: *room, Text: *text, ClientID: "smoke-1"})
	if err != nil {
		return fmt.Errorf("marshal msg: %w", err)
	}
	if err := wsjson.Write(ctx, sender, msg); err != nil {
		return fmt.Errorf("send msg: %w", err)
	}

	for name, conn := range map[string]*websocket.Conn{"sender": sender, "receiver": receiver} {
		out, err := waitFor(ctx, conn, proto.EventMessage, "smoke-sender")
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		var evt proto.EventMessageData
		if err := out.Decode(&evt); err != nil {
			return fmt.Errorf("%s: decode message: %w", name, err)
		}
		if evt.ClientID != "smoke-1" || evt.ID == "" || evt.Text != *text {
			return fmt.Errorf("%s: unexpected message %+v", name, evt)
		}
		fmt.Printf("%s got message id=%s room=%s ts=%d\n", name, evt.ID, evt.Room, evt.TS)
	}

	_ = sender.Close(websocket.StatusNormalClosure, "done")
	if _, err := waitFor(ctx, receiver, proto.EventUserLeft, "smoke-sender"); err != nil {
		return err
	}
	fmt.Printf("smoke test passed in room %s\n", *room)
	return nil
}

func connect(ctx context.Context, addr, user, room string) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	for _, step := range []struct {
		typ  string
		data any
	}{
		{proto.InboundTypeHello, proto.HelloData{User: user, Protocol: proto.ProtocolVersion}},
		{proto.InboundTypeJoin, proto.JoinData{Room: room}},
	} {
		in, err := proto.NewInbound(step.typ, step.data)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", step.typ, err)
		}
		if err := wsjson.Write(ctx, conn, in); err != nil {
			return nil, fmt.Errorf("send %s: %w", step.typ, err)
		}
	}
	return conn, nil
}

// waitFor reads until an event of the given kind about user arrives.
func waitFor(ctx context.Context, conn *websocket.Conn, event, user string) (proto.Outbound, error) {
	for {
		var out proto.Outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			return out, fmt.Errorf("read: %w", err)
		}
		if out.Type == proto.OutboundTypeError && out.Error != nil {
			return out, errors.New(out.Error.Code + ": " + out.Error.Msg)
		}
		if out.Event != event {
			continue
		}
		var who struct {
			User string `json:"user"`
		}
		if err := out.Decode(&who); err == nil && who.User == user {
			return out, nil
		}
	}
}
