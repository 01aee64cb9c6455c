package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/codechat/internal/proto"
	"github.com/vovakirdan/codechat/internal/utils"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

type options struct {
	addr    string
	room    string
	newRoom bool
	user    string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "codechat",
		Short:        "Terminal client for codechat rooms",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			room, err := resolveRoom(opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts.addr, room, opts.user, os.Stdin, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.addr, "addr", "ws://localhost:8080/ws", "WebSocket address")
	flags.StringVar(&opts.room, "room", "", "room code to join")
	flags.BoolVar(&opts.newRoom, "new", false, "generate a fresh room code and join it")
	flags.StringVar(&opts.user, "user", "", "participant ID to announce (server assigns one if empty)")
	cmd.MarkFlagsMutuallyExclusive("room", "new")
	cmd.MarkFlagsOneRequired("room", "new")

	return cmd
}

func resolveRoom(opts options) (string, error) {
	if opts.newRoom {
		return utils.NewRoomCode(), nil
	}
	room := strings.ToUpper(strings.TrimSpace(opts.room))
	if room == "" {
		return "", errors.New("room code is empty")
	}
	return room, nil
}

func run(ctx context.Context, addr, room, user string, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if user != "" {
		if err := send(ctx, conn, proto.InboundTypeHello, proto.HelloData{User: user, Protocol: proto.ProtocolVersion}); err != nil {
			return err
		}
	}
	if err := send(ctx, conn, proto.InboundTypeJoin, proto.JoinData{Room: room}); err != nil {
		return err
	}

	fmt.Fprintf(out, "Connected to %s, room code %s\n", addr, room)
	fmt.Fprintln(out, "Share the code to invite others. Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn, out)
	}()

	writeLoop(ctx, conn, room, in, out)
	return nil
}

func send(ctx context.Context, conn *websocket.Conn, typ string, data any) error {
	in, err := proto.NewInbound(typ, data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, conn, in); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn, out io.Writer) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				fmt.Fprintln(out, "connection closed by server")
				return
			case websocket.StatusPolicyViolation:
				fmt.Fprintln(out, "disconnected: client too slow")
				return
			}
			fmt.Fprintf(out, "read error: %v\n", err)
			return
		}
		if line := render(outbound); line != "" {
			fmt.Fprintln(out, line)
		}
	}
}

// render turns one outbound envelope into a line for the terminal.
func render(outbound proto.Outbound) string {
	if outbound.Type == proto.OutboundTypeError {
		if outbound.Error == nil {
			return "error"
		}
		return fmt.Sprintf("error %s: %s", outbound.Error.Code, outbound.Error.Msg)
	}

	switch outbound.Event {
	case proto.EventWelcome:
		var evt proto.EventWelcomeData
		if err := outbound.Decode(&evt); err != nil {
			return "bad welcome: " + err.Error()
		}
		return "you are " + evt.User
	case proto.EventPresenceState:
		var evt proto.EventPresenceStateData
		if err := outbound.Decode(&evt); err != nil {
			return "bad presence: " + err.Error()
		}
		return fmt.Sprintf("[room %s] %d online: %s", evt.Room, len(evt.Members), strings.Join(evt.Members, ", "))
	case proto.EventMessage:
		var evt proto.EventMessageData
		if err := outbound.Decode(&evt); err != nil {
			return "bad message: " + err.Error()
		}
		ts := time.UnixMilli(evt.TS).Format("15:04:05")
		return fmt.Sprintf("%s %s: %s", ts, evt.User, evt.Text)
	case proto.EventUserJoined:
		var evt proto.EventUserJoinedData
		if err := outbound.Decode(&evt); err != nil {
			return "bad user_joined: " + err.Error()
		}
		return fmt.Sprintf("[room %s] %s joined", evt.Room, evt.User)
	case proto.EventUserLeft:
		var evt proto.EventUserLeftData
		if err := outbound.Decode(&evt); err != nil {
			return "bad user_left: " + err.Error()
		}
		return fmt.Sprintf("[room %s] %s left (%s)", evt.Room, evt.User, evt.Reason)
	default:
		return fmt.Sprintf("event=%s data=%s", outbound.Event, string(outbound.Data))
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, room string, in io.Reader, out io.Writer) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if err := send(ctx, conn, proto.InboundTypeMsg, proto.MsgData{Room: room, Text: text}); err != nil {
				fmt.Fprintf(out, "send error: %v\n", err)
				return
			}
		}
	}
}
