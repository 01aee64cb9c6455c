package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/codechat/internal/config"
	"github.com/vovakirdan/codechat/internal/core"
	"github.com/vovakirdan/codechat/internal/proto"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.GinMode = "test"
	cfg.PingInterval = 0
	return cfg
}

func startTestServer(t *testing.T, cfg config.Config) (*httptest.Server, *core.Hub) {
	t.Helper()

	disabledLogger := zerolog.Nop()
	hub := core.NewHub(core.Options{
		RegistryShards: cfg.RegistryShards,
		MaxCodeLength:  cfg.MaxCodeLength,
		MaxTextLength:  cfg.MaxTextLength,
	}, &disabledLogger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	server := NewServer(hub, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, hub
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.CloseNow() })

	welcome := expectEvent(t, ctx, conn, proto.EventWelcome)
	var data proto.EventWelcomeData
	if err := welcome.Decode(&data); err != nil || !strings.HasPrefix(data.User, "user-") {
		t.Fatalf("unexpected welcome: %+v (%v)", data, err)
	}
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		t.Fatalf("send %s: %v", typ, err)
	}
}

// hello announces user and waits for the welcome that confirms it.
func hello(t *testing.T, ctx context.Context, conn *websocket.Conn, user string) {
	t.Helper()

	send(t, ctx, conn, proto.InboundTypeHello, proto.HelloData{User: user, Protocol: proto.ProtocolVersion})
	out := expectEvent(t, ctx, conn, proto.EventWelcome)
	var data proto.EventWelcomeData
	if err := out.Decode(&data); err != nil || data.User != user {
		t.Fatalf("unexpected welcome: %+v (%v)", data, err)
	}
}

func readOutbound(t *testing.T, ctx context.Context, conn *websocket.Conn) proto.Outbound {
	t.Helper()

	rctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var out proto.Outbound
	if err := wsjson.Read(rctx, conn, &out); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	return out
}

// expectEvent reads until an event of the given kind arrives. An error
// envelope fails the test.
func expectEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) proto.Outbound {
	t.Helper()

	for {
		out := readOutbound(t, ctx, conn)
		if out.Type == proto.OutboundTypeError {
			t.Fatalf("expected event %s, got error %+v", event, out.Error)
		}
		if out.Event == event {
			return out
		}
	}
}

func expectError(t *testing.T, ctx context.Context, conn *websocket.Conn, code string) {
	t.Helper()

	for {
		out := readOutbound(t, ctx, conn)
		if out.Type != proto.OutboundTypeError {
			continue
		}
		if out.Error == nil || out.Error.Code != code {
			t.Fatalf("expected error %s, got %+v", code, out.Error)
		}
		return
	}
}
