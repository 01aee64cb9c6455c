package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/codechat/internal/config"
	"github.com/vovakirdan/codechat/internal/core"
	"github.com/vovakirdan/codechat/internal/proto"
	"github.com/vovakirdan/codechat/internal/utils"
)

const (
	writeTimeout = 10 * time.Second
	pingTimeout  = 10 * time.Second
)

// WSHandler upgrades HTTP connections and bridges them to the hub.
type WSHandler struct {
	hub *core.Hub
	cfg *config.Config
	log *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, cfg: cfg, log: logger}
}

// droppedError ends a connection whose client the hub dropped.
type droppedError struct {
	reason core.LeaveReason
}

func (e *droppedError) Error() string {
	return "client dropped: " + string(e.reason)
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")
	conn.SetReadLimit(h.cfg.MaxMessageBytes)

	client := core.NewClient(utils.NewParticipantID(), h.cfg.QueueSize)
	defer h.hub.Release(client, core.LeaveReasonDisconnected)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := h.write(ctx, conn, h.welcome(client)); err != nil {
		h.log.Warn().Err(err).Msg("send welcome")
		return
	}
	h.log.Debug().Str("participant", client.ParticipantID()).Str("remote", r.RemoteAddr).Msg("ws connected")

	limiter := newRateLimiter(h.cfg.MessagesPerMinute, time.Minute)

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, limiter)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	status, reason := h.closeStatus(client, err)
	conn.Close(status, reason)
	cancel()
	<-errCh

	h.log.Debug().Str("participant", client.ParticipantID()).Int("status", int(status)).Msg("ws disconnected")
}

func (h *WSHandler) closeStatus(client *core.Client, err error) (websocket.StatusCode, string) {
	var dropped *droppedError
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
		return websocket.StatusNormalClosure, "closing"
	case errors.As(err, &dropped):
		if dropped.reason == core.LeaveReasonBackpressure {
			return websocket.StatusPolicyViolation, "too slow"
		}
		return websocket.StatusGoingAway, "server shutting down"
	}

	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
		return websocket.StatusNormalClosure, "closing"
	}
	if status == -1 {
		status = websocket.StatusInternalError
	}
	h.log.Warn().Err(err).Str("participant", client.ParticipantID()).Msg("ws connection closed with error")
	return status, "closing"
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, limiter *rateLimiter) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		out, err := h.dispatch(client, inbound, limiter)
		if err != nil {
			h.log.Warn().Err(err).Str("participant", client.ParticipantID()).Msg("malformed inbound")
			return err
		}
		if out == nil {
			continue
		}
		if err := h.write(ctx, conn, *out); err != nil {
			return err
		}
	}
}

// dispatch applies one inbound envelope. It returns a reply for the client,
// or an error when the envelope cannot be decoded and the connection must end.
func (h *WSHandler) dispatch(client *core.Client, inbound proto.Inbound, limiter *rateLimiter) (*proto.Outbound, error) {
	reply := func(out proto.Outbound) (*proto.Outbound, error) { return &out, nil }
	fail := func(err error) (*proto.Outbound, error) { return reply(outboundFromError(err)) }

	switch inbound.Type {
	case proto.InboundTypeHello:
		var hello proto.HelloData
		if err := decodeData(inbound.Data, &hello); err != nil {
			return nil, err
		}
		if hello.Protocol != 0 && hello.Protocol != proto.ProtocolVersion {
			return reply(proto.NewError(proto.ErrCodeUnsupportedVersion,
				fmt.Sprintf("protocol %d is not supported, use %d", hello.Protocol, proto.ProtocolVersion)))
		}
		if hello.User != "" && hello.User != client.ParticipantID() {
			if h.hub.Holds(client) {
				code, _ := h.hub.AttachedRoom(client.ParticipantID())
				return reply(proto.NewError(core.ErrCodeAlreadyAttached,
					"cannot change identity while attached to room "+code))
			}
			if _, taken := h.hub.AttachedRoom(hello.User); taken {
				return reply(proto.NewError(core.ErrCodeAlreadyAttached,
					"participant "+hello.User+" is already attached"))
			}
			if err := core.ValidateParticipantID(hello.User); err != nil {
				return fail(err)
			}
			client.Rename(hello.User)
		}
		return reply(h.welcome(client))

	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := decodeData(inbound.Data, &join); err != nil {
			return nil, err
		}
		if _, err := h.hub.Join(join.Room, client); err != nil {
			return fail(err)
		}
		return nil, nil

	case proto.InboundTypeLeave:
		var leave proto.JoinData
		if err := decodeData(inbound.Data, &leave); err != nil {
			return nil, err
		}
		if _, err := core.NormalizeCode(leave.Room, h.cfg.MaxCodeLength); err != nil {
			return fail(err)
		}
		if !h.hub.Holds(client) {
			return nil, nil
		}
		if err := h.hub.Leave(leave.Room, client.ParticipantID(), core.LeaveReasonLeft); err != nil {
			return fail(err)
		}
		return nil, nil

	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := decodeData(inbound.Data, &msg); err != nil {
			return nil, err
		}
		if !limiter.allow() {
			return reply(proto.NewError(proto.ErrCodeRateLimited, "too many messages, slow down"))
		}
		if !h.hub.Holds(client) {
			return reply(proto.NewError(core.ErrCodeNotAttached, "join a room before sending"))
		}
		if _, err := h.hub.Send(msg.Room, client.ParticipantID(), msg.ClientID, msg.Text); err != nil {
			return fail(err)
		}
		return nil, nil

	default:
		return reply(proto.NewError(core.ErrCodeBadRequest, "unknown message type "+inbound.Type))
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	var ping <-chan time.Time
	if h.cfg.PingInterval > 0 {
		ticker := time.NewTicker(h.cfg.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case event := <-client.Events:
			out, err := outboundFromEvent(event)
			if err != nil {
				h.log.Error().Err(err).Msg("map event")
				continue
			}
			if err := h.write(ctx, conn, out); err != nil {
				return err
			}
		case <-client.Dropped():
			return &droppedError{reason: client.DropReason()}
		case <-ping:
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) write(ctx context.Context, conn *websocket.Conn, out proto.Outbound) error {
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(wctx, conn, out)
}

func (h *WSHandler) welcome(client *core.Client) proto.Outbound {
	out, _ := proto.NewEvent(proto.EventWelcome, proto.EventWelcomeData{
		User:     client.ParticipantID(),
		Protocol: proto.ProtocolVersion,
	})
	return out
}

// decodeData leaves v zeroed when the envelope carries no data.
func decodeData(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
