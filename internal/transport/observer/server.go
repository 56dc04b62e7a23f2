package observer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"colonysim.ai/internal/observerproto"
	"colonysim.ai/internal/protocol"
	"colonysim.ai/internal/sim/world"
)

type Options struct {
	// MaxSessions caps concurrent websocket sessions; <= 0 means unlimited.
	MaxSessions int
	// AllowRemote accepts non-loopback clients.
	AllowRemote bool
	// ReadOnly rejects CMD messages.
	ReadOnly bool
	// Per-session command budget in world ticks; 0 disables.
	CmdWindowTicks int
	CmdMax         int
}

type Server struct {
	world *world.World
	log   *log.Logger
	opts  Options

	upgrader websocket.Upgrader
	active   atomic.Int64
}

func NewServer(w *world.World, logger *log.Logger, opts Options) *Server {
	return &Server{
		world: w,
		log:   logger,
		opts:  opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Sessions() int { return int(s.active.Load()) }

func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !s.allowed(r) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(s.world.Bootstrap())
	}
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !s.allowed(r) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if n := s.active.Add(1); s.opts.MaxSessions > 0 && n > int64(s.opts.MaxSessions) {
			s.active.Add(-1)
			closeWith(conn, websocket.CloseTryAgainLater, "too many sessions")
			return
		}
		defer s.active.Add(-1)

		// Handshake: must send SUBSCRIBE first.
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		sub, ok := decodeSubscribe(msg)
		if !ok {
			closeWith(conn, websocket.ClosePolicyViolation, "expected SUBSCRIBE")
			return
		}

		sid := "O-" + uuid.NewString()
		out := make(chan []byte, 16)
		replies := make(chan []byte, 16)

		select {
		case s.world.ObserverJoin() <- world.ObserverJoinRequest{
			SessionID:    sid,
			Out:          out,
			EveryTicks:   sub.EveryTicks,
			IncludeGrid:  sub.IncludeGrid,
			GridEncoding: sub.GridEncoding,
		}:
		default:
			closeWith(conn, websocket.CloseTryAgainLater, "server busy")
			return
		}
		defer func() {
			select {
			case s.world.ObserverLeave() <- sid:
			default:
				// World loop is stopping; nothing else to do.
			}
		}()
		s.logf("observer %s joined from %s", sid, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		limiter := &cmdWindow{
			window: uint64(max(s.opts.CmdWindowTicks, 0)),
			max:    s.opts.CmdMax,
			start:  s.world.CurrentTick(),
		}

		writeErr := make(chan error, 1)
		go func() {
			err := writeLoop(ctx, conn, out, replies)
			if ctx.Err() == nil {
				// Session ended from the world side; unblock the reader.
				_ = conn.Close()
			}
			writeErr <- err
		}()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				s.reply(ctx, replies, protocol.NewError(protocol.ErrProtoBadRequest, "malformed json"))
				continue
			}
			switch base.Type {
			case observerproto.TypeSubscribe:
				sub, ok := decodeSubscribe(msg)
				if !ok {
					continue
				}
				select {
				case s.world.ObserverSubscribe() <- world.ObserverSubscribeRequest{
					SessionID:    sid,
					EveryTicks:   sub.EveryTicks,
					IncludeGrid:  sub.IncludeGrid,
					GridEncoding: sub.GridEncoding,
				}:
				default:
					// Drop updates under load; the client may resend.
				}
			case protocol.TypeCmd:
				s.reply(ctx, replies, s.handleCommand(ctx, msg, limiter))
			default:
				s.reply(ctx, replies, protocol.NewError(protocol.ErrUnknownType, "unknown message type "+base.Type))
			}
		}

		cancel()
		closeWith(conn, websocket.CloseNormalClosure, "bye")

		// Best-effort wait for the writer to stop so it doesn't outlive conn.
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
		s.logf("observer %s left", sid)
	}
}

// handleCommand returns either a CommandResult or an ErrorMsg.
func (s *Server) handleCommand(ctx context.Context, msg []byte, limiter *cmdWindow) any {
	if s.opts.ReadOnly {
		return protocol.NewError(protocol.ErrBadRequest, "commands disabled")
	}
	if ok, cooldown := limiter.allow(s.world.CurrentTick()); !ok {
		return protocol.NewError(protocol.ErrRateLimited, fmt.Sprintf("retry in %d ticks", cooldown))
	}
	cmd, err := protocol.DecodeCommand(msg)
	if err != nil {
		return protocol.NewError(protocol.ErrProtoBadRequest, err.Error())
	}
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := s.world.Submit(cctx, cmd)
	switch {
	case errors.Is(err, world.ErrWorldBusy):
		return protocol.NewError(protocol.ErrWorldBusy, "inbox full")
	case errors.Is(err, world.ErrWorldStopped):
		return protocol.NewError(protocol.ErrWorldClosed, "world stopped")
	case err != nil:
		return protocol.NewError(protocol.ErrInternal, err.Error())
	}
	return res
}

func (s *Server) reply(ctx context.Context, replies chan<- []byte, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case replies <- b:
	case <-ctx.Done():
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, out, replies <-chan []byte) error {
	write := func(b []byte) error {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		return conn.WriteMessage(websocket.TextMessage, b)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b := <-replies:
			if err := write(b); err != nil {
				return err
			}
		case b, ok := <-out:
			if !ok {
				return nil
			}
			if err := write(b); err != nil {
				return err
			}
		}
	}
}

func decodeSubscribe(msg []byte) (observerproto.SubscribeMsg, bool) {
	var sub observerproto.SubscribeMsg
	if err := json.Unmarshal(msg, &sub); err != nil {
		return sub, false
	}
	if sub.Type != observerproto.TypeSubscribe || sub.ProtocolVersion != observerproto.Version {
		return sub, false
	}
	sub.EveryTicks = max(sub.EveryTicks, 0)
	sub.EveryTicks = min(sub.EveryTicks, 600)
	return sub, true
}

func closeWith(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(time.Second))
}

func (s *Server) allowed(r *http.Request) bool {
	return s.opts.AllowRemote || isLoopbackRemote(r.RemoteAddr)
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
