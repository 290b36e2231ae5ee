package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/livesteno/livesteno-server/internal/broadcast"
	"github.com/livesteno/livesteno-server/internal/caption"
	"github.com/livesteno/livesteno-server/internal/proto"
	"github.com/livesteno/livesteno-server/internal/steno"
)

const roleSteno = "steno"

// WSHandler bridges same-device tabs onto the local channel. Every
// connection subscribes to its room's event stream; a connection with the
// steno role additionally drives the authoring session.
type WSHandler struct {
	hub   *broadcast.Hub
	rooms *steno.Rooms
	log   *zerolog.Logger
}

// NewWSHandler builds the WebSocket bridge.
func NewWSHandler(hub *broadcast.Hub, rooms *steno.Rooms, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, rooms: rooms, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		stdhttp.Error(w, "missing room", stdhttp.StatusBadRequest)
		return
	}
	authoring := r.URL.Query().Get("role") == roleSteno

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	sub := h.hub.Subscribe(roomID)
	defer h.hub.Unsubscribe(sub)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var session *steno.Session
	if authoring {
		session = h.rooms.Get(roomID)
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, session)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, sub)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("room", roomID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// readLoop consumes inbound frames. Viewer connections still read so that a
// closed peer is noticed, but only the authoring role gets dispatched.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, session *steno.Session) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}
		if session == nil {
			continue
		}
		if protoErr := dispatch(session, inbound); protoErr != nil {
			if err := wsjson.Write(ctx, conn, proto.ErrorFrame{Type: "error", Error: protoErr}); err != nil {
				return err
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sub *broadcast.Subscriber) error {
	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, event); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func dispatch(session *steno.Session, inbound proto.Inbound) *proto.Error {
	switch inbound.Type {
	case proto.InboundTypeLive:
		var data proto.TextData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return &proto.Error{Code: "bad_request", Msg: "invalid live payload"}
		}
		session.Input(data.Text)
	case proto.InboundTypeCommit:
		var data proto.TextData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return &proto.Error{Code: "bad_request", Msg: "invalid commit payload"}
		}
		session.Commit(data.Text)
	case proto.InboundTypeSettings:
		var settings caption.Settings
		if err := json.Unmarshal(inbound.Data, &settings); err != nil {
			return &proto.Error{Code: "bad_request", Msg: "invalid settings payload"}
		}
		session.UpdateSettings(settings)
	case proto.InboundTypeClear:
		session.Clear()
	default:
		return &proto.Error{Code: "invalid_message", Msg: "unknown message type"}
	}
	return nil
}
