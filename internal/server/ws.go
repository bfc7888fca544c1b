package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"aimtrainer/internal/protocol"
	"aimtrainer/internal/rooms"
	"aimtrainer/internal/wshub"
)

// handleWS attaches a websocket viewer. ?enc=msgpack selects binary frames.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	room := s.getRoom(w, r)
	if room == nil {
		return
	}
	codec, err := protocol.CodecByName(r.URL.Query().Get("enc"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		logger.Warn("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxBody)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	frames := room.Broadcaster.Subscribe(codec)
	defer room.Broadcaster.Unsubscribe(frames)

	client := wshub.NewClient(uuid.NewString(), conn, codec, frames)
	room.Hub.Register(client)
	defer room.Hub.Unregister(client.ID)
	s.Metrics.ViewerJoined()
	defer s.Metrics.ViewerLeft()

	if err := client.Write(ctx, protocol.MsgWelcome, room.Welcome()); err != nil {
		return
	}
	if snap, err := room.Snapshot(ctx); err == nil {
		client.Write(ctx, protocol.MsgSnapshot, snap)
	}

	go func() {
		client.WritePump(ctx)
		cancel()
	}()
	go func() {
		select {
		case <-room.Done():
			conn.Close(websocket.StatusGoingAway, "room closed")
		case <-ctx.Done():
		}
	}()

	if err := client.ReadPump(ctx, viewerHandler(room, codec)); err != nil {
		logger.Debug("viewer disconnected", "room", room.Code, "client", client.ID, "err", err)
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

// viewerHandler turns client envelopes into room commands. Click outcomes
// reach every viewer through the broadcaster.
func viewerHandler(room *rooms.Room, codec protocol.Codec) wshub.Handler {
	return func(ctx context.Context, env protocol.Envelope) error {
		switch env.T {
		case protocol.MsgStart:
			return room.Start(ctx)
		case protocol.MsgClick:
			c, err := protocol.DecodePayload[protocol.Click](codec, env)
			if err != nil {
				return err
			}
			_, err = room.Click(ctx, c.X, c.Y)
			return err
		case protocol.MsgResize:
			rs, err := protocol.DecodePayload[protocol.Resize](codec, env)
			if err != nil {
				return err
			}
			if !rs.Valid() {
				return fmt.Errorf("invalid surface size %vx%v", rs.Width, rs.Height)
			}
			return room.Resize(ctx, rs.Width, rs.Height)
		}
		return fmt.Errorf("unsupported message type %q", env.T)
	}
}
