package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aimtrainer/internal/db"
	"aimtrainer/internal/events"
	"aimtrainer/internal/metrics"
	"aimtrainer/internal/options"
	"aimtrainer/internal/protocol"
	"aimtrainer/internal/rooms"
	"aimtrainer/internal/scenarios"
	"aimtrainer/internal/session"
)

const maxBody = 64 << 10

// Catalog is the persistent scenario store.
type Catalog interface {
	Ping(ctx context.Context) error
	SaveScenario(ctx context.Context, sc scenarios.Scenario) error
	GetScenario(ctx context.Context, id string) (*scenarios.Scenario, error)
	ListScenarios(ctx context.Context, categories []string, limit int) ([]scenarios.Scenario, error)
	DeleteScenario(ctx context.Context, id string) error
}

// Results reads the latest finished run of a room, which outlives the room.
type Results interface {
	Latest(ctx context.Context, room string) (events.ResultEvent, error)
}

type Server struct {
	Rooms   *rooms.Store
	Catalog Catalog          // nil if no database configured
	Results Results          // nil if no NATS configured
	Metrics *metrics.Metrics // nil disables /metrics
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, protocol.Error{Message: msg})
}

// writeRoomError maps room and session errors to statuses.
func writeRoomError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrRunning):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, rooms.ErrClosed):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "room busy")
	default:
		logger.Error("room request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func readBody(r *http.Request) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r.Body, maxBody))
}

// getRoom resolves the {code} path value.
func (s *Server) getRoom(w http.ResponseWriter, r *http.Request) *rooms.Room {
	room := s.Rooms.Get(r.PathValue("code"))
	if room == nil {
		writeError(w, http.StatusNotFound, "room not found")
	}
	return room
}

// roomCtx bounds a request to the room actor.
func roomCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 2*time.Second)
}

type createRequest struct {
	Scenario string `json:"scenario"`
}

type createResponse struct {
	Code     string          `json:"code"`
	Options  options.Options `json:"options"`
	Warnings []string        `json:"warnings,omitempty"`
}

func warnings(o options.Options) []string {
	err := o.Validate()
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body")
		return
	}

	var req createRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var opts options.Options
	if req.Scenario != "" {
		if s.Catalog == nil {
			writeError(w, http.StatusServiceUnavailable, "scenario catalog requires a database connection")
			return
		}
		sc, err := s.Catalog.GetScenario(r.Context(), req.Scenario)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		if err != nil {
			logger.Error("loading scenario", "id", req.Scenario, "err", err)
			writeError(w, http.StatusInternalServerError, "loading scenario")
			return
		}
		opts = sc.Options.Normalize()
	} else {
		opts, err = options.Parse(body, s.Rooms.Defaults())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	room, err := s.Rooms.Create(opts)
	if err != nil {
		logger.Error("creating room", "err", err)
		writeError(w, http.StatusInternalServerError, "creating room")
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{Code: room.Code, Options: opts, Warnings: warnings(opts)})
}

type roomInfo struct {
	Code      string    `json:"code"`
	Viewers   int       `json:"viewers"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list := s.Rooms.List()
	out := make([]roomInfo, 0, len(list))
	for _, room := range list {
		out = append(out, roomInfo{Code: room.Code, Viewers: room.Viewers(), CreatedAt: room.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

type sessionResponse struct {
	Code     string             `json:"code"`
	Viewers  int                `json:"viewers"`
	Snapshot session.Snapshot   `json:"snapshot"`
	Last     *protocol.Complete `json:"last,omitempty"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	room := s.getRoom(w, r)
	if room == nil {
		return
	}
	ctx, cancel := roomCtx(r)
	defer cancel()

	snap, err := room.Snapshot(ctx)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	last, err := room.LastResult(ctx)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Code: room.Code, Viewers: room.Viewers(), Snapshot: snap, Last: last})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	room := s.getRoom(w, r)
	if room == nil {
		return
	}
	s.Rooms.Delete(room.Code)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	room := s.getRoom(w, r)
	if room == nil {
		return
	}
	ctx, cancel := roomCtx(r)
	defer cancel()

	if err := room.Start(ctx); err != nil {
		writeRoomError(w, err)
		return
	}
	snap, err := room.Snapshot(ctx)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	room := s.getRoom(w, r)
	if room == nil {
		return
	}
	var c protocol.Click
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "expected {\"x\": number, \"y\": number}")
		return
	}
	ctx, cancel := roomCtx(r)
	defer cancel()

	out, err := room.Click(ctx, c.X, c.Y)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	room := s.getRoom(w, r)
	if room == nil {
		return
	}
	var rs protocol.Resize
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&rs); err != nil {
		writeError(w, http.StatusBadRequest, "expected {\"w\": number, \"h\": number}")
		return
	}
	if !rs.Valid() {
		writeError(w, http.StatusBadRequest, "surface size must be finite and positive")
		return
	}
	ctx, cancel := roomCtx(r)
	defer cancel()

	if err := room.Resize(ctx, rs.Width, rs.Height); err != nil {
		writeRoomError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	room := s.getRoom(w, r)
	if room == nil {
		return
	}
	ctx, cancel := roomCtx(r)
	defer cancel()

	opts, err := room.Options(ctx)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// handlePutOptions merges the body into the room's current options.
func (s *Server) handlePutOptions(w http.ResponseWriter, r *http.Request) {
	room := s.getRoom(w, r)
	if room == nil {
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body")
		return
	}
	ctx, cancel := roomCtx(r)
	defer cancel()

	current, err := room.Options(ctx)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	opts, err := options.Parse(body, current)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := room.Configure(ctx, opts); err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, createResponse{Code: room.Code, Options: opts, Warnings: warnings(opts)})
}

// handleEvents streams room frames as server-sent events, one event per
// envelope type.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	room := s.getRoom(w, r)
	if room == nil {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	msgChan := room.Broadcaster.Subscribe(protocol.JSON)
	defer room.Broadcaster.Unsubscribe(msgChan)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-room.Done():
			return
		case msg := <-msgChan:
			fmt.Fprintf(w, "event: %s\n", msg.Event)
			for _, line := range strings.Split(string(msg.Data), "\n") {
				fmt.Fprintf(w, "data: %s\n", line)
			}
			fmt.Fprint(w, "\n")
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "rooms": len(s.Rooms.List())}
	if s.Catalog != nil {
		if err := s.Catalog.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db_error", "error": err.Error()})
			return
		}
		resp["database"] = "ok"
	}
	writeJSON(w, http.StatusOK, resp)
}
