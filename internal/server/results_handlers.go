package server

import (
	"errors"
	"net/http"

	"aimtrainer/internal/notify"
	"aimtrainer/internal/rooms"
)

// handleLatestResult serves the room's newest finished run from the
// JetStream bucket. It still answers after the room itself is swept.
func (s *Server) handleLatestResult(w http.ResponseWriter, r *http.Request) {
	if s.Results == nil {
		writeError(w, http.StatusServiceUnavailable, "results require a NATS connection")
		return
	}
	code, ok := rooms.NormalizeCode(r.PathValue("code"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown room")
		return
	}
	ctx, cancel := roomCtx(r)
	defer cancel()

	ev, err := s.Results.Latest(ctx, code)
	if errors.Is(err, notify.ErrNoResult) {
		writeError(w, http.StatusNotFound, "no finished run for room")
		return
	}
	if err != nil {
		logger.Error("reading latest result", "room", code, "err", err)
		writeError(w, http.StatusBadGateway, "reading latest result")
		return
	}
	writeJSON(w, http.StatusOK, ev)
}
