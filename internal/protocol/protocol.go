package protocol

import (
	"math"

	"aimtrainer/internal/analytics"
	"aimtrainer/internal/session"
)

// Server -> client
const (
	MsgWelcome  = "welcome"
	MsgSnapshot = "snapshot"
	MsgOutcome  = "outcome"
	MsgComplete = "complete"
	MsgViewers  = "viewers"
	MsgError    = "error"
)

// Client -> server
const (
	MsgStart  = "start"
	MsgClick  = "click"
	MsgResize = "resize"
)

type Welcome struct {
	Room    string  `json:"room" msgpack:"room"`
	FrameHz int     `json:"frameHz" msgpack:"frameHz"`
	Width   float64 `json:"w" msgpack:"w"`
	Height  float64 `json:"h" msgpack:"h"`
}

// Click is a pointer press in surface-local coordinates.
type Click struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

type Resize struct {
	Width  float64 `json:"w" msgpack:"w"`
	Height float64 `json:"h" msgpack:"h"`
}

// Valid reports whether both sides are finite and positive.
func (r Resize) Valid() bool {
	return finitePositive(r.Width) && finitePositive(r.Height)
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

type Complete struct {
	Score  int               `json:"score" msgpack:"score"`
	Result session.Result    `json:"result" msgpack:"result"`
	Badges []analytics.Badge `json:"badges,omitempty" msgpack:"badges,omitempty"`
}

// Viewers announces a websocket viewer joining or leaving a room.
type Viewers struct {
	ID     string `json:"id" msgpack:"id"`
	Joined bool   `json:"joined" msgpack:"joined"`
	Count  int    `json:"count" msgpack:"count"`
}

type Error struct {
	Message string `json:"message" msgpack:"message"`
}

type Snapshot = session.Snapshot

type Outcome = session.Outcome
