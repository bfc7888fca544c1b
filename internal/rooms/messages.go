package rooms

import (
	"aimtrainer/internal/options"
	"aimtrainer/internal/protocol"
	"aimtrainer/internal/session"
)

// Commands accepted on Room.Inbox. Reply channels must be buffered.

type Start struct {
	Reply chan<- error
}

// Click is a pointer press in surface-local pixels.
type Click struct {
	X, Y  float64
	Reply chan<- session.Outcome
}

// Resize reports the renderer's current surface size.
type Resize struct {
	Width, Height float64
}

type Configure struct {
	Options options.Options
	Reply   chan<- error
}

type GetOptions struct {
	Reply chan<- options.Options
}

type Snapshot struct {
	Reply chan<- session.Snapshot
}

// LastResult asks for the most recent completed run, if any.
type LastResult struct {
	Reply chan<- *protocol.Complete
}
