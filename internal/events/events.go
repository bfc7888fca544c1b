package events

import (
	"aimtrainer/internal/analytics"
	"aimtrainer/internal/session"
)

type PhaseChangeEvent struct {
	Room  string
	Phase session.Phase
}

// ResultEvent is emitted once when a session reaches Ended.
type ResultEvent struct {
	Room   string            `json:"room"`
	Result session.Result    `json:"result"`
	Badges []analytics.Badge `json:"badges,omitempty"`
}

type Bus struct {
	PhaseChanges chan PhaseChangeEvent
	Results      chan ResultEvent
}

func NewBus() *Bus {
	return &Bus{
		PhaseChanges: make(chan PhaseChangeEvent, 64),
		Results:      make(chan ResultEvent, 256),
	}
}

// PublishPhase never blocks; it reports false when the event was dropped.
func (b *Bus) PublishPhase(ev PhaseChangeEvent) bool {
	select {
	case b.PhaseChanges <- ev:
		return true
	default:
		return false
	}
}

// PublishResult never blocks; it reports false when the event was dropped.
func (b *Bus) PublishResult(ev ResultEvent) bool {
	select {
	case b.Results <- ev:
		return true
	default:
		return false
	}
}
