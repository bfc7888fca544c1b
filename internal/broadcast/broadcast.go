// Package broadcast fans encoded frames out to subscribers. Each subscriber
// picks a codec; a frame is encoded at most once per codec in use.
package broadcast

import (
	"sync"

	"github.com/charmbracelet/log"

	"aimtrainer/internal/protocol"
)

var logger = log.WithPrefix("broadcast")

// Message is one encoded frame. Event is the envelope type.
type Message struct {
	Event string
	Data  []byte
}

type subscriber struct {
	codec protocol.Codec
}

type Broadcaster struct {
	mu      sync.Mutex
	clients map[chan Message]subscriber
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[chan Message]subscriber),
	}
}

// Subscribe registers a buffered channel receiving frames encoded with codec.
// A nil codec means JSON.
func (b *Broadcaster) Subscribe(codec protocol.Codec) chan Message {
	if codec == nil {
		codec = protocol.JSON
	}
	ch := make(chan Message, 16)
	b.mu.Lock()
	b.clients[ch] = subscriber{codec: codec}
	b.mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.mu.Lock()
	_, ok := b.clients[ch]
	delete(b.clients, ch)
	b.mu.Unlock()
	if ok {
		close(ch)
	}
}

func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Publish encodes payload under event and offers it to every subscriber.
// Subscribers with a full buffer miss the frame. It returns how many
// subscribers received it.
func (b *Broadcaster) Publish(event string, payload any) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.clients) == 0 {
		return 0
	}
	encoded := make(map[string][]byte, 2)
	sent := 0
	for ch, sub := range b.clients {
		data, ok := encoded[sub.codec.Name()]
		if !ok {
			var err error
			data, err = sub.codec.Encode(event, payload)
			if err != nil {
				logger.Error("encode failed", "event", event, "codec", sub.codec.Name(), "err", err)
				return sent
			}
			encoded[sub.codec.Name()] = data
		}
		select {
		case ch <- Message{Event: event, Data: data}:
			sent++
		default:
			// slow subscriber, drop
		}
	}
	return sent
}
