package wshub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"

	"aimtrainer/internal/broadcast"
	"aimtrainer/internal/protocol"
)

var logger = log.WithPrefix("ws")

// Client is one websocket viewer of a room.
type Client struct {
	ID    string
	Conn  *websocket.Conn
	Codec protocol.Codec
	// Frames carries room-wide frames from the room broadcaster.
	Frames <-chan broadcast.Message
	// Send carries hub-local frames, already encoded with Codec.
	Send chan []byte
}

func NewClient(id string, conn *websocket.Conn, codec protocol.Codec, frames <-chan broadcast.Message) *Client {
	if codec == nil {
		codec = protocol.JSON
	}
	return &Client{
		ID:     id,
		Conn:   conn,
		Codec:  codec,
		Frames: frames,
		Send:   make(chan []byte, 16),
	}
}

func (c *Client) messageType() websocket.MessageType {
	if c.Codec.Binary() {
		return websocket.MessageBinary
	}
	return websocket.MessageText
}

// WritePump copies frames to the connection until ctx ends or either
// source closes.
func (c *Client) WritePump(ctx context.Context) {
	for {
		var data []byte
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Frames:
			if !ok {
				return
			}
			data = msg.Data
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			data = msg
		}
		if err := c.Conn.Write(ctx, c.messageType(), data); err != nil {
			return
		}
	}
}

// Write encodes one message and writes it straight to the connection.
func (c *Client) Write(ctx context.Context, t string, payload any) error {
	data, err := c.Codec.Encode(t, payload)
	if err != nil {
		return err
	}
	return c.Conn.Write(ctx, c.messageType(), data)
}

// Handler acts on one decoded client message.
type Handler func(ctx context.Context, env protocol.Envelope) error

// ReadPump decodes client messages and passes them to handle until the
// connection closes. Undecodable or rejected messages are answered with an
// error frame and do not end the pump.
func (c *Client) ReadPump(ctx context.Context, handle Handler) error {
	for {
		_, data, err := c.Conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("reading from %s: %w", c.ID, err)
		}
		env, err := c.Codec.DecodeEnvelope(data)
		if err == nil {
			err = handle(ctx, env)
		}
		if err != nil {
			logger.Debug("client message rejected", "client", c.ID, "err", err)
			if werr := c.Write(ctx, protocol.MsgError, protocol.Error{Message: err.Error()}); werr != nil {
				return fmt.Errorf("writing to %s: %w", c.ID, werr)
			}
		}
	}
}

// Hub tracks the viewers of one room.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client and announces it to the others.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.BroadcastExcept(c.ID, protocol.MsgViewers, protocol.Viewers{ID: c.ID, Joined: true, Count: n})
}

// Unregister removes a client, closes its Send channel and announces the
// departure to the others.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		close(c.Send)
		delete(h.clients, id)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.BroadcastExcept(id, protocol.MsgViewers, protocol.Viewers{ID: id, Count: n})
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastExcept sends a message to every client but senderID, encoded
// with each client's codec. Non-blocking: drops if a channel is full.
func (h *Hub) BroadcastExcept(senderID, t string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	encoded := make(map[string][]byte, 2)
	for id, c := range h.clients {
		if id == senderID {
			continue
		}
		data, ok := encoded[c.Codec.Name()]
		if !ok {
			var err error
			data, err = c.Codec.Encode(t, payload)
			if err != nil {
				logger.Error("encode failed", "type", t, "err", err)
				return
			}
			encoded[c.Codec.Name()] = data
		}
		select {
		case c.Send <- data:
		default:
		}
	}
}
