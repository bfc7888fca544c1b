package rooms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aimtrainer/internal/options"
)

const staleTTL = 1 * time.Hour

type entry struct {
	room   *Room
	cancel context.CancelFunc
}

// Store owns the live rooms and their actors.
type Store struct {
	mu    sync.Mutex
	rooms map[string]entry
	cfg   Config
	ctx   context.Context
}

// NewStore returns a store whose rooms run until ctx is done or they are
// deleted or swept.
func NewStore(ctx context.Context, cfg Config) *Store {
	s := &Store{
		rooms: make(map[string]entry),
		cfg:   cfg.withDefaults(),
		ctx:   ctx,
	}
	go s.sweepStale()
	return s
}

// Create starts a room running opts.
func (s *Store) Create(opts options.Options) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for range 10 {
		code, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating room code: %w", err)
		}
		if _, exists := s.rooms[code]; exists {
			continue
		}

		cfg := s.cfg
		cfg.Options = opts
		room := New(code, cfg)
		ctx, cancel := context.WithCancel(s.ctx)
		s.rooms[code] = entry{room: room, cancel: cancel}
		go room.Run(ctx)

		s.cfg.Metrics.RoomOpened()
		logger.Info("room created", "room", code)
		return room, nil
	}
	return nil, fmt.Errorf("failed to generate unique room code after 10 attempts")
}

// Defaults are the options a room gets when the caller supplies none.
func (s *Store) Defaults() options.Options {
	return s.cfg.Options
}

func (s *Store) Get(code string) *Room {
	code, ok := NormalizeCode(code)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[code].room
}

// Delete stops the room's actor and forgets it.
func (s *Store) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(code)
}

func (s *Store) deleteLocked(code string) {
	e, ok := s.rooms[code]
	if !ok {
		return
	}
	e.cancel()
	delete(s.rooms, code)
	s.cfg.Metrics.RoomClosed()
}

func (s *Store) List() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Room, 0, len(s.rooms))
	for _, e := range s.rooms {
		list = append(list, e.room)
	}
	return list
}

// Close stops every room.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code := range s.rooms {
		s.deleteLocked(code)
	}
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

// sweep removes rooms with no viewers and no commands for staleTTL.
func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for code, e := range s.rooms {
		if e.room.Viewers() == 0 && now.Sub(e.room.LastActive()) > staleTTL {
			s.deleteLocked(code)
			n++
		}
	}
	if n > 0 {
		logger.Info("swept stale rooms", "count", n)
	}
	return n
}
