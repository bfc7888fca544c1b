package rooms

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"aimtrainer/internal/analytics"
	"aimtrainer/internal/broadcast"
	"aimtrainer/internal/events"
	"aimtrainer/internal/metrics"
	"aimtrainer/internal/options"
	"aimtrainer/internal/protocol"
	"aimtrainer/internal/session"
	"aimtrainer/internal/wshub"
)

var logger = log.WithPrefix("room")

var ErrClosed = errors.New("room closed")

// Config is shared by every room of a store.
type Config struct {
	Options        options.Options
	FrameHz        int
	BroadcastEvery int
	Width, Height  float64
	Bus            *events.Bus      // optional
	Metrics        *metrics.Metrics // optional
}

func (c Config) withDefaults() Config {
	if c.FrameHz < 1 {
		c.FrameHz = 60
	}
	if c.BroadcastEvery < 1 {
		c.BroadcastEvery = 1
	}
	if c.Width <= 0 {
		c.Width = 1200
	}
	if c.Height <= 0 {
		c.Height = 675
	}
	return c
}

// Room hosts one session on a single goroutine. Everything that touches the
// session goes through Inbox and is handled by Run.
type Room struct {
	Code        string
	CreatedAt   time.Time
	Inbox       chan any
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub

	cfg     Config
	session *session.Session
	width   float64
	height  float64
	frames  int
	clock   *time.Ticker
	last    *protocol.Complete
	now     func() time.Time

	lastActive atomic.Int64
	done       chan struct{}
}

func New(code string, cfg Config) *Room {
	cfg = cfg.withDefaults()
	r := &Room{
		Code:        code,
		CreatedAt:   time.Now(),
		Inbox:       make(chan any, 256),
		Broadcaster: broadcast.NewBroadcaster(),
		Hub:         wshub.NewHub(),
		cfg:         cfg,
		session:     session.New(cfg.Options, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))),
		width:       cfg.Width,
		height:      cfg.Height,
		now:         time.Now,
		done:        make(chan struct{}),
	}
	r.session.OnComplete = r.complete
	r.touch()
	return r
}

// Done is closed once Run has returned.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// LastActive is when the room last handled a command.
func (r *Room) LastActive() time.Time {
	return time.Unix(0, r.lastActive.Load())
}

func (r *Room) touch() {
	r.lastActive.Store(time.Now().UnixNano())
}

// Welcome describes the room to a newly attached viewer. The surface is the
// configured default; viewers report their own size with Resize.
func (r *Room) Welcome() protocol.Welcome {
	return protocol.Welcome{
		Room:    r.Code,
		FrameHz: r.cfg.FrameHz,
		Width:   r.cfg.Width,
		Height:  r.cfg.Height,
	}
}

func (r *Room) Viewers() int {
	return r.Hub.Len()
}

// Run drives the room until ctx is cancelled. The frame ticker, the clock
// ticker and the inbox are all released when it returns.
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)
	frames := time.NewTicker(time.Second / time.Duration(r.cfg.FrameHz))
	defer frames.Stop()
	defer r.stopClock()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-r.Inbox:
			r.touch()
			r.handleCommand(cmd)
		case <-frames.C:
			r.step()
		case <-r.clockC():
			r.session.Second(r.now())
		}
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Start:
		err := r.session.Start(r.now())
		if err == nil {
			r.frames = 0
			r.last = nil
			r.startClock()
			r.cfg.Metrics.SessionStarted()
			r.publishPhase()
			r.broadcastSnapshot()
			logger.Debug("session started", "room", r.Code, "run", r.session.RunID())
		}
		if c.Reply != nil {
			c.Reply <- err
		}
	case Click:
		out := r.session.Click(r.now(), c.X, c.Y)
		r.cfg.Metrics.Click(out)
		if out.Accepted {
			r.Broadcaster.Publish(protocol.MsgOutcome, out)
		}
		if c.Reply != nil {
			c.Reply <- out
		}
	case Resize:
		if !(protocol.Resize{Width: c.Width, Height: c.Height}).Valid() {
			logger.Debug("ignoring resize", "room", r.Code, "w", c.Width, "h", c.Height)
			break
		}
		r.width, r.height = c.Width, c.Height
	case Configure:
		err := r.session.Configure(c.Options)
		if err == nil {
			r.broadcastSnapshot()
		}
		if c.Reply != nil {
			c.Reply <- err
		}
	case GetOptions:
		c.Reply <- r.session.Options()
	case Snapshot:
		c.Reply <- r.session.Snapshot(r.now())
	case LastResult:
		c.Reply <- r.last
	default:
		logger.Warn("unknown command", "room", r.Code, "type", fmt.Sprintf("%T", cmd))
	}
}

func (r *Room) step() {
	if r.session.Phase() != session.PhaseRunning {
		return
	}
	r.session.Frame(r.now(), r.width, r.height)
	r.frames++
	if r.frames%r.cfg.BroadcastEvery == 0 {
		r.broadcastSnapshot()
	}
}

func (r *Room) startClock() {
	r.stopClock()
	r.clock = time.NewTicker(time.Second)
}

func (r *Room) stopClock() {
	if r.clock != nil {
		r.clock.Stop()
		r.clock = nil
	}
}

// clockC is nil, and so never ready, while no run is in progress.
func (r *Room) clockC() <-chan time.Time {
	if r.clock == nil {
		return nil
	}
	return r.clock.C
}

// complete runs on the room goroutine when the session clock runs out.
func (r *Room) complete(score int) {
	r.stopClock()
	res := r.session.Result()
	done := &protocol.Complete{
		Score:  score,
		Result: res,
		Badges: analytics.EvaluateBadges(analytics.FromResult(res)),
	}
	r.last = done

	r.cfg.Metrics.SessionCompleted(res)
	r.broadcastSnapshot()
	r.Broadcaster.Publish(protocol.MsgComplete, done)
	r.publishPhase()
	if r.cfg.Bus != nil && !r.cfg.Bus.PublishResult(events.ResultEvent{Room: r.Code, Result: res, Badges: done.Badges}) {
		logger.Warn("result dropped, bus full", "room", r.Code, "run", res.RunID)
	}
	logger.Info("session complete", "room", r.Code, "run", res.RunID, "score", score, "hits", res.Hits, "misses", res.Misses)
}

func (r *Room) publishPhase() {
	if r.cfg.Bus == nil {
		return
	}
	r.cfg.Bus.PublishPhase(events.PhaseChangeEvent{Room: r.Code, Phase: r.session.Phase()})
}

func (r *Room) broadcastSnapshot() {
	r.Broadcaster.Publish(protocol.MsgSnapshot, r.session.Snapshot(r.now()))
}

func (r *Room) send(ctx context.Context, cmd any) error {
	select {
	case <-r.done:
		return ErrClosed
	default:
	}
	select {
	case r.Inbox <- cmd:
		return nil
	case <-r.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func ask[T any](ctx context.Context, r *Room, build func(chan<- T) any) (T, error) {
	var zero T
	reply := make(chan T, 1)
	if err := r.send(ctx, build(reply)); err != nil {
		return zero, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-r.done:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Start begins a run; it returns session.ErrRunning if one is in progress.
func (r *Room) Start(ctx context.Context) error {
	err, sendErr := ask(ctx, r, func(c chan<- error) any { return Start{Reply: c} })
	if sendErr != nil {
		return sendErr
	}
	return err
}

func (r *Room) Click(ctx context.Context, x, y float64) (session.Outcome, error) {
	return ask(ctx, r, func(c chan<- session.Outcome) any { return Click{X: x, Y: y, Reply: c} })
}

func (r *Room) Resize(ctx context.Context, w, h float64) error {
	return r.send(ctx, Resize{Width: w, Height: h})
}

func (r *Room) Configure(ctx context.Context, opts options.Options) error {
	err, sendErr := ask(ctx, r, func(c chan<- error) any { return Configure{Options: opts, Reply: c} })
	if sendErr != nil {
		return sendErr
	}
	return err
}

func (r *Room) Options(ctx context.Context) (options.Options, error) {
	return ask(ctx, r, func(c chan<- options.Options) any { return GetOptions{Reply: c} })
}

func (r *Room) Snapshot(ctx context.Context) (session.Snapshot, error) {
	return ask(ctx, r, func(c chan<- session.Snapshot) any { return Snapshot{Reply: c} })
}

func (r *Room) LastResult(ctx context.Context) (*protocol.Complete, error) {
	return ask(ctx, r, func(c chan<- *protocol.Complete) any { return LastResult{Reply: c} })
}
