package rooms

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"aimtrainer/internal/broadcast"
	"aimtrainer/internal/events"
	"aimtrainer/internal/options"
	"aimtrainer/internal/protocol"
	"aimtrainer/internal/session"
)

func testRoomConfig(mod func(*options.Options)) Config {
	opts := options.Defaults()
	if mod != nil {
		mod(&opts)
	}
	return Config{
		Options:        opts,
		FrameHz:        100,
		BroadcastEvery: 1,
		Width:          1200,
		Height:         675,
		Bus:            events.NewBus(),
	}
}

func runRoom(t *testing.T, cfg Config) *Room {
	t.Helper()
	r := New("TEST", cfg)
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-r.Done()
	})
	return r
}

// waitFor returns the first frame of type want, or fails after timeout.
func waitFor(t *testing.T, ch chan broadcast.Message, want string, timeout time.Duration) protocol.Envelope {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case msg := <-ch:
			if msg.Event != want {
				continue
			}
			env, err := protocol.JSON.DecodeEnvelope(msg.Data)
			if err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			return env
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestRoomStartBroadcastsSnapshot(t *testing.T) {
	r := runRoom(t, testRoomConfig(nil))
	ch := r.Broadcaster.Subscribe(protocol.JSON)
	defer r.Broadcaster.Unsubscribe(ch)

	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(ctx); !errors.Is(err, session.ErrRunning) {
		t.Errorf("second Start() = %v, want ErrRunning", err)
	}

	env := waitFor(t, ch, protocol.MsgSnapshot, time.Second)
	snap, err := protocol.DecodePayload[protocol.Snapshot](protocol.JSON, env)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Phase != session.PhaseRunning || snap.TimeRemaining != options.DefaultDuration {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestRoomClickOutcome(t *testing.T) {
	r := runRoom(t, testRoomConfig(nil))
	ctx := context.Background()

	out, err := r.Click(ctx, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if out.Accepted {
		t.Error("click before start should be ignored")
	}

	if err := r.Start(ctx); err != nil {
		t.Fatal(err)
	}
	out, err = r.Click(ctx, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Accepted || out.Hit || out.Score != 0 {
		t.Errorf("outcome = %+v, want accepted miss with score 0", out)
	}

	snap, err := r.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Misses != 1 {
		t.Errorf("Misses = %d, want 1", snap.Misses)
	}
}

func TestRoomResizeBoundsSpawns(t *testing.T) {
	r := runRoom(t, testRoomConfig(func(o *options.Options) {
		o.SpawnRate = 1
		o.Lifespan = 5000
	}))
	ctx := context.Background()

	// narrower than a target: spawns are centered on both axes
	if err := r.Resize(ctx, 10, 10); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(ctx); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		snap, err := r.Snapshot(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(snap.Targets) > 0 {
			for _, tg := range snap.Targets {
				if tg.X != 5 || tg.Y != 5 {
					t.Fatalf("target at (%v, %v), want (5, 5)", tg.X, tg.Y)
				}
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no target spawned")
}

func TestRoomCompletes(t *testing.T) {
	cfg := testRoomConfig(func(o *options.Options) { o.Duration = 1 })
	r := runRoom(t, cfg)
	ch := r.Broadcaster.Subscribe(protocol.JSON)
	defer r.Broadcaster.Unsubscribe(ch)

	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatal(err)
	}
	r.Click(ctx, 1, 1)

	env := waitFor(t, ch, protocol.MsgComplete, 3*time.Second)
	done, err := protocol.DecodePayload[protocol.Complete](protocol.JSON, env)
	if err != nil {
		t.Fatal(err)
	}
	if done.Score != 0 || done.Result.Misses != 1 {
		t.Errorf("complete = %+v", done)
	}

	select {
	case ev := <-cfg.Bus.Results:
		if ev.Room != "TEST" || ev.Result.RunID != done.Result.RunID {
			t.Errorf("result event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no result on the bus")
	}

	last, err := r.LastResult(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if last == nil || last.Result.RunID != done.Result.RunID {
		t.Errorf("LastResult() = %+v", last)
	}

	snap, _ := r.Snapshot(ctx)
	if snap.Phase != session.PhaseEnded || snap.TimeRemaining != 0 {
		t.Errorf("after completion snapshot = %+v", snap)
	}

	// a new run can follow
	if err := r.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if last, _ := r.LastResult(ctx); last != nil {
		t.Error("LastResult should reset on restart")
	}
}

func TestRoomConfigure(t *testing.T) {
	r := runRoom(t, testRoomConfig(nil))
	ctx := context.Background()

	opts := options.Defaults()
	opts.Duration = 12
	if err := r.Configure(ctx, opts); err != nil {
		t.Fatal(err)
	}
	got, err := r.Options(ctx)
	if err != nil || got.Duration != 12 {
		t.Errorf("Options() = %+v, %v", got, err)
	}
	snap, _ := r.Snapshot(ctx)
	if snap.TimeRemaining != 12 {
		t.Errorf("TimeRemaining = %d, want 12", snap.TimeRemaining)
	}

	r.Start(ctx)
	if err := r.Configure(ctx, opts); !errors.Is(err, session.ErrRunning) {
		t.Errorf("Configure while running = %v, want ErrRunning", err)
	}
}

func TestRoomClosed(t *testing.T) {
	r := New("GONE", testRoomConfig(nil))
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	cancel()

	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if err := r.Start(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Start() after close = %v, want ErrClosed", err)
	}
	if _, err := r.Snapshot(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Snapshot() after close = %v, want ErrClosed", err)
	}
}

func TestRoomResizeIgnoresNonFinite(t *testing.T) {
	r := runRoom(t, testRoomConfig(func(o *options.Options) {
		o.SpawnRate = 1
		o.Lifespan = 5000
	}))
	ctx := context.Background()

	if err := r.Resize(ctx, 10, 10); err != nil {
		t.Fatal(err)
	}
	if err := r.Resize(ctx, math.Inf(1), 10); err != nil {
		t.Fatal(err)
	}
	if err := r.Resize(ctx, 10, math.NaN()); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(ctx); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		snap, err := r.Snapshot(ctx)
		if err != nil {
			t.Fatal(err)
		}
		for _, tg := range snap.Targets {
			if tg.X != 5 || tg.Y != 5 {
				t.Fatalf("target at (%v, %v), want (5, 5) on the last valid surface", tg.X, tg.Y)
			}
		}
		if len(snap.Targets) > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no target spawned")
}
