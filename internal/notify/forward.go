package notify

import (
	"context"
	"time"

	"aimtrainer/internal/events"
	"aimtrainer/internal/metrics"
)

const (
	batchSize     = 50
	flushInterval = 500 * time.Millisecond
)

// Forward drains the bus until ctx is done, handing results to pub in
// batches. Phase changes are sent as they arrive. A nil pub only drains.
// Results queued when ctx ends are flushed before Forward returns, so pub
// must stay open until then.
func Forward(ctx context.Context, bus *events.Bus, pub Publisher, m *metrics.Metrics) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]events.ResultEvent, 0, batchSize)
	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		for _, ev := range batch {
			if pub == nil {
				continue
			}
			if err := pub.PublishResult(ctx, ev); err != nil {
				logger.Error("publish result failed", "room", ev.Room, "run", ev.Result.RunID, "err", err)
				m.Published("error")
				continue
			}
			m.Published("ok")
		}
		batch = batch[:0]
	}
	defer func() {
		// ctx is already done; pick up results still queued on the bus and
		// give the tail a short grace period
	drain:
		for {
			select {
			case ev := <-bus.Results:
				batch = append(batch, ev)
			default:
				break drain
			}
		}
		final, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		flush(final)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-bus.Results:
			batch = append(batch, ev)
			if len(batch) >= batchSize {
				flush(ctx)
			}
		case ev := <-bus.PhaseChanges:
			if pub == nil {
				continue
			}
			if err := pub.PublishPhase(ctx, ev); err != nil {
				logger.Warn("publish phase failed", "room", ev.Room, "err", err)
			}
		case <-ticker.C:
			flush(ctx)
		}
	}
}
