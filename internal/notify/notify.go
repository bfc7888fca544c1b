// Package notify forwards session events to NATS JetStream so other services
// can react to finished runs.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"aimtrainer/internal/events"
)

var logger = log.WithPrefix("nats")

const (
	StreamName       = "AIMTRAINER"
	SubjectCompleted = "aimtrainer.sessions.completed"
	SubjectPhase     = "aimtrainer.sessions.phase"
	// BucketLatest keeps the newest result per room.
	BucketLatest = "AIMTRAINER_LATEST"
)

// ErrNoResult means no run has finished for the room yet.
var ErrNoResult = errors.New("no result for room")

// Publisher delivers session events somewhere outside the process.
type Publisher interface {
	PublishResult(ctx context.Context, ev events.ResultEvent) error
	PublishPhase(ctx context.Context, ev events.PhaseChangeEvent) error
}

type JetStream struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	latest jetstream.KeyValue
}

// Connect dials url and makes sure the stream and bucket exist.
func Connect(ctx context.Context, url string) (*JetStream, error) {
	nc, err := nats.Connect(url,
		nats.Name("aimtrainer"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("creating jetstream context: %w", err)
	}

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{"aimtrainer.sessions.>"},
		MaxAge:   7 * 24 * time.Hour,
		Storage:  jetstream.FileStorage,
	}); err != nil {
		nc.Close()
		return nil, fmt.Errorf("creating stream %s: %w", StreamName, err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  BucketLatest,
		History: 1,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("creating bucket %s: %w", BucketLatest, err)
	}

	return &JetStream{nc: nc, js: js, latest: kv}, nil
}

// PublishResult appends the result to the stream, deduplicated by run id,
// and records it as the room's latest.
func (p *JetStream) PublishResult(ctx context.Context, ev events.ResultEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if _, err := p.js.Publish(ctx, SubjectCompleted, data, jetstream.WithMsgID(ev.Result.RunID)); err != nil {
		return fmt.Errorf("publishing result %s: %w", ev.Result.RunID, err)
	}
	if _, err := p.latest.Put(ctx, "room."+ev.Room, data); err != nil {
		return fmt.Errorf("storing latest result for %s: %w", ev.Room, err)
	}
	return nil
}

func (p *JetStream) PublishPhase(ctx context.Context, ev events.PhaseChangeEvent) error {
	data, err := json.Marshal(map[string]string{"room": ev.Room, "phase": string(ev.Phase)})
	if err != nil {
		return fmt.Errorf("encoding phase: %w", err)
	}
	if _, err := p.js.Publish(ctx, SubjectPhase, data); err != nil {
		return fmt.Errorf("publishing phase for %s: %w", ev.Room, err)
	}
	return nil
}

// Latest reads the newest result stored for a room.
func (p *JetStream) Latest(ctx context.Context, room string) (events.ResultEvent, error) {
	var ev events.ResultEvent
	entry, err := p.latest.Get(ctx, "room."+room)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return ev, ErrNoResult
	}
	if err != nil {
		return ev, fmt.Errorf("reading latest result for %s: %w", room, err)
	}
	if err := json.Unmarshal(entry.Value(), &ev); err != nil {
		return ev, fmt.Errorf("decoding latest result for %s: %w", room, err)
	}
	return ev, nil
}

func (p *JetStream) Close() error {
	return p.nc.Drain()
}
