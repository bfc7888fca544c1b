package broadcast

import (
	"testing"
	"time"

	"aimtrainer/internal/protocol"
)

func TestNewBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	if b == nil {
		t.Fatal("NewBroadcaster() returned nil")
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	ch := b.Subscribe(nil)
	if ch == nil {
		t.Fatal("Subscribe() returned nil")
	}
	if b.Len() != 1 {
		t.Errorf("clients count = %d, want 1", b.Len())
	}

	b.Unsubscribe(ch)
	if b.Len() != 0 {
		t.Errorf("clients count after unsubscribe = %d, want 0", b.Len())
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}

	// second unsubscribe is a no-op
	b.Unsubscribe(ch)
}

func TestBroadcaster_PublishPerCodec(t *testing.T) {
	b := NewBroadcaster()

	js := b.Subscribe(protocol.JSON)
	mp := b.Subscribe(protocol.MsgPack)

	if n := b.Publish(protocol.MsgClick, protocol.Click{X: 3, Y: 4}); n != 2 {
		t.Fatalf("Publish() delivered to %d, want 2", n)
	}

	for _, tc := range []struct {
		ch    chan Message
		codec protocol.Codec
	}{{js, protocol.JSON}, {mp, protocol.MsgPack}} {
		select {
		case msg := <-tc.ch:
			if msg.Event != protocol.MsgClick {
				t.Errorf("%s: Event = %q", tc.codec.Name(), msg.Event)
			}
			env, err := tc.codec.DecodeEnvelope(msg.Data)
			if err != nil {
				t.Fatalf("%s: %v", tc.codec.Name(), err)
			}
			c, err := protocol.DecodePayload[protocol.Click](tc.codec, env)
			if err != nil {
				t.Fatalf("%s: %v", tc.codec.Name(), err)
			}
			if c.X != 3 || c.Y != 4 {
				t.Errorf("%s: click = %+v", tc.codec.Name(), c)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s subscriber timed out", tc.codec.Name())
		}
	}

	b.Unsubscribe(js)
	b.Unsubscribe(mp)
}

func TestBroadcaster_SkipsFullChannels(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe(nil)

	for i := 0; i < cap(ch); i++ {
		b.Publish("fill", nil)
	}

	done := make(chan int)
	go func() {
		done <- b.Publish("overflow", nil)
	}()

	select {
	case n := <-done:
		if n != 0 {
			t.Errorf("overflow delivered to %d, want 0", n)
		}
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on full channel")
	}

	b.Unsubscribe(ch)
}

func TestBroadcaster_NoSubscribers(t *testing.T) {
	b := NewBroadcaster()
	if n := b.Publish(protocol.MsgSnapshot, nil); n != 0 {
		t.Errorf("Publish() = %d, want 0", n)
	}
}
