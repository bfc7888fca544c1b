package protocol

import (
	"math"
	"testing"

	"aimtrainer/internal/session"
)

func TestCodecs_SnapshotEnvelope(t *testing.T) {
	snap := session.Snapshot{
		Phase:         session.PhaseRunning,
		Score:         300,
		TimeRemaining: 12,
		Targets: []session.TargetView{
			{ID: 4, X: 120.5, Y: 88, Radius: 20, VisualRadius: 12, Age: 0.4, Color: "#ff4655"},
		},
	}

	for _, c := range []Codec{JSON, MsgPack} {
		t.Run(c.Name(), func(t *testing.T) {
			b, err := c.Encode(MsgSnapshot, snap)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			env, err := c.DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("DecodeEnvelope: %v", err)
			}
			if env.T != MsgSnapshot {
				t.Fatalf("T = %q, want %q", env.T, MsgSnapshot)
			}
			got, err := DecodePayload[Snapshot](c, env)
			if err != nil {
				t.Fatalf("DecodePayload: %v", err)
			}
			if got.Score != 300 || got.Phase != session.PhaseRunning || len(got.Targets) != 1 {
				t.Fatalf("decoded = %+v", got)
			}
			if got.Targets[0].X != 120.5 || got.Targets[0].Color != "#ff4655" {
				t.Errorf("target = %+v", got.Targets[0])
			}
		})
	}
}

func TestEncode_EmptyType(t *testing.T) {
	if _, err := JSON.Encode("", Click{}); err == nil {
		t.Error("expected error for empty type")
	}
	if _, err := MsgPack.Encode("", Click{}); err == nil {
		t.Error("expected error for empty type")
	}
}

func TestEncode_NoPayload(t *testing.T) {
	b, err := JSON.Encode(MsgStart, nil)
	if err != nil {
		t.Fatal(err)
	}
	env, err := JSON.DecodeEnvelope(b)
	if err != nil {
		t.Fatal(err)
	}
	if env.T != MsgStart || len(env.P) != 0 {
		t.Errorf("env = %+v", env)
	}
	if _, err := DecodePayload[Click](JSON, env); err == nil {
		t.Error("expected error decoding missing payload")
	}
}

func TestDecodeEnvelope_Empty(t *testing.T) {
	if _, err := JSON.DecodeEnvelope(nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := MsgPack.DecodeEnvelope(nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestDecodeClientClick(t *testing.T) {
	env, err := JSON.DecodeEnvelope([]byte(`{"t":"click","p":{"x":10.5,"y":20}}`))
	if err != nil {
		t.Fatal(err)
	}
	c, err := DecodePayload[Click](JSON, env)
	if err != nil {
		t.Fatal(err)
	}
	if c.X != 10.5 || c.Y != 20 {
		t.Errorf("click = %+v", c)
	}
}

func TestCodecByName(t *testing.T) {
	for name, binary := range map[string]bool{"": false, "json": false, "msgpack": true} {
		c, err := CodecByName(name)
		if err != nil {
			t.Fatalf("CodecByName(%q): %v", name, err)
		}
		if c.Binary() != binary {
			t.Errorf("CodecByName(%q).Binary() = %v", name, c.Binary())
		}
	}
	if _, err := CodecByName("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestResize_Valid(t *testing.T) {
	tests := []struct {
		r    Resize
		want bool
	}{
		{Resize{Width: 800, Height: 600}, true},
		{Resize{Width: 0, Height: 600}, false},
		{Resize{Width: 800, Height: -1}, false},
		{Resize{Width: math.Inf(1), Height: 600}, false},
		{Resize{Width: 800, Height: math.NaN()}, false},
	}
	for _, tt := range tests {
		if got := tt.r.Valid(); got != tt.want {
			t.Errorf("%+v.Valid() = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestResize_NonFiniteSurvivesMsgPack(t *testing.T) {
	// JSON cannot carry Inf, msgpack can, so the check has to run after decoding
	data, err := MsgPack.Encode(MsgResize, Resize{Width: math.Inf(1), Height: 600})
	if err != nil {
		t.Fatal(err)
	}
	env, err := MsgPack.DecodeEnvelope(data)
	if err != nil {
		t.Fatal(err)
	}
	rs, err := DecodePayload[Resize](MsgPack, env)
	if err != nil {
		t.Fatal(err)
	}
	if rs.Valid() {
		t.Errorf("decoded %+v reported valid", rs)
	}
}
