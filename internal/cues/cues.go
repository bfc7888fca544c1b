// Package cues plays short hit, miss and end-of-run tones for the local
// front-ends.
package cues

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

var logger = log.WithPrefix("cues")

const sampleRate = beep.SampleRate(44100)

type Cue int

const (
	CueHit Cue = iota
	CueMiss
	CueEnd
)

// Player plays cues without blocking the caller.
type Player interface {
	Play(Cue)
}

// Silent discards every cue.
type Silent struct{}

func (Silent) Play(Cue) {}

type tone struct {
	freq     float64
	duration time.Duration
	volume   float64 // linear, 0..1
}

var tones = map[Cue][]tone{
	CueHit:  {{freq: 880, duration: 60 * time.Millisecond, volume: 0.5}},
	CueMiss: {{freq: 180, duration: 90 * time.Millisecond, volume: 0.4}},
	CueEnd: {
		{freq: 660, duration: 120 * time.Millisecond, volume: 0.5},
		{freq: 990, duration: 200 * time.Millisecond, volume: 0.5},
	},
}

// Stream renders a cue as a finite stream.
func Stream(c Cue) (beep.Streamer, error) {
	var parts []beep.Streamer
	for _, t := range tones[c] {
		sine, err := generators.SineTone(sampleRate, t.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, withVolume(beep.Take(sampleRate.N(t.duration), sine), t.volume))
	}
	return beep.Seq(parts...), nil
}

// withVolume maps a linear gain onto beep's log-scaled volume; 0 is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Speaker mixes cues onto the default audio device.
type Speaker struct {
	mixer *beep.Mixer
}

// NewSpeaker opens the audio device. Callers without audio should fall back
// to Silent.
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, err
	}
	s := &Speaker{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

func (s *Speaker) Play(c Cue) {
	st, err := Stream(c)
	if err != nil {
		logger.Warn("cue unavailable", "cue", c, "err", err)
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

func (s *Speaker) Close() {
	speaker.Clear()
	speaker.Close()
}

// Open returns a Speaker, or Silent when no audio device is available.
func Open() (Player, func()) {
	s, err := NewSpeaker()
	if err != nil {
		logger.Warn("audio disabled", "err", err)
		return Silent{}, func() {}
	}
	return s, s.Close
}
