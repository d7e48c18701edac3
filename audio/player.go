package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Player owns the speaker and mixes lifecycle cues into it. Cues are
// finite streamers, so the mixer drops them once they drain.
type Player struct {
	mu          sync.Mutex
	cfg         *Config
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer creates a cue player. A nil config falls back to DefaultConfig.
func NewPlayer(cfg *Config) *Player {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Player{
		cfg:   cfg,
		mixer: &beep.Mixer{},
	}
}

// Initialize sets up the speaker and attaches the mixer
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	rate := beep.SampleRate(p.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup drops all pending cues and detaches from the speaker
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	// Note: beep doesn't provide a Close() method for speaker,
	// but clearing all streamers ensures no audio artifacts
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()

	p.initialized = false
}

// Play mixes in the generated streamer for the given cue. It is a
// no-op until Initialize succeeds or while cues are disabled.
func (p *Player) Play(cue Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || !p.cfg.Enabled {
		return
	}

	s := GetCueStreamer(cue, p.cfg)
	if s == nil {
		return
	}

	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// PlayStart plays the cue for a motion beginning to move
func (p *Player) PlayStart() { p.Play(CueStart) }

// PlayStep plays the cue for a sequence advancing a step
func (p *Player) PlayStep() { p.Play(CueStep) }

// PlayReverse plays the cue for a traversal turning around
func (p *Player) PlayReverse() { p.Play(CueReverse) }

// PlayComplete plays the cue for a finished run
func (p *Player) PlayComplete() { p.Play(CueComplete) }
