package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Cue timing. Attack and release keep the edges click-free.
const (
	startCueDuration = 70 * time.Millisecond
	startCueAttack   = 5 * time.Millisecond
	startCueRelease  = 30 * time.Millisecond

	stepCueDuration = 45 * time.Millisecond
	stepCueAttack   = 2 * time.Millisecond
	stepCueRelease  = 20 * time.Millisecond

	reverseCueDuration = 90 * time.Millisecond
	reverseCueAttack   = 10 * time.Millisecond
	reverseCueRelease  = 40 * time.Millisecond

	completeCueNoteDuration = 80 * time.Millisecond
	completeCueAttack       = 5 * time.Millisecond
	completeCueRelease      = 50 * time.Millisecond
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	samples := rate.N(duration)
	return &oscillator{
		freq:     freq,
		phase:    0,
		duration: samples,
		position: 0,
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, false
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		// Advance phase
		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an ADSR envelope (simplified to just attack/release)
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		position:       0,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		var vol float64 = 1.0

		// Attack phase
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		// Release phase
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = float64(remaining) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// Helper to create a volume effect safely
// math.Log2(0) is -Inf, so we handle 0 volume by making it silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Cue generators

// CreateStartCue generates a soft blip for a motion beginning to move
func CreateStartCue(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	osc := NewOscillator(660.0, startCueDuration, WaveSine, rate)
	shaped := NewEnvelope(osc, startCueDuration, startCueAttack, startCueRelease, rate)

	vol := cfg.CueVolumes[CueStart] * cfg.MasterVolume
	return newVolume(shaped, vol)
}

// CreateStepCue generates a short tick for a sequence advancing a step
func CreateStepCue(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	osc := NewOscillator(880.0, stepCueDuration, WaveSquare, rate)
	shaped := NewEnvelope(osc, stepCueDuration, stepCueAttack, stepCueRelease, rate)

	vol := cfg.CueVolumes[CueStep] * cfg.MasterVolume
	return newVolume(shaped, vol)
}

// CreateReverseCue generates a low sweep for a traversal turning around
func CreateReverseCue(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	// Fundamental (E4)
	fund := NewOscillator(330.0, reverseCueDuration, WaveSaw, rate)
	fundShaped := NewEnvelope(fund, reverseCueDuration, reverseCueAttack, reverseCueRelease, rate)

	// Sub layer (octave down)
	sub := NewOscillator(165.0, reverseCueDuration, WaveSine, rate)
	subShaped := NewEnvelope(sub, reverseCueDuration, reverseCueAttack, reverseCueRelease, rate)

	mixed := beep.Mix(
		newVolume(fundShaped, 0.6),
		newVolume(subShaped, 0.4),
	)

	vol := cfg.CueVolumes[CueReverse] * cfg.MasterVolume
	return newVolume(mixed, vol)
}

// CreateCompleteCue generates a two-note chime for a finished run
func CreateCompleteCue(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	// First note (C6)
	n1 := NewOscillator(1046.50, completeCueNoteDuration, WaveSine, rate)
	n1Shaped := NewEnvelope(n1, completeCueNoteDuration, completeCueAttack, completeCueRelease, rate)

	// Second note (G6)
	n2 := NewOscillator(1567.98, completeCueNoteDuration, WaveSine, rate)
	n2Shaped := NewEnvelope(n2, completeCueNoteDuration, completeCueAttack, completeCueRelease, rate)

	sequence := beep.Seq(n1Shaped, n2Shaped)

	vol := cfg.CueVolumes[CueComplete] * cfg.MasterVolume
	return newVolume(sequence, vol)
}

// GetCueStreamer returns the generated streamer for the given cue
func GetCueStreamer(cue Cue, cfg *Config) beep.Streamer {
	switch cue {
	case CueStart:
		return CreateStartCue(cfg)
	case CueStep:
		return CreateStepCue(cfg)
	case CueReverse:
		return CreateReverseCue(cfg)
	case CueComplete:
		return CreateCompleteCue(cfg)
	default:
		return nil
	}
}
