package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// TestOscillatorSine verifies sine wave generation
func TestOscillatorSine(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 100 * time.Millisecond
	freq := 440.0

	osc := NewOscillator(freq, duration, WaveSine, rate)

	if osc == nil {
		t.Fatal("Expected non-nil oscillator")
	}

	// Stream some samples
	samples := make([][2]float64, 100)
	n, ok := osc.Stream(samples)

	if !ok {
		t.Error("Expected stream to return ok=true")
	}

	if n != 100 {
		t.Errorf("Expected to stream 100 samples, got %d", n)
	}

	// Verify samples are within valid range [-1, 1]
	for i := 0; i < n; i++ {
		if samples[i][0] < -1.0 || samples[i][0] > 1.0 {
			t.Errorf("Sample %d out of range: %f", i, samples[i][0])
		}
		if samples[i][1] < -1.0 || samples[i][1] > 1.0 {
			t.Errorf("Sample %d out of range: %f", i, samples[i][1])
		}
	}

	if osc.Err() != nil {
		t.Errorf("Expected no error, got: %v", osc.Err())
	}
}

// TestOscillatorSquare verifies square wave generation
func TestOscillatorSquare(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 50 * time.Millisecond

	osc := NewOscillator(220.0, duration, WaveSquare, rate)

	samples := make([][2]float64, 50)
	n, ok := osc.Stream(samples)

	if !ok {
		t.Error("Expected stream to return ok=true")
	}

	if n != 50 {
		t.Errorf("Expected to stream 50 samples, got %d", n)
	}

	// Square wave should only have values of -1.0 or 1.0
	for i := 0; i < n; i++ {
		val := samples[i][0]
		if val != -1.0 && val != 1.0 {
			t.Errorf("Square wave sample %d should be -1.0 or 1.0, got %f", i, val)
		}
	}
}

// TestOscillatorSaw verifies sawtooth wave generation
func TestOscillatorSaw(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 50 * time.Millisecond

	osc := NewOscillator(110.0, duration, WaveSaw, rate)

	samples := make([][2]float64, 50)
	n, ok := osc.Stream(samples)

	if !ok {
		t.Error("Expected stream to return ok=true")
	}

	if n != 50 {
		t.Errorf("Expected to stream 50 samples, got %d", n)
	}

	for i := 0; i < n; i++ {
		val := samples[i][0]
		if val < -1.0 || val > 1.0 {
			t.Errorf("Sawtooth sample %d out of range: %f", i, val)
		}
	}
}

// TestOscillatorNoise verifies noise generation
func TestOscillatorNoise(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 50 * time.Millisecond

	osc := NewOscillator(0, duration, WaveNoise, rate)

	samples := make([][2]float64, 50)
	n, ok := osc.Stream(samples)

	if !ok {
		t.Error("Expected stream to return ok=true")
	}

	for i := 0; i < n; i++ {
		val := samples[i][0]
		if val < -1.0 || val > 1.0 {
			t.Errorf("Noise sample %d out of range: %f", i, val)
		}
	}

	// Verify samples are not all the same (randomness check)
	allSame := true
	firstVal := samples[0][0]
	for i := 1; i < n; i++ {
		if samples[i][0] != firstVal {
			allSame = false
			break
		}
	}
	if allSame {
		t.Error("Expected noise samples to vary, but all were the same")
	}
}

// TestOscillatorDuration verifies oscillator respects duration
func TestOscillatorDuration(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 10 * time.Millisecond
	expectedSamples := rate.N(duration)

	osc := NewOscillator(440.0, duration, WaveSine, rate)

	// Request more samples than duration
	samples := make([][2]float64, expectedSamples*2)
	n, _ := osc.Stream(samples)

	if n > expectedSamples {
		t.Errorf("Expected at most %d samples, got %d", expectedSamples, n)
	}

	// Second stream should return ok=false (finished)
	samples2 := make([][2]float64, 10)
	n2, ok2 := osc.Stream(samples2)

	if ok2 {
		t.Error("Expected second stream to return ok=false after duration exceeded")
	}

	if n2 != 0 {
		t.Errorf("Expected 0 samples after duration, got %d", n2)
	}
}

// TestEnvelopeAttackRampsUp verifies the attack phase ramps amplitude up
func TestEnvelopeAttackRampsUp(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 100 * time.Millisecond
	attack := 50 * time.Millisecond
	release := 10 * time.Millisecond

	// Use square wave for consistent amplitude
	osc := NewOscillator(100.0, duration, WaveSquare, rate)
	env := NewEnvelope(osc, duration, attack, release, rate)

	attackSamples := rate.N(attack)
	samples := make([][2]float64, attackSamples)
	n, ok := env.Stream(samples)

	if !ok {
		t.Error("Expected envelope to stream successfully")
	}

	firstAmp := math.Abs(samples[0][0])
	lastAmp := math.Abs(samples[n-1][0])

	if firstAmp >= lastAmp {
		t.Errorf("Expected attack phase to ramp up, but first=%f >= last=%f", firstAmp, lastAmp)
	}
}

// TestEnvelopeReleaseFadesOut verifies the release phase ramps amplitude down
func TestEnvelopeReleaseFadesOut(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 100 * time.Millisecond
	attack := 5 * time.Millisecond
	release := 40 * time.Millisecond

	osc := NewOscillator(100.0, duration, WaveSquare, rate)
	env := NewEnvelope(osc, duration, attack, release, rate)

	samples := make([][2]float64, rate.N(duration))
	n, _ := env.Stream(samples)

	if n != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), n)
	}

	// Mid-stream sits in the sustain phase at full amplitude
	midAmp := math.Abs(samples[n/2][0])
	lastAmp := math.Abs(samples[n-1][0])

	if lastAmp >= midAmp {
		t.Errorf("Expected release phase to fade out, but last=%f >= mid=%f", lastAmp, midAmp)
	}
}

// TestGetCueStreamer verifies cue streamer retrieval
func TestGetCueStreamer(t *testing.T) {
	cfg := DefaultConfig()

	testCases := []struct {
		cue  Cue
		name string
	}{
		{CueStart, "Start"},
		{CueStep, "Step"},
		{CueReverse, "Reverse"},
		{CueComplete, "Complete"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := GetCueStreamer(tc.cue, cfg)
			if s == nil {
				t.Fatalf("Expected non-nil streamer for %s", tc.name)
			}

			samples := make([][2]float64, 100)
			n, ok := s.Stream(samples)
			if !ok {
				t.Errorf("Expected %s cue to stream successfully", tc.name)
			}
			if n == 0 {
				t.Errorf("Expected %s cue to produce samples", tc.name)
			}
		})
	}
}

// TestGetCueStreamerInvalid verifies handling of unknown cues
func TestGetCueStreamerInvalid(t *testing.T) {
	cfg := DefaultConfig()
	s := GetCueStreamer(Cue(999), cfg)

	if s != nil {
		t.Error("Expected nil streamer for invalid cue")
	}
}

// TestCompleteCueChimesTwoNotes verifies the complete cue plays both notes
func TestCompleteCueChimesTwoNotes(t *testing.T) {
	cfg := DefaultConfig()
	rate := beep.SampleRate(cfg.SampleRate)

	s := CreateCompleteCue(cfg)

	total := 0
	buf := make([][2]float64, 512)
	for i := 0; i < 1000; i++ {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
	}

	want := 2 * rate.N(completeCueNoteDuration)
	if total != want {
		t.Errorf("Expected chime to span %d samples across both notes, got %d", want, total)
	}
}

// TestCueVolumeZeroSilent verifies zero master volume silences cues
func TestCueVolumeZeroSilent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MasterVolume = 0.0

	s := CreateStartCue(cfg)

	samples := make([][2]float64, 100)
	n, ok := s.Stream(samples)

	if !ok {
		t.Error("Expected silenced cue to still stream")
	}

	maxAmp := 0.0
	for i := 0; i < n; i++ {
		if amp := math.Abs(samples[i][0]); amp > maxAmp {
			maxAmp = amp
		}
	}

	if maxAmp > 0.01 {
		t.Errorf("Expected near-zero amplitude for zero volume, got max %f", maxAmp)
	}
}

// TestNewVolumeZero verifies zero volume handling
func TestNewVolumeZero(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440.0, 50*time.Millisecond, WaveSine, rate)

	vol := newVolume(osc, 0.0)

	if vol == nil {
		t.Fatal("Expected non-nil volume effect")
	}

	samples := make([][2]float64, 100)
	n, ok := vol.Stream(samples)

	if !ok {
		t.Error("Expected volume effect to stream")
	}

	if n == 0 {
		t.Error("Expected volume effect to produce samples")
	}
}
