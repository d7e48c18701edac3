// Package audio synthesizes short feedback cues for motion lifecycle
// events. Cues are generated beep streamers (oscillator plus envelope)
// mixed into a shared speaker; no media files are decoded.
package audio

import (
	"encoding/json"
	"os"
	"strconv"
)

// Cue identifies one synthesized feedback sound
type Cue int

const (
	CueStart    Cue = iota // motion began moving
	CueStep                // sequence advanced a step
	CueReverse             // traversal turned around
	CueComplete            // run finished
	cueCount
)

// Config holds cue playback settings
type Config struct {
	Enabled      bool
	MasterVolume float64
	SampleRate   int
	CueVolumes   map[Cue]float64
}

// DefaultConfig returns playback defaults with cues disabled; callers
// opt in through LoadConfig or by flipping Enabled
func DefaultConfig() *Config {
	return &Config{
		Enabled:      false,
		MasterVolume: 0.5,
		SampleRate:   44100,
		CueVolumes: map[Cue]float64{
			CueStart:    0.8,
			CueStep:     0.5,
			CueReverse:  0.7,
			CueComplete: 1.0,
		},
	}
}

// LoadConfig builds a config from environment variables, falling back
// to defaults for unset or invalid values
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if enabled := os.Getenv("KINETIC_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume is 0-100, stored as 0.0-1.0
	if volume := os.Getenv("KINETIC_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = float64(val) / 100.0
			if cfg.MasterVolume < 0 {
				cfg.MasterVolume = 0
			}
			if cfg.MasterVolume > 1 {
				cfg.MasterVolume = 1
			}
		}
	}

	if cueVols := os.Getenv("KINETIC_CUE_VOLUMES"); cueVols != "" {
		var volumes map[string]float64
		if err := json.Unmarshal([]byte(cueVols), &volumes); err == nil {
			if v, ok := volumes["start"]; ok {
				cfg.CueVolumes[CueStart] = v
			}
			if v, ok := volumes["step"]; ok {
				cfg.CueVolumes[CueStep] = v
			}
			if v, ok := volumes["reverse"]; ok {
				cfg.CueVolumes[CueReverse] = v
			}
			if v, ok := volumes["complete"]; ok {
				cfg.CueVolumes[CueComplete] = v
			}
		}
	}

	if sampleRate := os.Getenv("KINETIC_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}
