package audio

import (
	"os"
	"testing"
)

// TestDefaultConfig verifies default configuration
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("Expected non-nil default config")
	}

	if cfg.Enabled {
		t.Error("Expected default config to have Enabled=false")
	}

	if cfg.MasterVolume != 0.5 {
		t.Errorf("Expected default master volume 0.5, got %f", cfg.MasterVolume)
	}

	if cfg.SampleRate != 44100 {
		t.Errorf("Expected default sample rate 44100, got %d", cfg.SampleRate)
	}

	expectedVolumes := map[Cue]float64{
		CueStart:    0.8,
		CueStep:     0.5,
		CueReverse:  0.7,
		CueComplete: 1.0,
	}

	for cue, expectedVol := range expectedVolumes {
		if vol, ok := cfg.CueVolumes[cue]; !ok {
			t.Errorf("Expected volume for cue %d to be set", cue)
		} else if vol != expectedVol {
			t.Errorf("Expected volume %f for cue %d, got %f", expectedVol, cue, vol)
		}
	}
}

// TestLoadConfigDefaults verifies loading with no env vars
func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("KINETIC_AUDIO_ENABLED")
	os.Unsetenv("KINETIC_MASTER_VOLUME")
	os.Unsetenv("KINETIC_CUE_VOLUMES")
	os.Unsetenv("KINETIC_SAMPLE_RATE")

	cfg := LoadConfig()

	if cfg == nil {
		t.Fatal("Expected non-nil config")
	}

	defaultCfg := DefaultConfig()

	if cfg.Enabled != defaultCfg.Enabled {
		t.Errorf("Expected Enabled=%v, got %v", defaultCfg.Enabled, cfg.Enabled)
	}

	if cfg.MasterVolume != defaultCfg.MasterVolume {
		t.Errorf("Expected MasterVolume=%f, got %f", defaultCfg.MasterVolume, cfg.MasterVolume)
	}

	if cfg.SampleRate != defaultCfg.SampleRate {
		t.Errorf("Expected SampleRate=%d, got %d", defaultCfg.SampleRate, cfg.SampleRate)
	}
}

// TestLoadConfigEnabled verifies loading enabled flag
func TestLoadConfigEnabled(t *testing.T) {
	defer os.Unsetenv("KINETIC_AUDIO_ENABLED")

	testCases := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"false", false},
		{"1", true},
		{"0", false},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			os.Setenv("KINETIC_AUDIO_ENABLED", tc.value)
			cfg := LoadConfig()

			if cfg.Enabled != tc.expected {
				t.Errorf("Expected Enabled=%v for value %s, got %v", tc.expected, tc.value, cfg.Enabled)
			}
		})
	}
}

// TestLoadConfigMasterVolume verifies loading master volume
func TestLoadConfigMasterVolume(t *testing.T) {
	defer os.Unsetenv("KINETIC_MASTER_VOLUME")

	testCases := []struct {
		value    string
		expected float64
	}{
		{"0", 0.0},
		{"50", 0.5},
		{"100", 1.0},
		{"75", 0.75},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			os.Setenv("KINETIC_MASTER_VOLUME", tc.value)
			cfg := LoadConfig()

			if cfg.MasterVolume != tc.expected {
				t.Errorf("Expected MasterVolume=%f for value %s, got %f", tc.expected, tc.value, cfg.MasterVolume)
			}
		})
	}
}

// TestLoadConfigMasterVolumeClamp verifies volume clamping
func TestLoadConfigMasterVolumeClamp(t *testing.T) {
	defer os.Unsetenv("KINETIC_MASTER_VOLUME")

	testCases := []struct {
		value    string
		expected float64
	}{
		{"-25", 0.0},
		{"125", 1.0},
		{"-100", 0.0},
		{"250", 1.0},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			os.Setenv("KINETIC_MASTER_VOLUME", tc.value)
			cfg := LoadConfig()

			if cfg.MasterVolume != tc.expected {
				t.Errorf("Expected MasterVolume=%f for value %s (clamped), got %f", tc.expected, tc.value, cfg.MasterVolume)
			}
		})
	}
}

// TestLoadConfigSampleRate verifies loading sample rate
func TestLoadConfigSampleRate(t *testing.T) {
	defer os.Unsetenv("KINETIC_SAMPLE_RATE")

	testCases := []struct {
		value    string
		expected int
	}{
		{"22050", 22050},
		{"44100", 44100},
		{"48000", 48000},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			os.Setenv("KINETIC_SAMPLE_RATE", tc.value)
			cfg := LoadConfig()

			if cfg.SampleRate != tc.expected {
				t.Errorf("Expected SampleRate=%d for value %s, got %d", tc.expected, tc.value, cfg.SampleRate)
			}
		})
	}
}

// TestLoadConfigSampleRateInvalid verifies handling of invalid sample rate
func TestLoadConfigSampleRateInvalid(t *testing.T) {
	defer os.Unsetenv("KINETIC_SAMPLE_RATE")

	defaultRate := DefaultConfig().SampleRate

	testCases := []string{
		"invalid",
		"-1000",
		"0",
		"",
	}

	for _, value := range testCases {
		t.Run(value, func(t *testing.T) {
			os.Setenv("KINETIC_SAMPLE_RATE", value)
			cfg := LoadConfig()

			if cfg.SampleRate != defaultRate {
				t.Errorf("Expected default SampleRate=%d for invalid value %s, got %d", defaultRate, value, cfg.SampleRate)
			}
		})
	}
}

// TestLoadConfigCueVolumes verifies loading per-cue volumes
func TestLoadConfigCueVolumes(t *testing.T) {
	defer os.Unsetenv("KINETIC_CUE_VOLUMES")

	jsonValue := `{"start": 0.9, "step": 0.8, "reverse": 0.7, "complete": 0.6}`
	os.Setenv("KINETIC_CUE_VOLUMES", jsonValue)

	cfg := LoadConfig()

	expectedVolumes := map[Cue]float64{
		CueStart:    0.9,
		CueStep:     0.8,
		CueReverse:  0.7,
		CueComplete: 0.6,
	}

	for cue, expectedVol := range expectedVolumes {
		if vol, ok := cfg.CueVolumes[cue]; !ok {
			t.Errorf("Expected volume for cue %d to be set", cue)
		} else if vol != expectedVol {
			t.Errorf("Expected volume %f for cue %d, got %f", expectedVol, cue, vol)
		}
	}
}

// TestLoadConfigCueVolumesInvalid verifies handling of invalid JSON
func TestLoadConfigCueVolumesInvalid(t *testing.T) {
	defer os.Unsetenv("KINETIC_CUE_VOLUMES")

	os.Setenv("KINETIC_CUE_VOLUMES", "invalid json")

	cfg := LoadConfig()
	defaultCfg := DefaultConfig()

	for cue, expectedVol := range defaultCfg.CueVolumes {
		if vol, ok := cfg.CueVolumes[cue]; !ok {
			t.Errorf("Expected volume for cue %d to be set", cue)
		} else if vol != expectedVol {
			t.Errorf("Expected default volume %f for cue %d, got %f", expectedVol, cue, vol)
		}
	}
}
