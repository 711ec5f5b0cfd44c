// SPDX-License-Identifier: EPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Engine.SampleRate != 22050 {
		t.Errorf("default sample_rate = %d, want 22050", cfg.Engine.SampleRate)
	}
	if cfg.Pitch.FramePeriodMs != 5.0 {
		t.Errorf("default frame_period_ms = %v, want 5.0", cfg.Pitch.FramePeriodMs)
	}
	if cfg.Pitch.MinF0 != 40.0 || cfg.Pitch.MaxF0 != 800.0 {
		t.Errorf("default f0 range = [%v, %v], want [40, 800]", cfg.Pitch.MinF0, cfg.Pitch.MaxF0)
	}
	if cfg.Connect.WindowSeconds != 0.02 || cfg.Connect.OverlapRatio != 0.25 {
		t.Errorf("default crossfade = %v/%v, want 0.02/0.25",
			cfg.Connect.WindowSeconds, cfg.Connect.OverlapRatio)
	}
	if cfg.Mastering.LimiterThreshold != 0.95 || cfg.Mastering.LimiterKnee != 20.0 {
		t.Errorf("default limiter = %v/%v, want 0.95/20",
			cfg.Mastering.LimiterThreshold, cfg.Mastering.LimiterKnee)
	}
	if cfg.Mastering.TargetRMS != 0.1 || cfg.Mastering.MaxGain != 4.0 {
		t.Errorf("default normalize = %v/%v, want 0.1/4",
			cfg.Mastering.TargetRMS, cfg.Mastering.MaxGain)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "florence.yaml")
	content := []byte(`
engine:
  sample_rate: 44100
speech:
  engine: espeak
  voice: en-us
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Engine.SampleRate != 44100 {
		t.Errorf("sample_rate = %d, want 44100", cfg.Engine.SampleRate)
	}
	if cfg.Speech.Engine != "espeak" || cfg.Speech.Voice != "en-us" {
		t.Errorf("speech = %q/%q, want espeak/en-us", cfg.Speech.Engine, cfg.Speech.Voice)
	}
	// Untouched keys keep defaults.
	if cfg.Mastering.TargetRMS != 0.1 {
		t.Errorf("target_rms = %v, want default 0.1", cfg.Mastering.TargetRMS)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"zero sample rate", "engine:\n  sample_rate: 0\n"},
		{"inverted f0 range", "pitch:\n  min_f0: 900\n"},
		{"ratio above one", "connect:\n  overlap_ratio: 1.5\n"},
		{"zero knee", "mastering:\n  limiter_knee: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			if _, err := Load(path); err == nil {
				t.Error("Load() accepted an invalid config")
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load("/nonexistent/florence.yaml"); err == nil {
		t.Error("Load() with an explicit missing file should fail")
	}
}
