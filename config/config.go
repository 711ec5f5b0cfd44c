// SPDX-License-Identifier: EPL-2.0

// Package config loads and validates the engine configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for the rendering engine. Every knob
// has a documented default; a zero-config run renders with the same
// parameters the engine was tuned with.
type Config struct {
	Engine    EngineConfig    `mapstructure:"engine"`
	Pitch     PitchConfig     `mapstructure:"pitch"`
	Connect   ConnectConfig   `mapstructure:"connect"`
	Mastering MasteringConfig `mapstructure:"mastering"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// EngineConfig holds pipeline-wide settings.
type EngineConfig struct {
	// SampleRate is the single rate every stage operates at, in Hz.
	SampleRate int `mapstructure:"sample_rate"`
	// Workers bounds the pitch-correction worker pool; 0 means one
	// worker per CPU.
	Workers int `mapstructure:"workers"`
}

// PitchConfig holds the vocoder analysis parameters.
type PitchConfig struct {
	FramePeriodMs float64 `mapstructure:"frame_period_ms"`
	MinF0         float64 `mapstructure:"min_f0"`
	MaxF0         float64 `mapstructure:"max_f0"`
	// ReferenceHz is the assumed speech pitch for the fallback shifter.
	ReferenceHz float64 `mapstructure:"reference_hz"`
}

// ConnectConfig holds the crossfade parameters.
type ConnectConfig struct {
	WindowSeconds float64 `mapstructure:"window_seconds"`
	OverlapRatio  float64 `mapstructure:"overlap_ratio"`
}

// MasteringConfig holds the limiter and normalization parameters.
type MasteringConfig struct {
	LimiterThreshold float64 `mapstructure:"limiter_threshold"`
	LimiterKnee      float64 `mapstructure:"limiter_knee"`
	TargetRMS        float64 `mapstructure:"target_rms"`
	MaxGain          float64 `mapstructure:"max_gain"`
}

// SpeechConfig selects and configures the speech synthesis backend.
type SpeechConfig struct {
	// Engine forces a backend ("espeak", "say", "bank"); empty selects
	// the best available by priority.
	Engine string `mapstructure:"engine"`
	Voice  string `mapstructure:"voice"`
	// BankDir points the sample-bank backend at a directory of
	// pre-recorded word audio files.
	BankDir string `mapstructure:"bank_dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and
// defaults. If configFile is non-empty it is used directly; otherwise the
// standard search order applies: ./florence.yaml, ./configs/florence.yaml,
// /etc/florence/florence.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("engine.sample_rate", 22050)
	v.SetDefault("engine.workers", 0)
	v.SetDefault("pitch.frame_period_ms", 5.0)
	v.SetDefault("pitch.min_f0", 40.0)
	v.SetDefault("pitch.max_f0", 800.0)
	v.SetDefault("pitch.reference_hz", 150.0)
	v.SetDefault("connect.window_seconds", 0.02)
	v.SetDefault("connect.overlap_ratio", 0.25)
	v.SetDefault("mastering.limiter_threshold", 0.95)
	v.SetDefault("mastering.limiter_knee", 20.0)
	v.SetDefault("mastering.target_rms", 0.1)
	v.SetDefault("mastering.max_gain", 4.0)
	v.SetDefault("speech.engine", "")
	v.SetDefault("speech.voice", "")
	v.SetDefault("speech.bank_dir", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("florence")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/florence")
	}

	v.SetEnvPrefix("FLORENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config file is fine; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Engine.SampleRate <= 0 {
		return fmt.Errorf("engine.sample_rate must be positive, got %d", c.Engine.SampleRate)
	}
	if c.Pitch.FramePeriodMs <= 0 {
		return fmt.Errorf("pitch.frame_period_ms must be positive, got %v", c.Pitch.FramePeriodMs)
	}
	if c.Pitch.MinF0 <= 0 || c.Pitch.MaxF0 <= c.Pitch.MinF0 {
		return fmt.Errorf("pitch f0 range [%v, %v] is invalid", c.Pitch.MinF0, c.Pitch.MaxF0)
	}
	if c.Connect.OverlapRatio < 0 || c.Connect.OverlapRatio > 1 {
		return fmt.Errorf("connect.overlap_ratio must be in [0, 1], got %v", c.Connect.OverlapRatio)
	}
	if c.Mastering.LimiterKnee <= 0 {
		return fmt.Errorf("mastering.limiter_knee must be positive, got %v", c.Mastering.LimiterKnee)
	}
	return nil
}

// SetupLogging installs the default slog logger per the config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
