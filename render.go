// SPDX-License-Identifier: EPL-2.0

package florence

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/RerangeZ/florence/audio"
	"github.com/RerangeZ/florence/config"
	"github.com/RerangeZ/florence/engine"
	"github.com/RerangeZ/florence/formats/wav"
	"github.com/RerangeZ/florence/mastering"
	"github.com/RerangeZ/florence/speech"
	"github.com/RerangeZ/florence/timeline"
)

// Render runs the full pipeline on song with an auto-detected speech
// backend and returns the mastered mono buffer. Words that already carry
// raw audio are rendered as-is; if every word does, no backend is needed
// and detection failures are ignored.
func Render(ctx context.Context, cfg *config.Config, song *timeline.Song) (*audio.Buffer, error) {
	synth, err := speech.Detect(cfg.Engine.SampleRate,
		cfg.Speech.Engine, cfg.Speech.Voice, cfg.Speech.BankDir)
	if err != nil {
		if needsSynthesis(song) {
			return nil, fmt.Errorf("selecting speech backend: %w", err)
		}
		synth = nil
	}
	if synth != nil {
		defer synth.Close()
	}

	return engine.New(cfg, synth, slog.Default()).Render(ctx, song)
}

// RenderToWAV renders song and writes the result to w as mono 16-bit
// PCM WAV at the configured sample rate.
func RenderToWAV(ctx context.Context, cfg *config.Config, song *timeline.Song, w io.Writer) error {
	buf, err := Render(ctx, cfg, song)
	if err != nil {
		return err
	}

	if err := wav.WriteWAV16(w, buf.Rate, mastering.Quantize(buf)); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}
	return nil
}

func needsSynthesis(song *timeline.Song) bool {
	for _, w := range song.Words() {
		if w.Raw == nil && w.Text != "" {
			return true
		}
	}
	return false
}
