// SPDX-License-Identifier: EPL-2.0

// Package engine orchestrates the rendering pipeline.
//
// A Song flows through five stages in order: structural validation,
// speech synthesis (optional, external collaborator), pitch correction,
// crossfade connection, and mastering. Words are independent until the
// connect stage, so synthesis and correction run on a bounded worker
// pool with a barrier before connection starts. Connection is sequential
// within a track but parallel across tracks.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/RerangeZ/florence/audio"
	"github.com/RerangeZ/florence/config"
	"github.com/RerangeZ/florence/connect"
	"github.com/RerangeZ/florence/mastering"
	"github.com/RerangeZ/florence/pitch"
	"github.com/RerangeZ/florence/speech"
	"github.com/RerangeZ/florence/timeline"
)

var ErrNoAudio = errors.New("no track produced audio")

// Engine renders songs with a fixed parameter set. It is safe for
// concurrent Render calls as long as each call gets its own Song.
type Engine struct {
	rate    int
	workers int

	corrector *pitch.Corrector
	connector connect.Connector
	masterer  mastering.Masterer
	synth     speech.Synthesizer

	log *slog.Logger
}

// New assembles an engine from the configuration. synth may be nil, in
// which case every word must arrive with its Raw buffer already set. A
// nil log falls back to slog.Default.
func New(cfg *config.Config, synth speech.Synthesizer, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}

	workers := cfg.Engine.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	vocoder := &pitch.Vocoder{
		FramePeriod:      cfg.Pitch.FramePeriodMs,
		MinF0:            cfg.Pitch.MinF0,
		MaxF0:            cfg.Pitch.MaxF0,
		VoicingThreshold: 0.3,
	}
	fallback := &pitch.Resample{ReferenceHz: cfg.Pitch.ReferenceHz}

	return &Engine{
		rate:      cfg.Engine.SampleRate,
		workers:   workers,
		corrector: pitch.NewCorrector(vocoder, fallback, log),
		connector: connect.Connector{
			Window:   cfg.Connect.WindowSeconds,
			MaxRatio: cfg.Connect.OverlapRatio,
		},
		masterer: mastering.Masterer{
			Threshold: float32(cfg.Mastering.LimiterThreshold),
			KneeRatio: float32(cfg.Mastering.LimiterKnee),
			TargetRMS: cfg.Mastering.TargetRMS,
			MaxGain:   cfg.Mastering.MaxGain,
		},
		synth: synth,
		log:   log,
	}
}

// Render runs the full pipeline on song and returns the mastered output.
// Intermediate products (Raw, Corrected, Connected, Mixed, Rendered) are
// written into the song as each stage completes.
func (e *Engine) Render(ctx context.Context, song *timeline.Song) (*audio.Buffer, error) {
	if err := timeline.Validate(song); err != nil {
		return nil, fmt.Errorf("validating song: %w", err)
	}

	words := song.Words()
	e.log.Info("rendering song", "name", song.Name,
		"tracks", len(song.Tracks), "words", len(words))

	if e.synth != nil {
		if err := e.synthesize(ctx, words); err != nil {
			return nil, err
		}
	}

	if err := e.correct(ctx, words); err != nil {
		return nil, err
	}

	if err := e.connect(ctx, song.Tracks); err != nil {
		return nil, err
	}

	out, err := e.master(song)
	if err != nil {
		return nil, err
	}

	song.Rendered = out
	e.log.Info("render complete", "name", song.Name,
		"samples", out.Len(), "duration", out.Duration())
	return out, nil
}

// synthesize fills Raw for every word that does not already have audio.
// Synthesis failures are fatal: a missing word would silently shorten
// the song.
func (e *Engine) synthesize(ctx context.Context, words []*timeline.Word) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, w := range words {
		w := w
		if w.Raw != nil || w.Text == "" {
			continue
		}
		g.Go(func() error {
			buf, err := e.synth.Synthesize(ctx, w.Text)
			if err != nil {
				return fmt.Errorf("synthesizing %q: %w", w.Text, err)
			}
			w.Raw = buf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	e.log.Info("speech synthesis complete",
		"engine", e.synth.Name(), "words", len(words))
	return nil
}

// correct pitch-shifts every word onto its target frequency. The
// corrector absorbs per-word quality degradation, so the only error out
// of this stage is cancellation.
func (e *Engine) correct(ctx context.Context, words []*timeline.Word) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, w := range words {
		w := w
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w.Corrected = e.corrector.Correct(w.Raw, w.Pitch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("pitch correction: %w", err)
	}

	e.log.Info("pitch correction complete", "words", len(words))
	return nil
}

// connect joins words into sections and sections into track buffers.
// Tracks are independent; each runs on its own goroutine.
func (e *Engine) connect(ctx context.Context, tracks []*timeline.Track) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, tr := range tracks {
		tr := tr
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, sec := range tr.Sections {
				sec.Connected = e.connector.Words(sec.Words)
			}
			tr.Mixed = e.connector.Sections(tr.Sections)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("connecting segments: %w", err)
	}

	e.log.Info("segment connection complete", "tracks", len(tracks))
	return nil
}

// master mixes the tracks and applies the dynamics chain.
func (e *Engine) master(song *timeline.Song) (*audio.Buffer, error) {
	mix := mastering.Mix(song.Tracks, e.rate)
	if mix == nil {
		return nil, ErrNoAudio
	}

	out := e.masterer.Master(mix)
	e.log.Info("mastering complete", "peak", out.Peak(), "rms", out.RMS())
	return out, nil
}
