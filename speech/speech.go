// SPDX-License-Identifier: EPL-2.0

// Package speech produces raw spoken audio for lyric text.
//
// The pipeline consumes speech as opaque mono buffers; where that speech
// comes from is a capability behind the Synthesizer interface. Three
// backends exist:
//
//   - espeak: invokes the espeak-ng binary and decodes its WAV output
//   - say: invokes the macOS speech command and decodes its AIFF output
//   - bank: looks up pre-recorded word audio files in a directory
//
// Detect probes availability once at startup and resolves a single
// backend by priority. Selection never happens in the per-word hot path.
package speech

import (
	"context"
	"errors"

	"github.com/RerangeZ/florence/audio"
	"github.com/RerangeZ/florence/formats/aiff"
	"github.com/RerangeZ/florence/formats/mp3"
	"github.com/RerangeZ/florence/formats/vorbis"
	"github.com/RerangeZ/florence/formats/wav"
)

var (
	ErrNoEngine  = errors.New("no speech engine available")
	ErrBadEngine = errors.New("unknown speech engine")
)

// Synthesizer converts lyric text into a mono buffer at the pipeline
// sample rate. Implementations own decoding, mixdown and resampling of
// whatever their backend emits.
type Synthesizer interface {
	// Synthesize renders text as speech. The returned buffer is mono at
	// the rate the synthesizer was constructed with.
	Synthesize(ctx context.Context, text string) (*audio.Buffer, error)

	// Name identifies the backend for logging.
	Name() string

	// Close releases any resources.
	Close() error
}

// Formats returns a registry with every decoder the speech backends can
// encounter: WAV from espeak, AIFF from say, and any of the four for
// sample-bank recordings.
func Formats() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	return r
}
