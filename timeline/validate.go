// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"errors"
	"fmt"
)

// Structural violations. The score decoder is supposed to reject these
// before a song reaches the engine, but the engine re-checks eagerly at
// stage entry rather than mis-joining audio deep inside a loop.
var (
	ErrEmptySong        = errors.New("song has no tracks")
	ErrNonPositivePitch = errors.New("word target pitch must be positive")
	ErrInvalidSpan      = errors.New("word span start must precede end")
	ErrOverlappingWords = errors.New("adjacent words overlap in time")
)

// Validate checks the structural invariants the pipeline depends on:
// at least one track, every word with a positive target pitch and a
// well-formed span, and no overlap between consecutive words of a section.
// It returns the first violation found, wrapped with its position.
func Validate(song *Song) error {
	if song == nil || len(song.Tracks) == 0 {
		return ErrEmptySong
	}

	for ti, tr := range song.Tracks {
		for si, sec := range tr.Sections {
			for wi, w := range sec.Words {
				if w.Pitch <= 0 {
					return fmt.Errorf("track %d section %d word %d (%q): %w",
						ti, si, wi, w.Text, ErrNonPositivePitch)
				}
				if w.Span.Start >= w.Span.End {
					return fmt.Errorf("track %d section %d word %d (%q): %w",
						ti, si, wi, w.Text, ErrInvalidSpan)
				}
				if wi > 0 && sec.Words[wi-1].Span.End > w.Span.Start {
					return fmt.Errorf("track %d section %d words %d-%d: %w",
						ti, si, wi-1, wi, ErrOverlappingWords)
				}
			}
		}
	}

	return nil
}
