// SPDX-License-Identifier: EPL-2.0

package timeline

import "github.com/RerangeZ/florence/audio"

// Span is a note's time extent in integer milliseconds, relative to the
// enclosing section's start at 0. Start must be strictly less than End.
type Span struct {
	Start int
	End   int
}

// Duration returns the span length in milliseconds.
func (s Span) Duration() int { return s.End - s.Start }

// Word is the leaf of the model: one note with its lyric text and target
// fundamental frequency. Raw is populated by the speech-synthesis
// collaborator; Corrected is written exactly once by the pitch stage.
type Word struct {
	Pitch float64 // target fundamental frequency in Hz, > 0
	Span  Span
	Text  string

	Raw       *audio.Buffer
	Corrected *audio.Buffer
}

// Section is an ordered run of non-overlapping words. Start is the
// section's offset from the song beginning in milliseconds. Connected is
// written by the connect stage.
type Section struct {
	Words []*Word
	Start int

	Connected *audio.Buffer
}

// Track is an ordered run of sections. Mixed is written by the connect
// stage after all sections are joined.
type Track struct {
	Sections []*Section

	Mixed *audio.Buffer
}

// Song is the root of the model. Rendered is written by the mastering
// stage. Earlier stages never delete upstream buffers, so every
// intermediate product stays inspectable after a run.
type Song struct {
	Name   string
	Tracks []*Track

	Rendered *audio.Buffer
}

// Words returns every word of the song in playback order, tracks first.
func (s *Song) Words() []*Word {
	var words []*Word
	for _, tr := range s.Tracks {
		for _, sec := range tr.Sections {
			words = append(words, sec.Words...)
		}
	}
	return words
}
