// SPDX-License-Identifier: EPL-2.0

// Package connect joins processed speech segments into continuous audio.
//
// Adjacent segments are blended with a linear crossfade: the tail of the
// first is faded out while the head of the second fades in, and the two
// windows sum inside a single overlap region. Linear complementary fades
// sum to unity gain at the crossfade center, which removes boundary
// clicks without an energy dip, and the fixed overlap keeps output length
// predictable across many joins.
package connect

import (
	"github.com/RerangeZ/florence/audio"
	"github.com/RerangeZ/florence/timeline"
)

// CrossfadeJoin concatenates a and b with a linear crossfade of up to
// overlapSeconds. The overlap never exceeds either input; with no usable
// overlap the result is a plain concatenation. Output length is
// len(a) + len(b) - overlap. Inputs are not mutated.
func CrossfadeJoin(a, b *audio.Buffer, overlapSeconds float64) *audio.Buffer {
	// The epsilon absorbs float noise from seconds<->samples round trips
	// without changing the floor semantics for real durations.
	overlap := int(overlapSeconds*float64(a.Rate) + 1e-9)
	if overlap > a.Len() {
		overlap = a.Len()
	}
	if overlap > b.Len() {
		overlap = b.Len()
	}

	if overlap <= 0 {
		out := audio.NewBuffer(a.Rate, a.Len()+b.Len())
		copy(out.Data, a.Data)
		copy(out.Data[a.Len():], b.Data)
		return out
	}

	out := audio.NewBuffer(a.Rate, a.Len()+b.Len()-overlap)
	copy(out.Data, a.Data[:a.Len()-overlap])

	join := a.Len() - overlap
	for i := 0; i < overlap; i++ {
		var t float32
		if overlap > 1 {
			t = float32(i) / float32(overlap-1)
		}
		out.Data[join+i] = a.Data[join+i]*(1-t) + b.Data[i]*t
	}

	copy(out.Data[a.Len():], b.Data[overlap:])
	return out
}

// Connector folds CrossfadeJoin over the timeline, words to sections and
// sections to tracks, with one overlap policy for both levels.
type Connector struct {
	// Window is the crossfade duration in seconds.
	Window float64
	// MaxRatio caps the fade at this fraction of the shorter segment, so
	// a short syllable is never consumed whole by its neighbors' fades.
	MaxRatio float64
}

// NewConnector returns a Connector with the engine defaults: a 20 ms
// window capped at 25% of the shorter segment.
func NewConnector() Connector {
	return Connector{Window: 0.02, MaxRatio: 0.25}
}

// overlapFor limits the configured window against the ratio cap.
func (c Connector) overlapFor(a, b *audio.Buffer) float64 {
	shorter := a.Len()
	if b.Len() < shorter {
		shorter = b.Len()
	}
	limit := float64(int(c.MaxRatio*float64(shorter))) / float64(a.Rate)
	if c.Window < limit {
		return c.Window
	}
	return limit
}

// Words joins the corrected buffers of a section's words, in playback
// order, into one section buffer. Words without audio contribute nothing.
// The result is nil when no word produced audio, and the single buffer
// unchanged when only one did.
func (c Connector) Words(words []*timeline.Word) *audio.Buffer {
	var out *audio.Buffer
	for _, w := range words {
		if w.Corrected.Len() == 0 {
			continue
		}
		if out == nil {
			out = w.Corrected.Clone()
			continue
		}
		out = CrossfadeJoin(out, w.Corrected, c.overlapFor(out, w.Corrected))
	}
	return out
}

// Sections folds the connected section buffers of a track, left to right
// in score order, into one track buffer. Sections that never produced
// audio are skipped, not zero-padded. The fold is order-sensitive:
// swapping two differing sections changes the result.
func (c Connector) Sections(sections []*timeline.Section) *audio.Buffer {
	var out *audio.Buffer
	for _, sec := range sections {
		if sec.Connected.Len() == 0 {
			continue
		}
		if out == nil {
			out = sec.Connected.Clone()
			continue
		}
		out = CrossfadeJoin(out, sec.Connected, c.overlapFor(out, sec.Connected))
	}
	return out
}
