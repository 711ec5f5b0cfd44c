// SPDX-License-Identifier: EPL-2.0

// Package mastering turns per-track audio into a bounded, normalized
// output signal: summation mix, stateless soft-knee limiting, RMS
// normalization with a gain cap, and 16-bit quantization.
package mastering

import (
	"github.com/RerangeZ/florence/audio"
	"github.com/RerangeZ/florence/timeline"
	"github.com/RerangeZ/florence/utils"
)

// Mix sums all track buffers sample-by-sample, aligned at sample 0. The
// output spans the longest track; shorter tracks fall silent at their
// tail. Tracks without audio contribute nothing. Returns nil when no
// track has audio.
func Mix(tracks []*timeline.Track, rate int) *audio.Buffer {
	maxLen := 0
	for _, tr := range tracks {
		if tr.Mixed.Len() > maxLen {
			maxLen = tr.Mixed.Len()
		}
	}
	if maxLen == 0 {
		return nil
	}

	out := audio.NewBuffer(rate, maxLen)
	for _, tr := range tracks {
		if tr.Mixed.Len() == 0 {
			continue
		}
		for i, s := range tr.Mixed.Data {
			out.Data[i] += s
		}
	}
	return out
}

// Masterer holds the dynamics and normalization parameters.
type Masterer struct {
	// Threshold is the soft-knee onset; excursions above it are
	// compressed by KneeRatio.
	Threshold float32
	KneeRatio float32
	// TargetRMS is the loudness normalization target; MaxGain caps the
	// applied gain so a near-silent noise floor is not amplified into
	// audible hiss.
	TargetRMS float64
	MaxGain   float64
}

// NewMasterer returns a Masterer with the engine defaults: 0.95/20 soft
// knee, 0.1 RMS target, 4.0 gain cap.
func NewMasterer() Masterer {
	return Masterer{Threshold: 0.95, KneeRatio: 20, TargetRMS: 0.1, MaxGain: 4.0}
}

// Limit applies the single-breakpoint soft knee to each sample
// independently: s -> sign(s) * (threshold + (|s|-threshold)/knee) above
// the threshold. No lookahead and no attack/release state, so the result
// is deterministic per sample.
func (m Masterer) Limit(buf *audio.Buffer) *audio.Buffer {
	out := audio.NewBuffer(buf.Rate, buf.Len())
	for i, s := range buf.Data {
		mag := s
		sign := float32(1)
		if mag < 0 {
			mag = -mag
			sign = -1
		}
		if mag > m.Threshold {
			mag = m.Threshold + (mag-m.Threshold)/m.KneeRatio
		}
		out.Data[i] = sign * mag
	}
	return out
}

// Normalize scales the buffer toward TargetRMS, with the gain capped at
// MaxGain. Silence passes through unchanged.
func (m Masterer) Normalize(buf *audio.Buffer) *audio.Buffer {
	out := buf.Clone()
	rms := out.RMS()
	if rms == 0 {
		return out
	}

	gain := m.TargetRMS / rms
	if gain > m.MaxGain {
		gain = m.MaxGain
	}
	return out.Scale(float32(gain))
}

// Master runs the full dynamics chain: soft limit, then normalize.
func (m Masterer) Master(buf *audio.Buffer) *audio.Buffer {
	return m.Normalize(m.Limit(buf))
}

// Quantize hard-clips the buffer to [-1, 1] and encodes signed 16-bit
// PCM samples. This is the only place the pipeline fixes a sample format;
// everything upstream is floating point.
func Quantize(buf *audio.Buffer) []int16 {
	out := make([]int16, buf.Len())
	for i, s := range buf.Data {
		out[i] = utils.Float32ToInt16(s)
	}
	return out
}
