// SPDX-License-Identifier: EPL-2.0

package pitch

import (
	"math"

	"github.com/RerangeZ/florence/audio"
)

// Resample is the fallback Shifter: a coarse time-domain pitch
// approximation. It resamples the segment by targetHz over a fixed
// reference pitch via index remapping, then tiles or truncates back to the
// input length. The result trades pitch accuracy for robustness: the
// whole path is index arithmetic and array copies, so it cannot fail the
// way vocoder analysis can.
type Resample struct {
	// ReferenceHz stands in for the segment's unknown fundamental
	// frequency. 150 Hz approximates an average speaking pitch.
	ReferenceHz float64
}

// NewResample returns the fallback shifter with the 150 Hz reference.
func NewResample() *Resample {
	return &Resample{ReferenceHz: 150.0}
}

// Shift never returns a non-nil error; the signature exists to satisfy
// Shifter.
func (r *Resample) Shift(buf *audio.Buffer, targetHz float64) (*audio.Buffer, error) {
	n := buf.Len()
	if n == 0 || buf.RMS() == 0 || targetHz <= 0 {
		return audio.NewBuffer(buf.Rate, n), nil
	}

	ratio := targetHz / r.ReferenceHz
	stretchedLen := int(float64(n) / ratio)
	if stretchedLen < 1 {
		stretchedLen = 1
	}

	stretched := make([]float32, stretchedLen)
	if stretchedLen == 1 {
		stretched[0] = buf.Data[0]
	} else {
		step := float64(n-1) / float64(stretchedLen-1)
		for i := range stretched {
			idx := int(math.Round(float64(i) * step))
			if idx >= n {
				idx = n - 1
			}
			stretched[i] = buf.Data[idx]
		}
	}

	out := audio.NewBuffer(buf.Rate, n)
	if stretchedLen >= n {
		copy(out.Data, stretched[:n])
		return out, nil
	}

	// Shorter than the original: tile and truncate to restore length.
	for i := 0; i < n; i++ {
		out.Data[i] = stretched[i%stretchedLen]
	}
	return out, nil
}
