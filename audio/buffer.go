// SPDX-License-Identifier: EPL-2.0

package audio

import "math"

// Buffer is a mono PCM segment: float32 samples in [-1, 1] at a fixed
// sample rate. It is the unit of exchange between pipeline stages. Stages
// hand buffers off by ownership; a stage that derives a new signal
// allocates a fresh Buffer and never mutates its input in place.
type Buffer struct {
	Data []float32
	Rate int
}

// NewBuffer allocates a zeroed buffer of n samples at rate.
func NewBuffer(rate, n int) *Buffer {
	return &Buffer{Data: make([]float32, n), Rate: rate}
}

// Len returns the number of samples.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Data)
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b == nil || b.Rate <= 0 {
		return 0
	}
	return float64(len(b.Data)) / float64(b.Rate)
}

// Clone returns a deep copy sharing no storage with b.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	out := &Buffer{Data: make([]float32, len(b.Data)), Rate: b.Rate}
	copy(out.Data, b.Data)
	return out
}

// RMS returns the root-mean-square level of the buffer, 0 for an empty one.
func (b *Buffer) RMS() float64 {
	if b.Len() == 0 {
		return 0
	}
	var sum float64
	for _, s := range b.Data {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(b.Data)))
}

// Peak returns the largest absolute sample value.
func (b *Buffer) Peak() float32 {
	var peak float32
	for _, s := range b.Data {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// Scale multiplies every sample by gain in place and returns b.
func (b *Buffer) Scale(gain float32) *Buffer {
	for i := range b.Data {
		b.Data[i] *= gain
	}
	return b
}

// FitLength truncates or zero-pads b.Data so that it holds exactly n
// samples. Pitch resynthesis rarely lands on the exact input sample count;
// downstream concatenation depends on segments matching their allotted
// span sample-for-sample.
func (b *Buffer) FitLength(n int) *Buffer {
	switch {
	case len(b.Data) > n:
		b.Data = b.Data[:n]
	case len(b.Data) < n:
		padded := make([]float32, n)
		copy(padded, b.Data)
		b.Data = padded
	}
	return b
}
