// SPDX-License-Identifier: EPL-2.0

package pitch

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/RerangeZ/florence/audio"
)

var (
	ErrSegmentTooShort = errors.New("segment shorter than one analysis window")
	ErrUnstableOutput  = errors.New("resynthesis produced non-finite samples")
)

// Vocoder is the production Shifter: a source/filter model in the WORLD
// style. Analysis extracts a per-frame F0 contour, a spectral envelope and
// an aperiodicity estimate; synthesis excites the envelope with a pulse
// train at the shifted F0 plus shaped noise.
type Vocoder struct {
	// FramePeriod is the analysis hop in milliseconds.
	FramePeriod float64
	// MinF0 and MaxF0 bound both the F0 search range and the shifted
	// contour. Resynthesis is unstable outside this range, so the scaled
	// contour is clamped to it before synthesis.
	MinF0 float64
	MaxF0 float64
	// VoicingThreshold is the minimum normalized autocorrelation peak for
	// a frame to count as voiced.
	VoicingThreshold float64
}

// NewVocoder returns a Vocoder with the engine defaults: 5 ms frames and
// a 40-800 Hz valid F0 range.
func NewVocoder() *Vocoder {
	return &Vocoder{
		FramePeriod:      5.0,
		MinF0:            40.0,
		MaxF0:            800.0,
		VoicingThreshold: 0.3,
	}
}

// frames holds the analysis products, one entry per frame.
type frames struct {
	f0       []float64   // 0 for unvoiced frames
	envelope [][]float64 // half-spectrum magnitudes, fftSize/2+1 bins
	aperiod  []float64   // 0 = fully periodic, 1 = pure noise
	hop      int
	fftSize  int
}

// Shift analyzes buf, scales the F0 contour so its voiced mean lands on
// targetHz, and resynthesizes. If no voiced frames exist the output is
// silence of the input length: with an undefined measured pitch there is
// no valid ratio, and propagating one would corrupt the segment.
func (v *Vocoder) Shift(buf *audio.Buffer, targetHz float64) (*audio.Buffer, error) {
	an, err := v.analyze(buf)
	if err != nil {
		return nil, err
	}

	var sum float64
	var voiced int
	for _, f := range an.f0 {
		if f > 0 {
			sum += f
			voiced++
		}
	}
	if voiced == 0 {
		return audio.NewBuffer(buf.Rate, buf.Len()), nil
	}

	ratio := targetHz / (sum / float64(voiced))
	for i, f := range an.f0 {
		if f <= 0 {
			continue
		}
		shifted := f * ratio
		if shifted < v.MinF0 {
			shifted = v.MinF0
		} else if shifted > v.MaxF0 {
			shifted = v.MaxF0
		}
		an.f0[i] = shifted
	}

	out := v.synthesize(an, buf.Rate, buf.Len())
	for _, s := range out.Data {
		if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
			return nil, ErrUnstableOutput
		}
	}
	return out, nil
}

// analyze runs frame-by-frame F0 extraction, envelope estimation and
// aperiodicity estimation at the configured frame period.
func (v *Vocoder) analyze(buf *audio.Buffer) (*frames, error) {
	rate := buf.Rate
	hop := int(float64(rate) * v.FramePeriod / 1000.0)
	if hop < 1 {
		hop = 1
	}

	// The window must cover two periods of the lowest trackable pitch.
	minWindow := 2 * int(float64(rate)/v.MinF0)
	fftSize := 256
	for fftSize < minWindow {
		fftSize <<= 1
	}
	if buf.Len() < minWindow {
		return nil, ErrSegmentTooShort
	}

	x := make([]float64, buf.Len())
	for i, s := range buf.Data {
		x[i] = float64(s)
	}

	numFrames := buf.Len()/hop + 1
	an := &frames{
		f0:       make([]float64, numFrames),
		envelope: make([][]float64, numFrames),
		aperiod:  make([]float64, numFrames),
		hop:      hop,
		fftSize:  fftSize,
	}

	fft := fourier.NewFFT(fftSize)
	window := hannWindow(fftSize)
	segment := make([]float64, fftSize)
	coeffs := make([]complex128, fftSize/2+1)

	minLag := int(float64(rate) / v.MaxF0)
	maxLag := int(float64(rate) / v.MinF0)

	for i := 0; i < numFrames; i++ {
		center := i * hop
		extract(x, center-fftSize/2, segment)

		f0, clarity := estimateF0(segment, rate, minLag, maxLag, v.VoicingThreshold)
		an.f0[i] = f0
		an.aperiod[i] = 1 - clarity

		for j := range segment {
			segment[j] *= window[j]
		}
		fft.Coefficients(coeffs, segment)

		env := make([]float64, len(coeffs))
		for j, c := range coeffs {
			env[j] = cmplx.Abs(c)
		}
		smoothBins(env)
		an.envelope[i] = env
	}

	return an, nil
}

// synthesize renders n samples at rate from the (possibly shifted)
// analysis frames. Voiced energy comes from envelope impulse responses
// placed pitch-synchronously; unvoiced energy from spectrally shaped noise
// overlap-added at the frame hop. Noise phase is seeded per call, keeping
// the output deterministic for identical inputs.
func (v *Vocoder) synthesize(an *frames, rate, n int) *audio.Buffer {
	fftSize := an.fftSize
	half := fftSize / 2
	out := make([]float64, n+fftSize)
	fft := fourier.NewFFT(fftSize)
	window := hannWindow(fftSize)
	rng := rand.New(rand.NewSource(1))

	// Per-frame zero-phase impulse response of the envelope.
	impulse := make([]float64, fftSize)
	coeffs := make([]complex128, half+1)

	frameAt := func(pos int) int {
		f := pos / an.hop
		if f >= len(an.f0) {
			f = len(an.f0) - 1
		}
		return f
	}

	// Voiced component: walk a phase accumulator across the output and
	// drop one envelope impulse per fundamental period.
	phase := 1.0 // fire immediately at the first voiced sample
	for pos := 0; pos < n; pos++ {
		f := frameAt(pos)
		f0 := an.f0[f]
		if f0 <= 0 {
			phase = 1.0
			continue
		}
		phase += f0 / float64(rate)
		if phase < 1.0 {
			continue
		}
		phase -= 1.0

		for j := range coeffs {
			coeffs[j] = complex(an.envelope[f][j], 0)
		}
		fft.Sequence(impulse, coeffs)

		// Pulse gain: sqrt(period) keeps perceived energy independent of
		// the pulse spacing; 1/fftSize undoes the unnormalized inverse
		// transform.
		gain := math.Sqrt(float64(rate)/f0) * math.Sqrt(1-an.aperiod[f]) / float64(fftSize)

		// The zero-phase response is centered on bin 0; lay it out
		// symmetrically around the pulse position.
		for j := 0; j < fftSize; j++ {
			idx := pos + j - half
			if idx < 0 || idx >= len(out) {
				continue
			}
			src := (j + half) % fftSize
			out[idx] += impulse[src] * window[j] * gain
		}
	}

	// Unvoiced component: per frame, noise shaped by the envelope.
	noise := make([]float64, fftSize)
	noiseCoeffs := make([]complex128, half+1)
	shaped := make([]float64, fftSize)
	// Hann windows at hop spacing overlap to roughly fftSize/(2*hop)
	// times unity; compensate so the noise floor is rate-independent.
	overlapGain := 2.0 * float64(an.hop) / float64(fftSize)

	for f := range an.f0 {
		ap := an.aperiod[f]
		if ap <= 0 {
			continue
		}
		for j := range noise {
			noise[j] = rng.NormFloat64()
		}
		fft.Coefficients(noiseCoeffs, noise)
		for j := range noiseCoeffs {
			noiseCoeffs[j] *= complex(an.envelope[f][j], 0)
		}
		fft.Sequence(shaped, noiseCoeffs)

		gain := math.Sqrt(ap) * overlapGain / float64(fftSize)
		base := f*an.hop - half
		for j := 0; j < fftSize; j++ {
			idx := base + j
			if idx < 0 || idx >= len(out) {
				continue
			}
			out[idx] += shaped[j] * window[j] * gain
		}
	}

	res := audio.NewBuffer(rate, n)
	for i := 0; i < n; i++ {
		res.Data[i] = float32(out[i])
	}
	return res
}

// estimateF0 returns the fundamental frequency of the segment and the
// clarity (normalized autocorrelation peak) supporting it. A frame below
// the voicing threshold, or with negligible energy, reports f0 = 0.
func estimateF0(segment []float64, rate, minLag, maxLag int, threshold float64) (f0, clarity float64) {
	n := len(segment)
	if maxLag >= n {
		maxLag = n - 1
	}
	if minLag < 1 {
		minLag = 1
	}

	var energy float64
	for _, s := range segment {
		energy += s * s
	}
	if energy < 1e-9 {
		return 0, 0
	}

	corr := make([]float64, maxLag+1)
	bestLag, bestR := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var cross, e0, e1 float64
		for i := 0; i < n-lag; i++ {
			cross += segment[i] * segment[i+lag]
			e0 += segment[i] * segment[i]
			e1 += segment[i+lag] * segment[i+lag]
		}
		if e0 == 0 || e1 == 0 {
			continue
		}
		corr[lag] = cross / math.Sqrt(e0*e1)
		if corr[lag] > bestR {
			bestR = corr[lag]
			bestLag = lag
		}
	}

	if bestLag == 0 || bestR < threshold {
		return 0, clamp01(bestR)
	}

	// A periodic signal correlates at every multiple of its true period,
	// and the global maximum often sits on a multiple, which would report
	// the pitch an octave or two low. Take the shortest lag whose peak is
	// within tolerance of the maximum instead.
	const octaveTolerance = 0.95
	for lag := minLag; lag < bestLag; lag++ {
		if corr[lag] >= bestR*octaveTolerance {
			bestLag = lag
			bestR = corr[lag]
			break
		}
	}

	return float64(rate) / float64(bestLag), clamp01(bestR)
}

// extract copies len(dst) samples of x starting at offset, zero-padding
// outside the signal bounds.
func extract(x []float64, offset int, dst []float64) {
	for i := range dst {
		j := offset + i
		if j < 0 || j >= len(x) {
			dst[i] = 0
			continue
		}
		dst[i] = x[j]
	}
}

// smoothBins applies two passes of a 3-bin moving average in place,
// removing harmonic ripple so the envelope captures timbre, not pitch.
func smoothBins(env []float64) {
	for pass := 0; pass < 2; pass++ {
		prev := env[0]
		for i := 1; i < len(env)-1; i++ {
			cur := env[i]
			env[i] = (prev + cur + env[i+1]) / 3
			prev = cur
		}
	}
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
