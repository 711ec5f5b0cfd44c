// SPDX-License-Identifier: EPL-2.0

// Package pitch re-synthesizes speech segments at target fundamental
// frequencies.
//
// # Strategy Selection
//
// Two interchangeable Shifter implementations exist:
//
//   - Vocoder: the production path. A source/filter model analyzes the
//     segment into an F0 contour, spectral envelope and aperiodicity,
//     scales the contour so its voiced mean hits the target, and
//     resynthesizes.
//   - Resample: the fallback path. A time-domain index remap against a
//     fixed 150 Hz reference, tiled or truncated back to the input
//     length. Inaccurate but unconditionally robust.
//
// The Corrector composes them with a documented failure rule: the
// fallback runs when (and only when) the vocoder reports an error,
// meaning a segment too short to analyze or non-finite resynthesis
// output.
// Strategy selection happens once at construction, never per call.
//
// # Contract
//
// Corrector.Correct never fails and always returns a buffer with the
// input's sample rate and sample count. Degraded quality is a logging
// matter, not an error:
//
//	corrector := pitch.NewCorrector(pitch.NewVocoder(), pitch.NewResample(), nil)
//	out := corrector.Correct(word.Raw, word.Pitch)
//	// len(out.Data) == len(word.Raw.Data), always
//
// A segment with no voiced frames corrects to silence: without a measured
// pitch there is no valid shift ratio, and an undefined ratio must not
// reach resynthesis.
package pitch
