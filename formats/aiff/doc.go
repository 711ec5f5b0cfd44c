// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF decoding via github.com/go-audio/aiff.
//
// The macOS speech command emits AIFF, and the sample bank accepts .aiff
// recordings; this decoder turns both into an audio.Source of float32
// samples in [-1.0, 1.0]. Only 16-bit PCM files are supported.
//
//	decoder := aiff.Decoder{}
//	source, err := decoder.Decode(file)
//	buf, _ := audio.Collect(source, 22050, 4096)
//
// # Errors
//
//   - ErrNotAiffFile: the input is not a valid AIFF file
//   - ErrOnlyPCM16bitSupported: bit depths other than 16
//   - ErrUnsupportedAiffLayout: no channels declared
//   - ErrUnsupportedAiffChunks: the common chunk could not be parsed
//
// Encoding is not supported; the pipeline writes WAV output only.
package aiff
