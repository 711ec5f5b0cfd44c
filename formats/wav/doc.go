// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV decoding and encoding for the pipeline.
//
// Decoding wraps github.com/go-audio/wav and supports PCM 16-bit files
// at any sample rate, mono or stereo. The WAV container is the
// pipeline's interchange format: speech synthesizers emit it, sample
// banks store it, and the renderer writes it.
//
// # Decoding
//
//	decoder := wav.Decoder{}
//	file, _ := os.Open("word.wav")
//	source, err := decoder.Decode(file)
//
// The returned audio.Source yields float32 samples in [-1.0, 1.0].
// Inputs that are not seekable are buffered in memory first, which lets
// the decoder consume piped process output.
//
// # Encoding
//
// WriteWAV16 writes a complete mono 16-bit PCM file:
//
//	file, _ := os.Create("song.wav")
//	err := wav.WriteWAV16(file, 22050, samples)
//
// # Errors
//
//   - ErrNotWavFile: the input is not a valid WAV file
//   - ErrUnsupportedWavLayout: compressed or non-PCM layout
//   - ErrOnlyPCM16bitSupported: bit depths other than 16
//   - ErrUnsupportedWavChunks: the format chunk could not be read
package wav
