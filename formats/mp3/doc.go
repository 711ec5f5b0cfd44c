// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 decoding via github.com/hajimehoshi/go-mp3.
//
// The sample bank accepts MP3 recordings; this decoder turns them into
// an audio.Source of float32 samples in [-1.0, 1.0]. Output is always
// stereo at the file's native rate, so bank ingest runs it through
// audio.Collect to reach mono at the pipeline rate:
//
//	decoder := mp3.Decoder{}
//	source, _ := decoder.Decode(file)
//	buf, _ := audio.Collect(source, 22050, 4096)
//
// Encoding is not supported.
package mp3
