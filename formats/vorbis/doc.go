// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis decoding via
// github.com/jfreymuth/oggvorbis.
//
// The sample bank accepts .ogg recordings; this decoder turns them into
// an audio.Source of float32 samples in [-1.0, 1.0], interleaved for
// multi-channel files. Bank ingest runs the source through
// audio.Collect to reach mono at the pipeline rate:
//
//	decoder := vorbis.Decoder{}
//	source, _ := decoder.Decode(file)
//	buf, _ := audio.Collect(source, 22050, 4096)
//
// Encoding is not supported.
package vorbis
