// SPDX-License-Identifier: EPL-2.0

// Package audio provides the pipeline's core audio types and the
// streaming ingest path.
//
// # Buffer
//
// Buffer is the unit of exchange between pipeline stages: mono float32
// samples in [-1.0, 1.0] at a fixed sample rate. Stages never mutate a
// buffer they received; derived signals get fresh allocations.
//
// # Source Interface
//
// Source is the streaming side, used where audio enters the pipeline
// from the outside (speech synthesizers, sample banks, files):
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// All format decoders and stream processors implement this interface,
// so they chain freely.
//
// # Ingest
//
// Collect is the bridge from the streaming world to the Buffer world.
// It resamples a Source to the pipeline rate, mixes it down to mono and
// accumulates the result:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	buf, err := audio.Collect(src, 22050, 4096)
//
// The building blocks are also usable on their own:
//
//	resampled := audio.NewResampler(src, 22050) // cubic interpolation
//	mono := audio.NewMonoMixer(resampled)       // channel averaging
//
// # Format Registry
//
// The registry maps format keys to decoders so callers can pick a
// decoder by file extension:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	src, err := registry.Decode("wav", file)
//
// # Error Handling
//
// Streaming reads return io.EOF when no more data is available:
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	    // Process n samples from buf
//	}
package audio
