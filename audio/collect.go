// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Collect drains src into a single mono Buffer at targetRate.
//
// The pipeline operates on one fixed sample rate throughout, but speech
// synthesizers and sample banks deliver whatever rate and channel layout
// their backend produces. Collect normalizes that boundary:
//
//  1. Resamples src to targetRate using cubic interpolation
//  2. Mixes the result down to mono by channel averaging
//  3. Accumulates every sample into a freshly allocated Buffer
//
// bufferSize controls the read chunk (4096 is a good default).
func Collect(src Source, targetRate, bufferSize int) (*Buffer, error) {
	mono := NewMonoMixer(NewResampler(src, targetRate))

	// Estimate one second up front; grow as needed.
	out := make([]float32, 0, targetRate)
	buf := make([]float32, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("collecting samples: %w", err)
		}
	}

	return &Buffer{Data: out, Rate: targetRate}, nil
}
