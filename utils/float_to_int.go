// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 converts a normalized float sample to signed 16-bit PCM.
// Input is hard-clipped to [-1, 1] and mapped via round(x * 32767), so a
// de-quantized value (divide by 32767) lands within one quantization step
// of the clipped input.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int16(math.Round(float64(x) * 32767.0))
}
