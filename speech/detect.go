// SPDX-License-Identifier: EPL-2.0

package speech

import (
	"fmt"
	"runtime"
)

// Detect resolves a single backend, once, before rendering starts.
//
// With an explicit engine name the named backend must construct or the
// error propagates. With an empty name the priority is: sample bank when
// bankDir is set, the platform speech command on darwin, then espeak-ng.
func Detect(rate int, engine, voice, bankDir string) (Synthesizer, error) {
	switch engine {
	case "espeak":
		return NewEspeak(rate, voice)
	case "say":
		return NewSay(rate, voice)
	case "bank":
		return NewBank(rate, bankDir)
	case "":
		// fall through to probing
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadEngine, engine)
	}

	if bankDir != "" {
		return NewBank(rate, bankDir)
	}

	if runtime.GOOS == "darwin" {
		if s, err := NewSay(rate, voice); err == nil {
			return s, nil
		}
	}

	if e, err := NewEspeak(rate, voice); err == nil {
		return e, nil
	}

	return nil, ErrNoEngine
}
