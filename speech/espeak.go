// SPDX-License-Identifier: EPL-2.0

package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/RerangeZ/florence/audio"
	"github.com/RerangeZ/florence/formats/wav"
)

// Espeak synthesizes speech by invoking the espeak-ng binary and decoding
// the WAV stream it writes to stdout.
type Espeak struct {
	rate  int
	voice string
	// binary is the resolved executable path; tests may point it at a
	// stand-in script.
	binary string
}

// NewEspeak resolves the espeak-ng binary and returns the synthesizer.
func NewEspeak(rate int, voice string) (*Espeak, error) {
	path, err := exec.LookPath("espeak-ng")
	if err != nil {
		return nil, fmt.Errorf("espeak-ng not found: %w", err)
	}
	if voice == "" {
		voice = "en"
	}
	return &Espeak{rate: rate, voice: voice, binary: path}, nil
}

func (e *Espeak) Name() string { return "espeak" }
func (e *Espeak) Close() error { return nil }

func (e *Espeak) Synthesize(ctx context.Context, text string) (*audio.Buffer, error) {
	if text == "" {
		return audio.NewBuffer(e.rate, 0), nil
	}

	cmd := exec.CommandContext(ctx, e.binary, "--stdout", "-v", e.voice, text)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("espeak-ng: %w", err)
	}

	src, err := wav.Decoder{}.Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("decoding espeak output: %w", err)
	}
	defer src.Close()

	buf, err := audio.Collect(src, e.rate, 4096)
	if err != nil {
		return nil, fmt.Errorf("collecting espeak output: %w", err)
	}
	return buf, nil
}
