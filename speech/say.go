// SPDX-License-Identifier: EPL-2.0

package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/RerangeZ/florence/audio"
	"github.com/RerangeZ/florence/formats/aiff"
)

// Say synthesizes speech through the macOS speech command. The command
// cannot stream to stdout, so each call renders into a temporary AIFF
// file which is decoded and removed.
type Say struct {
	rate   int
	voice  string
	binary string
}

// NewSay resolves the say binary and returns the synthesizer.
func NewSay(rate int, voice string) (*Say, error) {
	path, err := exec.LookPath("say")
	if err != nil {
		return nil, fmt.Errorf("say not found: %w", err)
	}
	return &Say{rate: rate, voice: voice, binary: path}, nil
}

func (s *Say) Name() string { return "say" }
func (s *Say) Close() error { return nil }

func (s *Say) Synthesize(ctx context.Context, text string) (*audio.Buffer, error) {
	if text == "" {
		return audio.NewBuffer(s.rate, 0), nil
	}

	dir, err := os.MkdirTemp("", "florence-say-")
	if err != nil {
		return nil, fmt.Errorf("say temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	outPath := filepath.Join(dir, "word.aiff")
	args := []string{"-o", outPath}
	if s.voice != "" {
		args = append(args, "-v", s.voice)
	}
	args = append(args, text)

	if err := exec.CommandContext(ctx, s.binary, args...).Run(); err != nil {
		return nil, fmt.Errorf("say: %w", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		return nil, fmt.Errorf("opening say output: %w", err)
	}
	defer f.Close()

	src, err := aiff.Decoder{}.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding say output: %w", err)
	}
	defer src.Close()

	buf, err := audio.Collect(src, s.rate, 4096)
	if err != nil {
		return nil, fmt.Errorf("collecting say output: %w", err)
	}
	return buf, nil
}
