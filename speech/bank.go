// SPDX-License-Identifier: EPL-2.0

package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RerangeZ/florence/audio"
)

var ErrWordNotInBank = errors.New("word not found in sample bank")

// Bank serves pre-recorded word audio from a directory. A word "hello"
// resolves to hello.wav, hello.aiff, hello.mp3 or hello.ogg, in that
// order. Lookups are case-insensitive on the word itself.
type Bank struct {
	rate     int
	dir      string
	registry *audio.Registry
}

// extensions in lookup priority order. Keys must match the registry.
var extensions = []string{"wav", "aiff", "mp3", "ogg"}

// NewBank validates dir and returns the bank synthesizer.
func NewBank(rate int, dir string) (*Bank, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("sample bank: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sample bank: %s is not a directory", dir)
	}
	return &Bank{rate: rate, dir: dir, registry: Formats()}, nil
}

func (b *Bank) Name() string { return "bank" }
func (b *Bank) Close() error { return nil }

func (b *Bank) Synthesize(ctx context.Context, text string) (*audio.Buffer, error) {
	if text == "" {
		return audio.NewBuffer(b.rate, 0), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	word := strings.ToLower(strings.TrimSpace(text))
	for _, ext := range extensions {
		path := filepath.Join(b.dir, word+"."+ext)
		f, err := os.Open(path)
		if err != nil {
			continue
		}

		buf, err := b.decode(f, ext)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("sample bank %s: %w", filepath.Base(path), err)
		}
		return buf, nil
	}

	return nil, fmt.Errorf("%w: %q in %s", ErrWordNotInBank, word, b.dir)
}

func (b *Bank) decode(f *os.File, ext string) (*audio.Buffer, error) {
	src, err := b.registry.Decode(ext, f)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return audio.Collect(src, b.rate, 4096)
}
