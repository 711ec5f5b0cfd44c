// SPDX-License-Identifier: EPL-2.0

package pitch

import (
	"io"
	"log/slog"

	"github.com/RerangeZ/florence/audio"
)

// Shifter re-synthesizes a speech segment at a target fundamental
// frequency. Implementations keep the input's sample rate; they are not
// required to hit the exact input sample count; the Corrector reconciles
// length afterwards.
type Shifter interface {
	Shift(buf *audio.Buffer, targetHz float64) (*audio.Buffer, error)
}

// Corrector applies pitch correction with the pipeline's robustness
// contract: it always returns a buffer of exactly the input's length and
// never propagates an error. A failing primary shifter degrades to the
// fallback; a failing fallback degrades to silence.
type Corrector struct {
	primary  Shifter
	fallback Shifter
	log      *slog.Logger
}

// NewCorrector builds a Corrector around a primary and a fallback shifter.
// A nil log disables degradation logging.
func NewCorrector(primary, fallback Shifter, log *slog.Logger) *Corrector {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	return &Corrector{primary: primary, fallback: fallback, log: log}
}

// Correct returns buf re-pitched to targetHz. The result has the same
// sample rate and the same sample count as buf, for every input and every
// strategy outcome.
func (c *Corrector) Correct(buf *audio.Buffer, targetHz float64) *audio.Buffer {
	if buf.Len() == 0 {
		rate := 0
		if buf != nil {
			rate = buf.Rate
		}
		return audio.NewBuffer(rate, 0)
	}

	out, err := c.primary.Shift(buf, targetHz)
	if err != nil {
		c.log.Debug("pitch correction degraded to fallback",
			"target_hz", targetHz, "samples", buf.Len(), "reason", err)

		out, err = c.fallback.Shift(buf, targetHz)
		if err != nil {
			// The fallback is index arithmetic and should not fail;
			// degrade to silence rather than surface an error.
			c.log.Warn("pitch fallback failed, emitting silence", "reason", err)
			return audio.NewBuffer(buf.Rate, buf.Len())
		}
	}

	return out.FitLength(buf.Len())
}
