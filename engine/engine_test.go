// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/RerangeZ/florence/audio"
	"github.com/RerangeZ/florence/config"
	"github.com/RerangeZ/florence/timeline"
)

const testRate = 22050

func testConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{SampleRate: testRate, Workers: 2},
		Pitch: config.PitchConfig{
			FramePeriodMs: 5.0, MinF0: 40.0, MaxF0: 800.0, ReferenceHz: 150.0,
		},
		Connect:   config.ConnectConfig{WindowSeconds: 0.02, OverlapRatio: 0.25},
		Mastering: config.MasteringConfig{LimiterThreshold: 0.95, LimiterKnee: 20.0, TargetRMS: 0.1, MaxGain: 4.0},
	}
}

// sineBuffer builds n samples of a freq Hz sine at testRate.
func sineBuffer(freq float64, n int) *audio.Buffer {
	buf := audio.NewBuffer(testRate, n)
	for i := range buf.Data {
		buf.Data[i] = 0.5 * float32(math.Sin(2*math.Pi*freq*float64(i)/testRate))
	}
	return buf
}

func word(pitch float64, start, end int, raw *audio.Buffer) *timeline.Word {
	return &timeline.Word{
		Pitch: pitch,
		Span:  timeline.Span{Start: start, End: end},
		Text:  "la",
		Raw:   raw,
	}
}

// fakeSynth records synthesis calls and emits a fixed sine per word.
type fakeSynth struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeSynth) Name() string { return "fake" }
func (f *fakeSynth) Close() error { return nil }

func (f *fakeSynth) Synthesize(ctx context.Context, text string) (*audio.Buffer, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.fail {
		return nil, errors.New("backend unavailable")
	}
	return sineBuffer(220, 2205), nil
}

func TestRender_EndToEnd(t *testing.T) {
	t.Parallel()

	song := &timeline.Song{
		Name: "two words",
		Tracks: []*timeline.Track{{
			Sections: []*timeline.Section{{
				Words: []*timeline.Word{
					word(220, 0, 100, sineBuffer(220, 2205)),
					word(440, 100, 200, sineBuffer(220, 2205)),
				},
			}},
		}},
	}

	eng := New(testConfig(), nil, nil)
	out, err := eng.Render(context.Background(), song)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// Correction preserves word lengths, so with a 20 ms (441-sample)
	// crossfade the track is 2205 + 2205 - 441 samples.
	if want := 2205 + 2205 - 441; out.Len() != want {
		t.Errorf("Len() = %d, want %d", out.Len(), want)
	}
	if out.Rate != testRate {
		t.Errorf("Rate = %d, want %d", out.Rate, testRate)
	}
	if out.RMS() == 0 {
		t.Error("rendered output is silent")
	}
	if song.Rendered != out {
		t.Error("song.Rendered not set to the returned buffer")
	}

	// Every intermediate product stays inspectable.
	for i, w := range song.Words() {
		if w.Corrected.Len() != w.Raw.Len() {
			t.Errorf("word %d: Corrected.Len() = %d, want %d",
				i, w.Corrected.Len(), w.Raw.Len())
		}
	}
	if song.Tracks[0].Mixed.Len() == 0 {
		t.Error("track Mixed buffer not populated")
	}
}

func TestRender_MasteredLoudness(t *testing.T) {
	t.Parallel()

	song := &timeline.Song{
		Tracks: []*timeline.Track{{
			Sections: []*timeline.Section{{
				Words: []*timeline.Word{word(220, 0, 100, sineBuffer(220, 11025))},
			}},
		}},
	}

	eng := New(testConfig(), nil, nil)
	out, err := eng.Render(context.Background(), song)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// Normalization gain is min(target/rms, maxGain), so post-master RMS
	// never exceeds the target.
	if rms := out.RMS(); rms > 0.1+1e-3 {
		t.Errorf("RMS = %v, exceeds the 0.1 normalization target", rms)
	}
}

func TestRender_RejectsStructuralViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		song *timeline.Song
		want error
	}{
		{
			"empty song",
			&timeline.Song{},
			timeline.ErrEmptySong,
		},
		{
			"non-positive pitch",
			&timeline.Song{Tracks: []*timeline.Track{{
				Sections: []*timeline.Section{{
					Words: []*timeline.Word{word(0, 0, 100, sineBuffer(220, 100))},
				}},
			}}},
			timeline.ErrNonPositivePitch,
		},
		{
			"overlapping words",
			&timeline.Song{Tracks: []*timeline.Track{{
				Sections: []*timeline.Section{{
					Words: []*timeline.Word{
						word(220, 0, 150, sineBuffer(220, 100)),
						word(220, 100, 200, sineBuffer(220, 100)),
					},
				}},
			}}},
			timeline.ErrOverlappingWords,
		},
	}

	eng := New(testConfig(), nil, nil)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := eng.Render(context.Background(), tt.song)
			if !errors.Is(err, tt.want) {
				t.Errorf("Render() error = %v, want %v", err, tt.want)
			}

			// Rejection happens before any processing.
			for _, w := range tt.song.Words() {
				if w.Corrected != nil {
					t.Error("word processed despite a structural violation")
				}
			}
		})
	}
}

func TestRender_NoAudio(t *testing.T) {
	t.Parallel()

	song := &timeline.Song{
		Tracks: []*timeline.Track{{
			Sections: []*timeline.Section{{
				Words: []*timeline.Word{word(220, 0, 100, nil)},
			}},
		}},
	}

	_, err := New(testConfig(), nil, nil).Render(context.Background(), song)
	if !errors.Is(err, ErrNoAudio) {
		t.Errorf("Render() error = %v, want ErrNoAudio", err)
	}
}

func TestRender_SynthesizesMissingWords(t *testing.T) {
	t.Parallel()

	song := &timeline.Song{
		Tracks: []*timeline.Track{{
			Sections: []*timeline.Section{{
				Words: []*timeline.Word{
					word(220, 0, 100, nil),
					word(330, 100, 200, sineBuffer(220, 2205)), // pre-filled
					word(440, 200, 300, nil),
				},
			}},
		}},
	}

	synth := &fakeSynth{}
	out, err := New(testConfig(), synth, nil).Render(context.Background(), song)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if synth.calls != 2 {
		t.Errorf("synthesizer called %d times, want 2 (pre-filled word skipped)", synth.calls)
	}
	if out.Len() == 0 {
		t.Error("rendered output is empty")
	}
}

func TestRender_SynthesisFailureIsFatal(t *testing.T) {
	t.Parallel()

	song := &timeline.Song{
		Tracks: []*timeline.Track{{
			Sections: []*timeline.Section{{
				Words: []*timeline.Word{word(220, 0, 100, nil)},
			}},
		}},
	}

	_, err := New(testConfig(), &fakeSynth{fail: true}, nil).Render(context.Background(), song)
	if err == nil {
		t.Error("Render() succeeded despite synthesis failure")
	}
}

func TestRender_MultiTrackMix(t *testing.T) {
	t.Parallel()

	song := &timeline.Song{
		Tracks: []*timeline.Track{
			{Sections: []*timeline.Section{{
				Words: []*timeline.Word{word(220, 0, 100, sineBuffer(220, 4410))},
			}}},
			{Sections: []*timeline.Section{{
				Words: []*timeline.Word{word(330, 0, 50, sineBuffer(330, 2205))},
			}}},
		},
	}

	out, err := New(testConfig(), nil, nil).Render(context.Background(), song)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// The mix spans the longest track.
	if out.Len() != 4410 {
		t.Errorf("Len() = %d, want 4410 (longest track)", out.Len())
	}
}

func TestRender_SilentTrackContributesNothing(t *testing.T) {
	t.Parallel()

	// The second track's only word has no audio, so its sections connect
	// to nothing and the track reaches mastering without a buffer.
	song := &timeline.Song{
		Tracks: []*timeline.Track{
			{Sections: []*timeline.Section{{
				Words: []*timeline.Word{word(220, 0, 100, sineBuffer(220, 4410))},
			}}},
			{Sections: []*timeline.Section{{
				Words: []*timeline.Word{word(330, 0, 100, nil)},
			}}},
		},
	}

	out, err := New(testConfig(), nil, nil).Render(context.Background(), song)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if out.Len() != 4410 {
		t.Errorf("Len() = %d, want 4410 (audible track only)", out.Len())
	}
	if song.Tracks[1].Mixed != nil {
		t.Error("silent track should have no mixed buffer")
	}
}

func TestRender_CancelledContext(t *testing.T) {
	t.Parallel()

	song := &timeline.Song{
		Tracks: []*timeline.Track{{
			Sections: []*timeline.Section{{
				Words: []*timeline.Word{word(220, 0, 100, sineBuffer(220, 2205))},
			}},
		}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(testConfig(), nil, nil).Render(ctx, song); err == nil {
		t.Error("Render() succeeded with a cancelled context")
	}
}
