// SPDX-License-Identifier: EPL-2.0

// Package florence renders sung audio from a timed, pitched word score.
//
// A score is a timeline.Song: tracks of sections of words, each word
// carrying lyric text, a time span and a target fundamental frequency.
// Rendering speaks every word, bends the speech onto the target pitch,
// joins the words with crossfades, and masters the mix into a single
// mono buffer.
//
// # Quick Start
//
// The simplest way to render a song is RenderToWAV:
//
//	cfg, _ := config.Load("")
//	song := &timeline.Song{ /* tracks, sections, words */ }
//
//	file, _ := os.Create("song.wav")
//	err := florence.RenderToWAV(context.Background(), cfg, song, file)
//
// RenderToWAV auto-detects a speech backend, runs the full pipeline and
// writes mono 16-bit PCM WAV at the configured sample rate.
//
// # Pipeline
//
// For more control, assemble the stages yourself:
//
//	synth, _ := speech.Detect(cfg.Engine.SampleRate,
//		cfg.Speech.Engine, cfg.Speech.Voice, cfg.Speech.BankDir)
//	eng := engine.New(cfg, synth, slog.Default())
//
//	buf, err := eng.Render(ctx, song)
//
// The engine writes every intermediate product back into the song (raw
// speech, corrected words, connected sections, the track mix), so a
// caller can inspect or re-master without re-rendering.
//
// # Supplying Audio Directly
//
// Words that already carry a Raw buffer are not synthesized. Any decoded
// audio.Source can be collected into a word buffer:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	buf, _ := audio.Collect(src, cfg.Engine.SampleRate, 4096)
//	word.Raw = buf
//
// Decoders exist for WAV, AIFF, MP3 and Ogg Vorbis under formats/.
//
// See the individual subpackages for more detailed documentation.
package florence
