package playback

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// BeepPlayer decodes mp3 and wav files and plays them through the default
// output device. The speaker is initialized at the sample rate of the first
// file; later files are resampled to it.
type BeepPlayer struct {
	sampleRate  beep.SampleRate
	initialized bool
}

// NewBeepPlayer creates a player. The audio device is opened lazily on the
// first Play call.
func NewBeepPlayer() *BeepPlayer {
	return &BeepPlayer{}
}

// Play decodes and plays the file. Cancelling the context stops playback and
// returns the context error.
func (p *BeepPlayer) Play(ctx context.Context, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return &Error{Path: filePath, Err: err}
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return &Error{Path: filePath, Err: os.ErrInvalid}
	}
	if err != nil {
		f.Close()
		return &Error{Path: filePath, Err: err}
	}
	defer streamer.Close()

	if !p.initialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			return &Error{Path: filePath, Err: err}
		}
		p.sampleRate = format.SampleRate
		p.initialized = true
	}

	var stream beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		stream = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
