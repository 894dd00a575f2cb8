// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// otoPlayer is the part of oto.Player the sink drives.
type otoPlayer interface {
	Play()
	IsPlaying() bool
	BufferedSize() int
	Err() error
	Close() error
}

// Oto plays through ebitengine/oto. Periods are written into a pipe that a
// single persistent player reads from; the player's buffered size stands in
// for the device queue.
//
// oto allows one context per process, so only one Oto sink can be open.
type Oto struct {
	logger *slog.Logger

	mu     sync.Mutex
	otoCtx *oto.Context
	player otoPlayer
	pw     *io.PipeWriter
	params Params
	buf    []byte
}

func NewOto(logger *slog.Logger) *Oto {
	if logger == nil {
		logger = slog.Default()
	}
	return &Oto{logger: logger}
}

func (o *Oto) Open(req Params) (Params, error) {
	if err := req.Validate(); err != nil {
		return Params{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		return Params{}, fmt.Errorf("%w: already open", ErrInvalidParams)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   req.SampleRate,
		ChannelCount: req.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   req.PeriodDuration(),
	})
	if err != nil {
		return Params{}, fmt.Errorf("creating oto context: %w", err)
	}
	<-ready

	pr, pw := io.Pipe()
	player := ctx.NewPlayer(pr)
	player.SetBufferSize(req.BufferFrames * 2)
	player.Play()

	o.otoCtx = ctx
	o.player = player
	o.pw = pw
	o.params = req

	o.logger.Info("sink: oto player started",
		"sample_rate", req.SampleRate,
		"period_frames", req.PeriodFrames,
		"buffer_frames", req.BufferFrames)

	return req, nil
}

func (o *Oto) WritePeriod(frames []int16) error {
	if o.pw == nil {
		return ErrNotOpen
	}

	if cap(o.buf) < len(frames)*2 {
		o.buf = make([]byte, len(frames)*2)
	}
	o.buf = o.buf[:len(frames)*2]
	putFrames(o.buf, frames)

	if _, err := o.pw.Write(o.buf); err != nil {
		if errors.Is(err, io.ErrClosedPipe) {
			return ErrClosed
		}
		return fmt.Errorf("writing to oto pipe: %w", err)
	}

	return nil
}

func (o *Oto) Recover(err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return fmt.Errorf("%w: %w", ErrFatal, ErrNotOpen)
	}
	if errors.Is(err, ErrClosed) {
		return fmt.Errorf("%w: %w", ErrFatal, err)
	}
	if perr := o.player.Err(); perr != nil {
		return fmt.Errorf("%w: %w", ErrFatal, perr)
	}
	if o.otoCtx != nil {
		if cerr := o.otoCtx.Err(); cerr != nil {
			return fmt.Errorf("%w: %w", ErrFatal, cerr)
		}
	}

	if !o.player.IsPlaying() {
		o.player.Play()
	}

	o.logger.Debug("sink: oto player resumed", "cause", err)
	return nil
}

func (o *Oto) Available() int {
	if o.player == nil {
		return 0
	}

	queued := o.player.BufferedSize() / 2
	return max(0, o.params.BufferFrames-queued)
}

func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var errs []error
	if o.pw != nil {
		_ = o.pw.Close()
		o.pw = nil
	}
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing player: %w", err))
		}
		o.player = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			errs = append(errs, fmt.Errorf("suspending context: %w", err))
		}
		o.otoCtx = nil
	}

	return errors.Join(errs...)
}
