// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// WAVFile renders the mix into a mono 16-bit WAV file.
//
// Offline (the default) every period is accepted at once and the queue is
// always empty, so a mixer renders as fast as it can. In realtime mode the
// sink drains its queue at the sample rate like a device would: writes
// block while the queue is full and a write that comes after the queue ran
// dry fails with ErrUnderrun.
type WAVFile struct {
	path     string
	realtime bool
	logger   *slog.Logger

	now   func() time.Time
	sleep func(time.Duration)

	f      *os.File
	enc    *wav.Encoder
	buf    *goaudio.IntBuffer
	params Params

	start   time.Time
	written int64
	closed  bool
}

func NewWAVFile(path string, realtime bool, logger *slog.Logger) *WAVFile {
	if logger == nil {
		logger = slog.Default()
	}
	return &WAVFile{
		path:     path,
		realtime: realtime,
		logger:   logger,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

func (s *WAVFile) Open(req Params) (Params, error) {
	if err := req.Validate(); err != nil {
		return Params{}, err
	}
	if s.enc != nil || s.closed {
		return Params{}, fmt.Errorf("%w: already opened", ErrInvalidParams)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return Params{}, fmt.Errorf("creating %s: %w", s.path, err)
	}

	s.f = f
	s.enc = wav.NewEncoder(f, req.SampleRate, 16, req.Channels, wavFormatPCM)
	s.buf = &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: req.Channels, SampleRate: req.SampleRate},
		Data:           make([]int, req.PeriodFrames),
		SourceBitDepth: 16,
	}
	s.params = req

	s.logger.Info("sink: rendering to wav file",
		"path", s.path,
		"sample_rate", req.SampleRate,
		"realtime", s.realtime)

	return req, nil
}

// consumed is how many frames the simulated device has played by now.
func (s *WAVFile) consumed(now time.Time) int64 {
	if s.start.IsZero() {
		return 0
	}
	return int64(now.Sub(s.start)) * int64(s.params.SampleRate) / int64(time.Second)
}

func (s *WAVFile) queued(now time.Time) int64 {
	if !s.realtime {
		return 0
	}
	return max(0, s.written-s.consumed(now))
}

func (s *WAVFile) WritePeriod(frames []int16) error {
	if s.closed {
		return ErrClosed
	}
	if s.enc == nil {
		return ErrNotOpen
	}

	if s.realtime {
		now := s.now()
		if s.start.IsZero() {
			s.start = now
		} else if s.consumed(now) > s.written {
			return ErrUnderrun
		}

		limit := int64(s.params.BufferFrames)
		for q := s.queued(now); q+int64(len(frames)) > limit; q = s.queued(now) {
			s.sleep(s.params.FramesDuration(int(q + int64(len(frames)) - limit)))
			now = s.now()
		}
	}

	if cap(s.buf.Data) < len(frames) {
		s.buf.Data = make([]int, len(frames))
	}
	s.buf.Data = s.buf.Data[:len(frames)]
	for i, f := range frames {
		s.buf.Data[i] = int(f)
	}

	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("writing wav period: %w", err)
	}
	s.written += int64(len(frames))

	return nil
}

func (s *WAVFile) Recover(err error) error {
	if s.enc == nil {
		return fmt.Errorf("%w: %w", ErrFatal, ErrNotOpen)
	}
	if !errors.Is(err, ErrUnderrun) {
		return fmt.Errorf("%w: %w", ErrFatal, err)
	}

	// Restart the clock so the queue is empty but not overdue.
	s.start = s.now().Add(-s.params.FramesDuration(int(s.written)))
	return nil
}

func (s *WAVFile) Available() int {
	if s.enc == nil {
		return 0
	}
	return s.params.BufferFrames - int(s.queued(s.now()))
}

// Frames is the number of frames written so far.
func (s *WAVFile) Frames() int64 {
	return s.written
}

func (s *WAVFile) Close() error {
	if s.closed || s.enc == nil {
		s.closed = true
		return nil
	}
	s.closed = true

	var errs []error
	if s.written == 0 {
		// The encoder only emits headers with the first buffer.
		s.buf.Data = s.buf.Data[:0]
		if err := s.enc.Write(s.buf); err != nil {
			errs = append(errs, fmt.Errorf("writing wav header: %w", err))
		}
	}
	if err := s.enc.Close(); err != nil {
		errs = append(errs, fmt.Errorf("finalizing wav file: %w", err))
	}
	if err := s.f.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing %s: %w", s.path, err))
	}

	s.logger.Info("sink: wav file closed", "path", s.path, "frames", s.written)

	return errors.Join(errs...)
}
