// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"
)

// Params describes the stream a sink was opened with. Frames are mono 16-bit
// samples, so a frame is one int16.
type Params struct {
	SampleRate int
	Channels   int
	// PeriodFrames is the size of every WritePeriod call.
	PeriodFrames int
	// BufferFrames is the capacity of the device queue.
	BufferFrames int
}

func (p Params) Validate() error {
	if p.SampleRate <= 0 || p.Channels != 1 || p.PeriodFrames <= 0 || p.BufferFrames < p.PeriodFrames {
		return fmt.Errorf("%w: %+v", ErrInvalidParams, p)
	}
	return nil
}

// PeriodDuration is the playback time of one period.
func (p Params) PeriodDuration() time.Duration {
	return p.FramesDuration(p.PeriodFrames)
}

// FramesDuration is the playback time of n frames at the stream rate.
func (p Params) FramesDuration(n int) time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(int64(n) * int64(time.Second) / int64(p.SampleRate))
}

// Sink is a blocking, period-oriented PCM output.
//
// WritePeriod is only ever called from one goroutine. Available may be
// called from that same goroutine between writes.
type Sink interface {
	// Open negotiates req with the device and returns what was granted.
	Open(req Params) (Params, error)
	// WritePeriod blocks until frames are queued or the write failed.
	WritePeriod(frames []int16) error
	// Recover tries to bring the device back after a failed write. A non-nil
	// result wraps ErrFatal.
	Recover(err error) error
	// Available is the number of frames that can be queued without blocking.
	Available() int
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	// Backend is "malgo" (default), "oto" or "wav".
	Backend string `yaml:"backend"`
	// Path is the output file of the wav backend.
	Path string `yaml:"path"`
	// Realtime makes the wav backend consume audio at the stream rate like a
	// device instead of as fast as it is written.
	Realtime bool `yaml:"realtime"`
}

const (
	BackendMalgo = "malgo"
	BackendOto   = "oto"
	BackendWAV   = "wav"
)

// New builds the sink selected by opts. Nothing is opened yet.
func New(opts Options, logger *slog.Logger) (Sink, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch opts.Backend {
	case "", BackendMalgo:
		return NewMalgo(logger), nil
	case BackendOto:
		return NewOto(logger), nil
	case BackendWAV:
		if opts.Path == "" {
			return nil, fmt.Errorf("%w: wav backend needs a path", ErrInvalidParams)
		}
		return NewWAVFile(opts.Path, opts.Realtime, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// putFrames encodes frames as S16LE into dst, which must hold 2*len(frames) bytes.
func putFrames(dst []byte, frames []int16) {
	for i, f := range frames {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(f))
	}
}
