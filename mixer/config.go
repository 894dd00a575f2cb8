// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"log/slog"

	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/sink"
)

// Config sizes the channel pool and the stream requested from the sink.
type Config struct {
	// Channels is the pool capacity.
	Channels int `yaml:"channels"`
	// SampleRate is the designated rate. Clips at any other rate are refused.
	SampleRate int `yaml:"sample_rate"`
	// PeriodFrames is the number of frames mixed and written at a time.
	PeriodFrames int `yaml:"period_frames"`
	// BufferPeriods is the requested device queue, in periods.
	BufferPeriods int `yaml:"buffer_periods"`
	// PreserveVolume keeps a channel's volume across Assign. By default
	// every Assign resets it to full volume.
	PreserveVolume bool `yaml:"preserve_volume"`
	// StopWhenIdle holds back writes until a channel is heard, then stops
	// the engine after the first period in which no channel played. Used
	// to render clips to a file.
	StopWhenIdle bool `yaml:"stop_when_idle"`

	Logger *slog.Logger `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		Channels:      10,
		SampleRate:    clip.DefaultSampleRate,
		PeriodFrames:  4096,
		BufferPeriods: 4,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Channels <= 0:
		return fmt.Errorf("%w: channels must be positive, got %d", ErrConfiguration, c.Channels)
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrConfiguration, c.SampleRate)
	case c.PeriodFrames <= 0:
		return fmt.Errorf("%w: period frames must be positive, got %d", ErrConfiguration, c.PeriodFrames)
	case c.BufferPeriods <= 0:
		return fmt.Errorf("%w: buffer periods must be positive, got %d", ErrConfiguration, c.BufferPeriods)
	}
	return nil
}

// sinkParams is the stream Start asks the sink for.
func (c Config) sinkParams() sink.Params {
	return sink.Params{
		SampleRate:   c.SampleRate,
		Channels:     1,
		PeriodFrames: c.PeriodFrames,
		BufferFrames: c.PeriodFrames * c.BufferPeriods,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
