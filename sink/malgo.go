// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

// playbackDevice is the part of malgo.Device the sink drives, kept small
// for tests.
type playbackDevice interface {
	Start() error
	Stop() error
	IsStarted() bool
	SampleRate() uint32
	Uninit()
}

// Malgo plays through miniaudio. Written periods go into a ring buffer that
// the device callback drains; when the callback finds the ring empty after
// playback started, the next WritePeriod reports ErrUnderrun.
type Malgo struct {
	logger *slog.Logger

	mu       sync.Mutex
	malgoCtx *malgo.AllocatedContext
	device   playbackDevice
	ring     *ring
	params   Params

	// callback side
	scratch  []int16
	primed   atomic.Bool
	underrun atomic.Bool
}

func NewMalgo(logger *slog.Logger) *Malgo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Malgo{logger: logger}
}

func (m *Malgo) Open(req Params) (Params, error) {
	if err := req.Validate(); err != nil {
		return Params{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return Params{}, fmt.Errorf("%w: already open", ErrInvalidParams)
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return Params{}, fmt.Errorf("initializing malgo context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(req.Channels)
	deviceConfig.SampleRate = uint32(req.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(req.PeriodFrames)
	deviceConfig.Periods = uint32(req.BufferFrames / req.PeriodFrames)
	deviceConfig.Alsa.NoMMap = 1

	// The ring must exist before the first callback fires.
	m.ring = newRing(req.BufferFrames)

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frameCount uint32) {
			m.fill(out, int(frameCount))
		},
	})
	if err != nil {
		m.ring = nil
		_ = ctx.Uninit()
		ctx.Free()
		return Params{}, fmt.Errorf("initializing playback device: %w", err)
	}

	granted := req
	if rate := int(device.SampleRate()); rate > 0 {
		granted.SampleRate = rate
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		m.ring = nil
		_ = ctx.Uninit()
		ctx.Free()
		return Params{}, fmt.Errorf("starting playback device: %w", err)
	}

	m.malgoCtx = ctx
	m.device = device
	m.params = granted

	m.logger.Info("sink: malgo device started",
		"sample_rate", granted.SampleRate,
		"period_frames", granted.PeriodFrames,
		"buffer_frames", granted.BufferFrames)

	return granted, nil
}

// fill runs on the device thread.
func (m *Malgo) fill(out []byte, frames int) {
	if cap(m.scratch) < frames {
		m.scratch = make([]int16, frames)
	}
	m.scratch = m.scratch[:frames]

	// One underrun per dry spell; the next write primes it again.
	n := m.ring.read(m.scratch)
	if n < frames && m.primed.CompareAndSwap(true, false) {
		m.underrun.Store(true)
	}

	putFrames(out, m.scratch)
}

func (m *Malgo) WritePeriod(frames []int16) error {
	r := m.ring
	if r == nil {
		return ErrNotOpen
	}

	if m.underrun.Swap(false) {
		return ErrUnderrun
	}

	if err := r.write(frames); err != nil {
		return err
	}
	m.primed.Store(true)

	return nil
}

func (m *Malgo) Recover(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return fmt.Errorf("%w: %w", ErrFatal, ErrNotOpen)
	}
	if !errors.Is(err, ErrUnderrun) {
		return fmt.Errorf("%w: %w", ErrFatal, err)
	}
	m.underrun.Store(false)

	if !m.device.IsStarted() {
		if startErr := m.device.Start(); startErr != nil {
			return fmt.Errorf("%w: restarting device: %w", ErrFatal, startErr)
		}
	}

	m.logger.Debug("sink: malgo recovered from underrun")
	return nil
}

func (m *Malgo) Available() int {
	if m.ring == nil {
		return 0
	}
	return m.ring.free()
}

func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ring != nil {
		m.ring.close()
	}

	var errs []error
	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stopping device: %w", err))
		}
		m.device.Uninit()
		m.device = nil
	}

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			errs = append(errs, fmt.Errorf("uninitializing context: %w", err))
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}

	return errors.Join(errs...)
}
