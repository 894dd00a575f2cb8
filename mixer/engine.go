// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/sink"
)

// Engine mixes a Pool into a sink from a single background goroutine.
//
// Control methods are safe for concurrent use and keep working after the
// engine stopped; they just have no audible effect any more.
type Engine struct {
	pool   *Pool
	sink   sink.Sink
	params sink.Params
	logger *slog.Logger

	stopWhenIdle bool

	running atomic.Bool
	state   atomic.Int32
	stats   counters

	// wait sleeps for d or until quit closes. It reports false on quit.
	wait func(d time.Duration) bool

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	errMu sync.Mutex
	err   error
}

// Start opens s with the stream described by cfg and starts mixing. The
// sink is owned by the engine from then on and closed when it stops.
//
// Configuration and open failures wrap ErrConfiguration; the engine did not
// start and s is left closed.
func Start(cfg Config, s sink.Sink) (*Engine, error) {
	e, err := newEngine(cfg, s)
	if err != nil {
		return nil, err
	}

	e.launch()
	return e, nil
}

func newEngine(cfg Config, s sink.Sink) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: no sink", ErrConfiguration)
	}

	logger := cfg.logger()

	pool, err := NewPool(cfg.Channels, cfg.SampleRate, cfg.PreserveVolume)
	if err != nil {
		return nil, err
	}

	req := cfg.sinkParams()
	granted, err := s.Open(req)
	if err == nil {
		err = granted.Validate()
	}
	if err != nil {
		if cerr := s.Close(); cerr != nil {
			logger.Warn("mixer: closing sink after failed open", "error", cerr)
		}
		return nil, fmt.Errorf("%w: opening sink: %w", ErrConfiguration, err)
	}

	if granted.SampleRate != req.SampleRate {
		logger.Warn("mixer: sink granted a different sample rate, clips will play off-pitch",
			"requested", req.SampleRate,
			"granted", granted.SampleRate)
	}

	e := &Engine{
		pool:   pool,
		sink:   s,
		params: granted,
		logger: logger,

		stopWhenIdle: cfg.StopWhenIdle,

		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	e.wait = e.sleep

	return e, nil
}

func (e *Engine) launch() {
	e.running.Store(true)
	e.state.Store(int32(StateRunning))

	e.logger.Info("mixer: started",
		"channels", e.pool.Capacity(),
		"sample_rate", e.params.SampleRate,
		"period_frames", e.params.PeriodFrames,
		"buffer_frames", e.params.BufferFrames)

	go e.loop()
}

func (e *Engine) loop() {
	defer close(e.done)

	out := make([]int16, e.params.PeriodFrames)
	heard := false

	for e.running.Load() {
		mixed := e.pool.Mix(out)

		if e.stopWhenIdle {
			if mixed == 0 && !heard {
				if !e.wait(e.params.PeriodDuration()) {
					break
				}
				continue
			}
			if mixed == 0 {
				e.logger.Debug("mixer: pool is idle, stopping")
				if e.running.CompareAndSwap(true, false) {
					e.state.CompareAndSwap(int32(StateRunning), int32(StateDraining))
				}
				break
			}
			heard = true
		}

		if err := e.write(out); err != nil {
			if e.running.CompareAndSwap(true, false) {
				e.state.CompareAndSwap(int32(StateRunning), int32(StateDraining))
			}
			e.setErr(err)
			e.logger.Error("mixer: sink failed, stopping", "error", err)
			break
		}

		if !e.running.Load() {
			break
		}
		e.pace()
	}

	if err := e.sink.Close(); err != nil {
		e.logger.Warn("mixer: closing sink", "error", err)
		e.setErr(fmt.Errorf("closing sink: %w", err))
	}
	e.state.Store(int32(StateStopped))

	e.logger.Info("mixer: stopped", "periods", e.stats.periods.Load())
}

// write submits out, recovering the sink once if it fails.
func (e *Engine) write(out []int16) error {
	err := e.sink.WritePeriod(out)
	if err == nil {
		e.stats.periods.Add(1)
		return nil
	}
	e.stats.writeFailures.Add(1)

	if rerr := e.sink.Recover(err); rerr != nil {
		return fmt.Errorf("%w: %w", ErrFatalSink, rerr)
	}
	e.stats.recoveries.Add(1)
	e.logger.Warn("mixer: recovered sink", "error", err)

	if err := e.sink.WritePeriod(out); err != nil {
		e.stats.writeFailures.Add(1)
		return fmt.Errorf("%w: second consecutive failure: %w", ErrFatalSink, err)
	}
	e.stats.periods.Add(1)

	return nil
}

// pace sleeps while the sink holds more than a period, waking when one
// period is left so the next write lands before the queue runs dry.
func (e *Engine) pace() {
	queued := e.params.BufferFrames - e.sink.Available()
	if queued <= e.params.PeriodFrames {
		return
	}

	e.stats.pacedSleeps.Add(1)
	e.wait(e.params.FramesDuration(queued - e.params.PeriodFrames))
}

func (e *Engine) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-e.quit:
		return false
	}
}

func (e *Engine) setErr(err error) {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	e.err = errors.Join(e.err, err)
}

// Stop asks the mixing goroutine to finish the period in flight, waits for
// it to close the sink and returns Err. Calling it again is harmless.
func (e *Engine) Stop() error {
	e.stopOnce.Do(func() {
		if e.running.CompareAndSwap(true, false) {
			e.state.CompareAndSwap(int32(StateRunning), int32(StateDraining))
		}
		close(e.quit)
	})
	<-e.done

	return e.Err()
}

// Err is the reason the engine stopped on its own, nil while it runs or
// after a clean Stop. A sink failure wraps ErrFatalSink.
func (e *Engine) Err() error {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.err
}

// Done is closed once the mixing goroutine exited and the sink is closed.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

func (e *Engine) State() State {
	return State(e.state.Load())
}

// IsAvailable reports whether the engine is running and can be heard.
func (e *Engine) IsAvailable() bool {
	return e.State() == StateRunning
}

// Params is the stream the sink granted.
func (e *Engine) Params() sink.Params {
	return e.params
}

func (e *Engine) Stats() Stats {
	return e.stats.snapshot()
}

func (e *Engine) Capacity() int {
	return e.pool.Capacity()
}

func (e *Engine) Assign(id int, buf *clip.Buffer) error {
	return e.pool.Assign(id, buf)
}

func (e *Engine) SetPlaying(id int, playing bool) error {
	return e.pool.SetPlaying(id, playing)
}

func (e *Engine) SetPlayingAll(playing bool) {
	e.pool.SetPlayingAll(playing)
}

func (e *Engine) Clear(id int) error {
	return e.pool.Clear(id)
}

func (e *Engine) ClearAll() {
	e.pool.ClearAll()
}

func (e *Engine) SetVolume(id int, ratio float64) error {
	return e.pool.SetVolume(id, ratio)
}

func (e *Engine) SetVolumeAll(ratio float64) {
	e.pool.SetVolumeAll(ratio)
}

func (e *Engine) Status(id int) (ChannelStatus, error) {
	return e.pool.Status(id)
}
