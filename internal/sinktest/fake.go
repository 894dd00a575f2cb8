// SPDX-License-Identifier: EPL-2.0

// Package sinktest provides a scripted sink.Sink for engine tests.
package sinktest

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ik5/audmix/sink"
)

// Fake records every period written to it. Failures are scripted per write
// attempt, counting from 1.
type Fake struct {
	mu   sync.Mutex
	cond *sync.Cond

	// Granted overrides the params returned by Open when non-zero.
	Granted sink.Params
	// OpenErr is returned by Open.
	OpenErr error

	writeErrs  map[int]error
	recoverErr error
	avail      int
	availSet   bool

	closeEntered chan struct{}
	closeGate    chan struct{}

	params   sink.Params
	opened   bool
	closed   bool
	attempts int
	periods  [][]int16
	recovers []error
}

func New() *Fake {
	f := &Fake{writeErrs: make(map[int]error)}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// FailWrite makes write attempt n (1-based) fail with err.
func (f *Fake) FailWrite(n int, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErrs[n] = err
	return f
}

// FailRecover makes every Recover call fail with err wrapped in sink.ErrFatal.
func (f *Fake) FailRecover(err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recoverErr = err
	return f
}

// SetAvailable pins the value Available reports. By default the queue is
// always empty.
func (f *Fake) SetAvailable(n int) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.avail = n
	f.availSet = true
	return f
}

func (f *Fake) Open(req sink.Params) (sink.Params, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.OpenErr != nil {
		return sink.Params{}, f.OpenErr
	}
	if err := req.Validate(); err != nil {
		return sink.Params{}, err
	}

	f.params = req
	if f.Granted != (sink.Params{}) {
		f.params = f.Granted
	}
	f.opened = true

	return f.params, nil
}

func (f *Fake) WritePeriod(frames []int16) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return sink.ErrClosed
	}
	if !f.opened {
		return sink.ErrNotOpen
	}

	f.attempts++
	defer f.cond.Broadcast()

	if err, ok := f.writeErrs[f.attempts]; ok {
		return err
	}
	f.periods = append(f.periods, slices.Clone(frames))

	return nil
}

func (f *Fake) Recover(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.recovers = append(f.recovers, err)
	if f.recoverErr != nil {
		return fmt.Errorf("%w: %w", sink.ErrFatal, f.recoverErr)
	}
	return nil
}

func (f *Fake) Available() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.availSet {
		return f.avail
	}
	return f.params.BufferFrames
}

// HoldClose makes the next Close block until release is called. entered is
// closed once Close is waiting.
func (f *Fake) HoldClose() (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closeEntered = make(chan struct{})
	f.closeGate = make(chan struct{})

	var once sync.Once
	gate := f.closeGate
	return f.closeEntered, func() { once.Do(func() { close(gate) }) }
}

func (f *Fake) Close() error {
	f.mu.Lock()
	entered, gate := f.closeEntered, f.closeGate
	f.closeEntered, f.closeGate = nil, nil
	f.mu.Unlock()

	if gate != nil {
		close(entered)
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.cond.Broadcast()
	return nil
}

// Periods returns copies of the periods written so far.
func (f *Fake) Periods() [][]int16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.periods)
}

// Frames concatenates every period written so far.
func (f *Fake) Frames() []int16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Concat(f.periods...)
}

// Attempts counts WritePeriod calls on an open sink, failed ones included.
func (f *Fake) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

// Recovers returns the errors passed to Recover.
func (f *Fake) Recovers() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.recovers)
}

func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// WaitPeriods blocks until at least n periods were written, the sink was
// closed, or timeout passed. It reports whether n periods arrived.
func (f *Fake) WaitPeriods(n int, timeout time.Duration) bool {
	timer := time.AfterFunc(timeout, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cond.Broadcast()
	})
	defer timer.Stop()

	deadline := time.Now().Add(timeout)

	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.periods) < n && !f.closed && time.Now().Before(deadline) {
		f.cond.Wait()
	}
	return len(f.periods) >= n
}

var _ sink.Sink = (*Fake)(nil)
