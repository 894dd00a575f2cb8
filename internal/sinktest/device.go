// SPDX-License-Identifier: EPL-2.0

package sinktest

import (
	"sync"
	"time"

	"github.com/ik5/audmix/sink"
)

// Device is a Fake whose queue drains at the stream rate on a simulated
// clock. Sleep advances the clock by the requested duration plus overshoot
// times it, like a scheduler that wakes late. A write after the queue ran
// dry fails with sink.ErrUnderrun.
type Device struct {
	*Fake

	mu        sync.Mutex
	overshoot float64
	params    sink.Params
	now       time.Duration
	start     time.Duration
	written   int
}

func NewDevice(overshoot float64) *Device {
	return &Device{Fake: New(), overshoot: overshoot}
}

func (d *Device) Open(req sink.Params) (sink.Params, error) {
	p, err := d.Fake.Open(req)
	if err != nil {
		return p, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.params = p

	return p, nil
}

// played counts frames consumed since the last restart. d.mu is held.
func (d *Device) played() int {
	return int(int64(d.now-d.start) * int64(d.params.SampleRate) / int64(time.Second))
}

// WritePeriod blocks, by advancing the clock, while the queue has no room.
func (d *Device) WritePeriod(frames []int16) error {
	d.mu.Lock()
	played := d.played()
	if played > d.written {
		d.mu.Unlock()
		return sink.ErrUnderrun
	}
	if over := d.written - played + len(frames) - d.params.BufferFrames; over > 0 {
		d.now += d.params.FramesDuration(over)
	}
	d.written += len(frames)
	d.mu.Unlock()

	return d.Fake.WritePeriod(frames)
}

// Recover restarts the clock with an empty queue.
func (d *Device) Recover(err error) error {
	d.mu.Lock()
	d.start, d.written = d.now, 0
	d.mu.Unlock()

	return d.Fake.Recover(err)
}

func (d *Device) Available() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	queued := max(d.written-d.played(), 0)
	return d.params.BufferFrames - queued
}

func (d *Device) Sleep(dur time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.now += dur + time.Duration(float64(dur)*d.overshoot)
}

var _ sink.Sink = (*Device)(nil)
