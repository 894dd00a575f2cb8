// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"testing"
)

type fakeDevice struct {
	started  bool
	startErr error
	starts   int
	stops    int
	uninit   bool
}

func (d *fakeDevice) Start() error {
	d.starts++
	if d.startErr != nil {
		return d.startErr
	}
	d.started = true
	return nil
}

func (d *fakeDevice) Stop() error {
	d.stops++
	d.started = false
	return nil
}

func (d *fakeDevice) IsStarted() bool    { return d.started }
func (d *fakeDevice) SampleRate() uint32 { return 22050 }
func (d *fakeDevice) Uninit()            { d.uninit = true }

func newTestMalgo(capacity int) (*Malgo, *fakeDevice) {
	dev := &fakeDevice{started: true}
	m := NewMalgo(slog.New(slog.DiscardHandler))
	m.device = dev
	m.ring = newRing(capacity)
	m.params = Params{SampleRate: 22050, Channels: 1, PeriodFrames: capacity / 4, BufferFrames: capacity}
	return m, dev
}

func TestMalgo_FillEncodesFrames(t *testing.T) {
	t.Parallel()

	m, _ := newTestMalgo(8)
	if err := m.WritePeriod([]int16{1, -2}); err != nil {
		t.Fatal(err)
	}

	out := make([]byte, 4)
	m.fill(out, 2)

	if a, b := int16(binary.LittleEndian.Uint16(out)), int16(binary.LittleEndian.Uint16(out[2:])); a != 1 || b != -2 {
		t.Errorf("callback wrote %d %d, want 1 -2", a, b)
	}
	if m.Available() != 8 {
		t.Errorf("Available() = %d, want 8", m.Available())
	}
}

func TestMalgo_SilenceBeforeFirstWriteIsNoUnderrun(t *testing.T) {
	t.Parallel()

	m, _ := newTestMalgo(8)
	m.fill(make([]byte, 8), 4)

	if err := m.WritePeriod([]int16{1, 2}); err != nil {
		t.Errorf("WritePeriod() error = %v, want nil", err)
	}
}

func TestMalgo_UnderrunReportedOnce(t *testing.T) {
	t.Parallel()

	m, dev := newTestMalgo(8)
	if err := m.WritePeriod([]int16{1, 2}); err != nil {
		t.Fatal(err)
	}

	// The device wants more than is queued.
	m.fill(make([]byte, 8), 4)

	err := m.WritePeriod([]int16{3, 4})
	if !errors.Is(err, ErrUnderrun) {
		t.Fatalf("WritePeriod() error = %v, want %v", err, ErrUnderrun)
	}
	if m.ring.len() != 0 {
		t.Errorf("failed write queued %d frames", m.ring.len())
	}

	dev.started = false
	if err := m.Recover(err); err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if dev.starts != 1 || !dev.started {
		t.Errorf("Recover() started the device %d times, started = %v", dev.starts, dev.started)
	}

	if err := m.WritePeriod([]int16{3, 4}); err != nil {
		t.Errorf("retried WritePeriod() error = %v", err)
	}
}

func TestMalgo_ResubmitAfterRecoverWhileDry(t *testing.T) {
	t.Parallel()

	m, _ := newTestMalgo(8)
	if err := m.WritePeriod([]int16{1, 2}); err != nil {
		t.Fatal(err)
	}
	m.fill(make([]byte, 8), 4)

	err := m.WritePeriod([]int16{3, 4})
	if !errors.Is(err, ErrUnderrun) {
		t.Fatalf("WritePeriod() error = %v, want %v", err, ErrUnderrun)
	}
	if err := m.Recover(err); err != nil {
		t.Fatalf("Recover() error = %v", err)
	}

	// The device keeps pulling from the empty ring before the retry lands.
	m.fill(make([]byte, 8), 4)
	m.fill(make([]byte, 8), 4)

	if err := m.WritePeriod([]int16{3, 4}); err != nil {
		t.Fatalf("resubmitted WritePeriod() error = %v, want nil", err)
	}
	if m.ring.len() != 2 {
		t.Errorf("ring holds %d frames, want 2", m.ring.len())
	}

	// Running dry again after the retry is a new underrun.
	m.fill(make([]byte, 8), 4)
	if err := m.WritePeriod([]int16{5, 6}); !errors.Is(err, ErrUnderrun) {
		t.Errorf("WritePeriod() after a new dry spell = %v, want %v", err, ErrUnderrun)
	}
}

func TestMalgo_RecoverClearsPendingUnderrun(t *testing.T) {
	t.Parallel()

	m, _ := newTestMalgo(8)
	if err := m.WritePeriod([]int16{1, 2}); err != nil {
		t.Fatal(err)
	}
	m.fill(make([]byte, 8), 4)

	// Recover without the failing write having consumed the flag.
	if err := m.Recover(ErrUnderrun); err != nil {
		t.Fatal(err)
	}
	if err := m.WritePeriod([]int16{3, 4}); err != nil {
		t.Errorf("WritePeriod() after Recover = %v, want nil", err)
	}
}

func TestMalgo_RecoverFatal(t *testing.T) {
	t.Parallel()

	errDevice := errors.New("device lost")

	m, _ := newTestMalgo(8)
	if err := m.Recover(errDevice); !errors.Is(err, ErrFatal) || !errors.Is(err, errDevice) {
		t.Errorf("Recover(other) = %v, want ErrFatal wrapping the cause", err)
	}

	m, dev := newTestMalgo(8)
	dev.started = false
	dev.startErr = errDevice
	if err := m.Recover(ErrUnderrun); !errors.Is(err, ErrFatal) || !errors.Is(err, errDevice) {
		t.Errorf("Recover() with failing restart = %v, want ErrFatal wrapping the cause", err)
	}
}

func TestMalgo_NotOpen(t *testing.T) {
	t.Parallel()

	m := NewMalgo(nil)
	if err := m.WritePeriod([]int16{1}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("WritePeriod() error = %v, want %v", err, ErrNotOpen)
	}
	if err := m.Recover(ErrUnderrun); !errors.Is(err, ErrFatal) {
		t.Errorf("Recover() error = %v, want %v", err, ErrFatal)
	}
	if m.Available() != 0 {
		t.Errorf("Available() = %d, want 0", m.Available())
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestMalgo_OpenRejectsParams(t *testing.T) {
	t.Parallel()

	_, err := NewMalgo(nil).Open(Params{SampleRate: 22050, Channels: 1})
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Open() error = %v, want %v", err, ErrInvalidParams)
	}
}

func TestMalgo_Close(t *testing.T) {
	t.Parallel()

	m, dev := newTestMalgo(8)
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if dev.stops != 1 || !dev.uninit {
		t.Errorf("Close() stops = %d, uninit = %v", dev.stops, dev.uninit)
	}
	if err := m.WritePeriod([]int16{1}); !errors.Is(err, ErrClosed) {
		t.Errorf("WritePeriod() after Close = %v, want %v", err, ErrClosed)
	}
}
