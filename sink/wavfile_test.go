// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/audmix/dsp"
	"github.com/ik5/audmix/formats/wav"
)

// fakeClock advances only when the sink sleeps or the test says so.
type fakeClock struct {
	t     time.Time
	slept time.Duration
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(d time.Duration) {
	c.slept += d
	c.t = c.t.Add(d)
}

var testParams = Params{SampleRate: 1000, Channels: 1, PeriodFrames: 100, BufferFrames: 400}

func newTestWAV(t *testing.T, realtime bool) (*WAVFile, *fakeClock, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mix.wav")
	clock := &fakeClock{t: time.Unix(1_000_000, 0)}

	s := NewWAVFile(path, realtime, slog.New(slog.DiscardHandler))
	s.now = clock.now
	s.sleep = clock.sleep

	if _, err := s.Open(testParams); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	return s, clock, path
}

func readWAV(t *testing.T, path string) []int16 {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("decoding rendered file: %v", err)
	}
	if got := src.Format(); !got.IsMono16(testParams.SampleRate) {
		t.Fatalf("rendered format = %v", got)
	}

	var out []int16
	buf := make([]float32, 64)
	for {
		n, err := src.ReadSamples(buf)
		for _, v := range buf[:n] {
			out = append(out, dsp.Float32ToInt16(v))
		}
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatal(err)
		}
	}
}

func period(v int16) []int16 {
	p := make([]int16, testParams.PeriodFrames)
	for i := range p {
		p[i] = v
	}
	return p
}

func TestWAVFile_Offline(t *testing.T) {
	t.Parallel()

	s, clock, path := newTestWAV(t, false)

	for v := range int16(5) {
		if err := s.WritePeriod(period(v * 100)); err != nil {
			t.Fatalf("WritePeriod() error = %v", err)
		}
		if s.Available() != testParams.BufferFrames {
			t.Fatalf("offline Available() = %d, want %d", s.Available(), testParams.BufferFrames)
		}
	}
	if clock.slept != 0 {
		t.Errorf("offline sink slept %v", clock.slept)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got := readWAV(t, path)
	if len(got) != 500 {
		t.Fatalf("rendered %d frames, want 500", len(got))
	}
	if got[0] != 0 || got[250] != 200 || got[499] != 400 {
		t.Errorf("frames 0, 250, 499 = %d %d %d, want 0 200 400", got[0], got[250], got[499])
	}
}

func TestWAVFile_RealtimeQueue(t *testing.T) {
	t.Parallel()

	s, clock, _ := newTestWAV(t, true)
	defer s.Close()

	// Four periods fill the queue without blocking.
	for range 4 {
		if err := s.WritePeriod(period(1)); err != nil {
			t.Fatal(err)
		}
	}
	if s.Available() != 0 {
		t.Fatalf("Available() = %d, want 0", s.Available())
	}
	if clock.slept != 0 {
		t.Fatalf("slept %v before the queue was full", clock.slept)
	}

	// The fifth waits one period for room.
	if err := s.WritePeriod(period(1)); err != nil {
		t.Fatal(err)
	}
	if clock.slept != 100*time.Millisecond {
		t.Errorf("slept %v, want 100ms", clock.slept)
	}

	clock.t = clock.t.Add(150 * time.Millisecond)
	if got := s.Available(); got != 150 {
		t.Errorf("Available() after 150ms = %d, want 150", got)
	}
}

func TestWAVFile_RealtimeUnderrun(t *testing.T) {
	t.Parallel()

	s, clock, path := newTestWAV(t, true)

	if err := s.WritePeriod(period(7)); err != nil {
		t.Fatal(err)
	}

	// The queue holds 100ms; come back after 300ms.
	clock.t = clock.t.Add(300 * time.Millisecond)

	err := s.WritePeriod(period(8))
	if !errors.Is(err, ErrUnderrun) {
		t.Fatalf("WritePeriod() error = %v, want %v", err, ErrUnderrun)
	}

	if err := s.Recover(err); err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if err := s.WritePeriod(period(8)); err != nil {
		t.Fatalf("WritePeriod() after Recover error = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	got := readWAV(t, path)
	if len(got) != 200 {
		t.Fatalf("rendered %d frames, want 200", len(got))
	}
	if got[99] != 7 || got[199] != 8 {
		t.Errorf("frames 99, 199 = %d %d, want 7 8", got[99], got[199])
	}
}

func TestWAVFile_RecoverFatal(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestWAV(t, true)
	defer s.Close()

	errDisk := errors.New("disk full")
	if err := s.Recover(errDisk); !errors.Is(err, ErrFatal) || !errors.Is(err, errDisk) {
		t.Errorf("Recover() = %v, want ErrFatal wrapping the cause", err)
	}
}

func TestWAVFile_EmptyRender(t *testing.T) {
	t.Parallel()

	s, _, path := newTestWAV(t, false)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 44 {
		t.Errorf("empty render is %d bytes, want a 44-byte header", info.Size())
	}
}

func TestWAVFile_Lifecycle(t *testing.T) {
	t.Parallel()

	s := NewWAVFile(filepath.Join(t.TempDir(), "x.wav"), false, nil)
	if err := s.WritePeriod(period(0)); !errors.Is(err, ErrNotOpen) {
		t.Errorf("WritePeriod() before Open = %v, want %v", err, ErrNotOpen)
	}
	if s.Available() != 0 {
		t.Errorf("Available() before Open = %d, want 0", s.Available())
	}

	if _, err := s.Open(testParams); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Open(testParams); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("second Open() = %v, want %v", err, ErrInvalidParams)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.WritePeriod(period(0)); !errors.Is(err, ErrClosed) {
		t.Errorf("WritePeriod() after Close = %v, want %v", err, ErrClosed)
	}

	bad := NewWAVFile(filepath.Join(t.TempDir(), "missing", "dir", "x.wav"), false, nil)
	if _, err := bad.Open(testParams); err == nil {
		t.Error("Open() in a missing directory succeeded")
	}
}
