// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	wavPath := filepath.Join(t.TempDir(), "out.wav")

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr error
	}{
		{name: "default", opts: Options{}, want: "*sink.Malgo"},
		{name: "malgo", opts: Options{Backend: BackendMalgo}, want: "*sink.Malgo"},
		{name: "oto", opts: Options{Backend: BackendOto}, want: "*sink.Oto"},
		{name: "wav", opts: Options{Backend: BackendWAV, Path: wavPath}, want: "*sink.WAVFile"},
		{name: "wav without path", opts: Options{Backend: BackendWAV}, wantErr: ErrInvalidParams},
		{name: "unknown", opts: Options{Backend: "pulse"}, wantErr: ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := New(tt.opts, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			var got string
			switch s.(type) {
			case *Malgo:
				got = "*sink.Malgo"
			case *Oto:
				got = "*sink.Oto"
			case *WAVFile:
				got = "*sink.WAVFile"
			}
			if got != tt.want {
				t.Errorf("New() = %T, want %s", s, tt.want)
			}
		})
	}
}

func TestParams_Validate(t *testing.T) {
	t.Parallel()

	valid := Params{SampleRate: 22050, Channels: 1, PeriodFrames: 4096, BufferFrames: 16384}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate(%+v) = %v", valid, err)
	}

	for _, p := range []Params{
		{SampleRate: 0, Channels: 1, PeriodFrames: 4096, BufferFrames: 16384},
		{SampleRate: 22050, Channels: 2, PeriodFrames: 4096, BufferFrames: 16384},
		{SampleRate: 22050, Channels: 1, PeriodFrames: 0, BufferFrames: 16384},
		{SampleRate: 22050, Channels: 1, PeriodFrames: 4096, BufferFrames: 1024},
	} {
		if err := p.Validate(); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("Validate(%+v) = %v, want %v", p, err, ErrInvalidParams)
		}
	}
}

func TestParams_Durations(t *testing.T) {
	t.Parallel()

	p := Params{SampleRate: 8000, PeriodFrames: 4000}
	if got := p.PeriodDuration(); got != 500*time.Millisecond {
		t.Errorf("PeriodDuration() = %v, want 500ms", got)
	}
	if got := (Params{}).FramesDuration(100); got != 0 {
		t.Errorf("FramesDuration() at rate 0 = %v, want 0", got)
	}
}
