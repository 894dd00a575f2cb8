// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"slices"
	"sync"
	"testing"
)

// mockDecoder is a test decoder implementation
type mockDecoder struct {
	name string
}

func (d *mockDecoder) Decode(r io.Reader) (Source, error) {
	return newConstantSource(44100, 2, 100, 0), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "ogg"}

	registry.Register(decoder, "ogg", "oga")

	for _, name := range []string{"ogg", "oga", "OGG"} {
		got, ok := registry.Get(name)
		if !ok {
			t.Fatalf("Registry.Get(%q) failed to retrieve registered decoder", name)
		}
		if got != decoder {
			t.Errorf("Registry.Get(%q) returned different decoder instance", name)
		}
	}

	if _, ok := registry.Get("flac"); ok {
		t.Error("Registry.Get() returned ok=true for non-existent format")
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder1 := &mockDecoder{name: "first"}
	decoder2 := &mockDecoder{name: "second"}

	registry.Register(decoder1, "wav")
	registry.Register(decoder2, "wav")

	got, _ := registry.Get("wav")
	if got != decoder2 {
		t.Error("Registry.Get() did not return the overwritten decoder")
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	wavDecoder := &mockDecoder{name: "wav"}
	registry.Register(wavDecoder, "wav")

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"sounds/beep.wav", false},
		{"/abs/BEEP.WAV", false},
		{"noext", true},
		{"clip.mp3", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d, err := registry.ForPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ForPath(%q) error = %v, want ErrUnknownFormat", tt.path, err)
				}
				return
			}
			if err != nil || d != wavDecoder {
				t.Errorf("ForPath(%q) = %v, %v", tt.path, d, err)
			}
		})
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(&mockDecoder{}, "wav", "WAVE")
	registry.Register(&mockDecoder{}, "aiff")

	want := []string{"aiff", "wav", "wave"}
	if got := registry.Formats(); !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &mockDecoder{name: "test"}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Register(decoder, "format")
		}()
		go func() {
			defer wg.Done()
			_, _ = registry.Get("format")
		}()
	}
	wg.Wait()

	got, ok := registry.Get("format")
	if !ok || got != decoder {
		t.Error("Registry returned wrong decoder after concurrent operations")
	}
}

func TestFormat_IsMono16(t *testing.T) {
	t.Parallel()

	base := Format{SampleRate: 22050, Channels: 1, BitDepth: 16, Encoding: EncodingLinear}

	tests := []struct {
		name   string
		mutate func(*Format)
		want   bool
	}{
		{"exact match", func(*Format) {}, true},
		{"stereo", func(f *Format) { f.Channels = 2 }, false},
		{"8-bit", func(f *Format) { f.BitDepth = 8 }, false},
		{"other rate", func(f *Format) { f.SampleRate = 44100 }, false},
		{"compressed", func(f *Format) { f.Encoding = EncodingCompressed }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := base
			tt.mutate(&f)
			if got := f.IsMono16(22050); got != tt.want {
				t.Errorf("%v.IsMono16(22050) = %v, want %v", f, got, tt.want)
			}
		})
	}
}

func TestFormat_String(t *testing.T) {
	t.Parallel()

	f := Format{SampleRate: 44100, Channels: 2, BitDepth: 0, Encoding: EncodingCompressed}
	if got, want := f.String(), "44100Hz/2ch/0bit/compressed"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func BenchmarkRegistry_Get(b *testing.B) {
	registry := NewRegistry()
	registry.Register(&mockDecoder{}, "wav")

	b.ReportAllocs()

	for b.Loop() {
		_, _ = registry.Get("wav")
	}
}
