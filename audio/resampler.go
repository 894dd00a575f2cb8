// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/dsp"
)

// maxEmptyReads bounds how many times the resampler retries a source that
// returns neither samples nor an error.
const maxEmptyReads = 100

var ErrNotMono = errors.New("resampler needs a mono source")

// Resampler converts a mono source to another sample rate with Catmull-Rom
// interpolation. Edge samples are repeated so the first and last input
// samples are reproduced exactly. When downsampling a one-pole low-pass runs
// over the input to tame aliasing.
type Resampler struct {
	src    Source
	format Format
	ratio  float64 // source samples per output sample

	// window[1] is input sample idx, window[2] is idx+1, and so on.
	window [4]float32
	idx    int
	real   int // input samples read so far
	pos    float64
	primed bool
	done   bool

	srcBuf []float32
	srcPos int
	srcLen int
	eof    bool
	last   float32

	useFilter   bool
	filterAlpha float32
	filterState float32
}

func NewResampler(src Source, dstRate int) (*Resampler, error) {
	f := src.Format()
	if f.Channels != 1 {
		return nil, fmt.Errorf("%w: got %d channels", ErrNotMono, f.Channels)
	}
	if dstRate <= 0 || f.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid rates %d -> %d", f.SampleRate, dstRate)
	}

	ratio := float64(f.SampleRate) / float64(dstRate)
	out := f
	out.SampleRate = dstRate

	r := &Resampler{
		src:       src,
		format:    out,
		ratio:     ratio,
		srcBuf:    make([]float32, 4096),
		useFilter: ratio > 1,
	}
	if r.useFilter {
		r.filterAlpha = 0.5
	}

	return r, nil
}

func (r *Resampler) Format() Format { return r.format }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull returns the next input sample, repeating the final one after EOF.
func (r *Resampler) pull() (float32, error) {
	empty := 0
	for r.srcPos >= r.srcLen {
		if r.eof {
			return r.last, nil
		}

		n, err := r.src.ReadSamples(r.srcBuf)
		r.srcPos, r.srcLen = 0, n
		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return 0, fmt.Errorf("%w", err)
		}

		if n == 0 && !r.eof {
			empty++
			if empty >= maxEmptyReads {
				return 0, io.ErrNoProgress
			}
		}
	}

	v := r.srcBuf[r.srcPos]
	r.srcPos++
	r.real++

	if r.useFilter {
		if r.real == 1 {
			r.filterState = v
		}
		v = r.filterAlpha*v + (1-r.filterAlpha)*r.filterState
		r.filterState = v
	}
	r.last = v

	return v, nil
}

func (r *Resampler) prime() error {
	first, err := r.pull()
	if err != nil {
		return err
	}
	if r.real == 0 {
		r.done = true
		return nil
	}

	r.window[0], r.window[1] = first, first
	for i := 2; i < 4; i++ {
		if r.window[i], err = r.pull(); err != nil {
			return err
		}
	}
	r.primed = true

	return nil
}

func (r *Resampler) advance() error {
	copy(r.window[:3], r.window[1:])
	v, err := r.pull()
	if err != nil {
		return err
	}
	r.window[3] = v
	r.idx++

	return nil
}

// ReadSamples produces up to len(dst) samples at the target rate.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if !r.primed && !r.done {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	for written < len(dst) && !r.done {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written, err
			}
		}

		if r.idx >= r.real {
			r.done = true
			break
		}

		w := &r.window
		dst[written] = dsp.CubicInterpolate(w[0], w[1], w[2], w[3], float32(r.pos))
		written++
		r.pos += r.ratio
	}

	if r.done {
		return written, io.EOF
	}

	return written, nil
}
