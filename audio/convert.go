// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/dsp"
)

// ToMono16 drains src into mono 16-bit PCM at targetRate.
//
// The pipeline only adds the stages it needs:
//  1. MonoMixer when src has more than one channel
//  2. Resampler when the rate differs from targetRate
//  3. float32 -> int16 quantisation
//
// bufferSize is the read block in samples; values <= 0 use 4096.
// A mono 16-bit source already at targetRate comes out sample-exact.
func ToMono16(src Source, targetRate int, bufferSize int) ([]int16, error) {
	if bufferSize <= 0 {
		bufferSize = 4096
	}

	var stage Source = src
	if stage.Format().Channels != 1 {
		stage = NewMonoMixer(stage)
	}
	if stage.Format().SampleRate != targetRate {
		r, err := NewResampler(stage, targetRate)
		if err != nil {
			return nil, err
		}
		stage = r
	}

	pcm16 := make([]int16, 0, targetRate)
	buf := make([]float32, bufferSize)
	empty := 0

	for {
		n, err := stage.ReadSamples(buf)
		if n == 0 && err == nil {
			empty++
			if empty >= maxEmptyReads {
				return nil, io.ErrNoProgress
			}
			continue
		}
		empty = 0

		for _, v := range buf[:n] {
			pcm16 = append(pcm16, dsp.Float32ToInt16(v))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
	}

	return pcm16, nil
}
