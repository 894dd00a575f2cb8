// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
)

// Example_resampler demonstrates how to use the Resampler to change sample rates.
func Example_resampler() {
	// One second of a 440Hz tone at 44.1kHz
	source := audiotest.NewSineSource(44100, 1, 44100, 440.0)

	resampler, err := audio.NewResampler(source, 22050)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Output sample rate: %d Hz\n", resampler.Format().SampleRate)

	buf := make([]float32, 4096)
	total := 0
	for {
		n, err := resampler.ReadSamples(buf)
		total += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}

	fmt.Printf("Total samples read: %d\n", total)
	// Output:
	// Output sample rate: 22050 Hz
	// Total samples read: 22050
}

// Example_monoMixer demonstrates converting stereo to mono.
func Example_monoMixer() {
	source := audiotest.NewConstantSource(16000, 2, 160, 0.25)
	mono := audio.NewMonoMixer(source)

	fmt.Printf("Input channels: %d\n", source.Format().Channels)
	fmt.Printf("Output channels: %d\n", mono.Format().Channels)

	buf := make([]float32, 4)
	n, _ := mono.ReadSamples(buf)
	fmt.Printf("First frames: %v\n", buf[:n])
	// Output:
	// Input channels: 2
	// Output channels: 1
	// First frames: [0.25 0.25 0.25 0.25]
}

// Example_toMono16 shows the full conversion to the mixer's sample format.
func Example_toMono16() {
	source := audiotest.NewConstantSource(44100, 2, 4410, 0.5)

	pcm, err := audio.ToMono16(source, 22050, 1024)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Frames: %d\n", len(pcm))
	fmt.Printf("First sample: %d\n", pcm[0])
	// Output:
	// Frames: 2205
	// First sample: 16384
}
