// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// chunkSize is how many samples are handed to the encoder at a time.
const chunkSize = 8192

// WriteWAV16 writes samples as a mono 16-bit PCM WAV. The sizes in the
// header are patched on the way out, so w must be seekable. w is not closed.
func WriteWAV16(w io.WriteSeeker, sampleRate int, samples []int16) error {
	enc := wav.NewEncoder(w, sampleRate, 16, 1, formatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, 0, min(len(samples), chunkSize)),
		SourceBitDepth: 16,
	}

	// The first Write emits the headers, even for an empty clip.
	for i := 0; i == 0 || i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		buf.Data = buf.Data[:len(chunk)]
		for j, s := range chunk {
			buf.Data[j] = int(s)
		}

		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("writing wav data: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav header: %w", err)
	}

	return nil
}
