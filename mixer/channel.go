// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"sync"

	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/dsp"
)

const fullVolume = 100

// Channel is one playback slot. Control callers and the mixing goroutine
// share it; every field is guarded by mu, which is only held long enough to
// copy or store a few words.
type Channel struct {
	mu      sync.Mutex
	buf     *clip.Buffer
	cursor  int
	volume  uint8
	playing bool
	active  bool
	// gen changes whenever buf or cursor is replaced by a control caller, so
	// a mixer holding an older snapshot does not move the new cursor.
	gen uint64
}

// ChannelStatus is a point-in-time copy of a channel.
type ChannelStatus struct {
	// Frames is the length of the assigned clip, 0 when none is assigned.
	Frames  int
	Cursor  int
	Volume  uint8
	Playing bool
	Active  bool
}

type snapshot struct {
	buf     *clip.Buffer
	cursor  int
	volume  uint8
	playing bool
	active  bool
	gen     uint64
}

// audible reports whether the snapshot contributes to the next period.
func (s snapshot) audible() bool {
	return s.active && s.playing && s.buf.Valid() && s.cursor < s.buf.Len()
}

func (c *Channel) snapshot() snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return snapshot{
		buf:     c.buf,
		cursor:  c.cursor,
		volume:  c.volume,
		playing: c.playing,
		active:  c.active,
		gen:     c.gen,
	}
}

func (c *Channel) assign(buf *clip.Buffer, preserveVolume bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf = buf
	c.cursor = 0
	c.playing = true
	c.active = true
	if !preserveVolume {
		c.volume = fullVolume
	}
	c.gen++
}

func (c *Channel) setPlaying(playing bool) {
	c.mu.Lock()
	c.playing = playing
	c.mu.Unlock()
}

func (c *Channel) setVolume(percent uint8) {
	c.mu.Lock()
	c.volume = percent
	c.mu.Unlock()
}

func (c *Channel) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf = nil
	c.cursor = 0
	c.active = false
	c.gen++
}

// advance moves the cursor to cursor if nothing was assigned or cleared
// since the snapshot taken at gen, and deactivates the channel at the end
// of its clip.
func (c *Channel) advance(gen uint64, cursor int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return
	}
	c.cursor = cursor
	if cursor >= c.buf.Len() {
		c.active = false
	}
}

func (c *Channel) status() ChannelStatus {
	s := c.snapshot()
	return ChannelStatus{
		Frames:  s.buf.Len(),
		Cursor:  s.cursor,
		Volume:  s.volume,
		Playing: s.playing,
		Active:  s.active,
	}
}

// mixInto adds up to len(out) frames of the snapshot to out and returns
// the new cursor.
func (s snapshot) mixInto(out []int16) int {
	n := min(len(out), s.buf.Len()-s.cursor)
	for i := range n {
		v := dsp.Attenuate(s.buf.SampleAt(s.cursor+i), s.volume)
		out[i] = dsp.SaturateAdd16(out[i], v)
	}
	return s.cursor + n
}
