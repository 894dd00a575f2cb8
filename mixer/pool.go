// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"

	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/dsp"
)

// Pool is a fixed set of channels addressed by index. It holds references
// to clips, never copies of their frames.
//
// All methods are safe for concurrent use. Mix is meant to be called from
// one goroutine at a time.
type Pool struct {
	slots          []Channel
	sampleRate     int
	preserveVolume bool
}

// NewPool creates capacity idle channels at full volume. Clips whose rate
// differs from sampleRate are refused by Assign; 0 accepts any rate.
func NewPool(capacity, sampleRate int, preserveVolume bool) (*Pool, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: pool capacity must be positive, got %d", ErrConfiguration, capacity)
	}

	p := &Pool{
		slots:          make([]Channel, capacity),
		sampleRate:     sampleRate,
		preserveVolume: preserveVolume,
	}
	for i := range p.slots {
		p.slots[i].volume = fullVolume
	}

	return p, nil
}

func (p *Pool) Capacity() int {
	return len(p.slots)
}

func (p *Pool) slot(id int) (*Channel, error) {
	if id < 0 || id >= len(p.slots) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidChannel, id, len(p.slots))
	}
	return &p.slots[id], nil
}

// Assign starts buf on channel id from its first frame. A nil or empty
// clip, or one at another sample rate, is ignored.
func (p *Pool) Assign(id int, buf *clip.Buffer) error {
	c, err := p.slot(id)
	if err != nil {
		return err
	}
	if !buf.Valid() || (p.sampleRate > 0 && buf.SampleRate() != p.sampleRate) {
		return nil
	}

	c.assign(buf, p.preserveVolume)
	return nil
}

// SetPlaying pauses or resumes channel id. The cursor is kept.
func (p *Pool) SetPlaying(id int, playing bool) error {
	c, err := p.slot(id)
	if err != nil {
		return err
	}

	c.setPlaying(playing)
	return nil
}

// SetPlayingAll applies SetPlaying to every channel, one at a time.
func (p *Pool) SetPlayingAll(playing bool) {
	for i := range p.slots {
		p.slots[i].setPlaying(playing)
	}
}

// Clear drops the clip of channel id and marks it inactive.
func (p *Pool) Clear(id int) error {
	c, err := p.slot(id)
	if err != nil {
		return err
	}

	c.clear()
	return nil
}

func (p *Pool) ClearAll() {
	for i := range p.slots {
		p.slots[i].clear()
	}
}

// SetVolume sets channel id to ratio of full volume. The ratio is clamped
// to [0, 1] and stored as a whole percent.
func (p *Pool) SetVolume(id int, ratio float64) error {
	c, err := p.slot(id)
	if err != nil {
		return err
	}

	c.setVolume(dsp.Percent(ratio))
	return nil
}

func (p *Pool) SetVolumeAll(ratio float64) {
	v := dsp.Percent(ratio)
	for i := range p.slots {
		p.slots[i].setVolume(v)
	}
}

// Status returns a copy of channel id's state.
func (p *Pool) Status(id int) (ChannelStatus, error) {
	c, err := p.slot(id)
	if err != nil {
		return ChannelStatus{}, err
	}
	return c.status(), nil
}

// Mix overwrites out with the sum of every audible channel, advancing each
// of them by up to len(out) frames. It returns how many channels were
// mixed.
func (p *Pool) Mix(out []int16) int {
	clear(out)

	mixed := 0
	for i := range p.slots {
		c := &p.slots[i]

		s := c.snapshot()
		if !s.audible() {
			continue
		}

		c.advance(s.gen, s.mixInto(out))
		mixed++
	}

	return mixed
}
