// SPDX-License-Identifier: EPL-2.0

package sink

import "sync"

// ring is a fixed-capacity frame queue between a blocking writer and a
// device callback that must never block.
type ring struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	buf      []int16
	readPos  int
	writePos int
	count    int
	closed   bool
}

func newRing(capacity int) *ring {
	r := &ring{buf: make([]int16, capacity)}
	r.notFull = sync.NewCond(&r.mu)
	return r
}

// write queues every frame, waiting for room as needed. It fails only when
// the ring is closed; frames queued before that stay queued.
func (r *ring) write(frames []int16) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for len(frames) > 0 {
		for r.count == len(r.buf) && !r.closed {
			r.notFull.Wait()
		}
		if r.closed {
			return ErrClosed
		}

		n := min(len(frames), len(r.buf)-r.count)
		for _, f := range frames[:n] {
			r.buf[r.writePos] = f
			r.writePos = (r.writePos + 1) % len(r.buf)
		}
		r.count += n
		frames = frames[n:]
	}

	return nil
}

// read fills dst, zero-filling what the queue cannot provide, and returns
// the number of queued frames consumed.
func (r *ring) read(dst []int16) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := min(len(dst), r.count)
	for i := range n {
		dst[i] = r.buf[r.readPos]
		r.readPos = (r.readPos + 1) % len(r.buf)
	}
	clear(dst[n:])
	r.count -= n

	if n > 0 {
		r.notFull.Broadcast()
	}

	return n
}

func (r *ring) free() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf) - r.count
}

func (r *ring) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// close wakes blocked writers; later writes fail with ErrClosed.
func (r *ring) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.notFull.Broadcast()
}
