package waywin

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"deedles.dev/waywin/internal/logger"
	"deedles.dev/waywin/shm"
	"deedles.dev/waywin/win"
	"deedles.dev/waywin/wl"
)

// ShmBuffer is one shared-memory buffer. busy is set while the
// compositor holds the buffer and cleared only from the release
// event. damage is the set of rectangles whose content in this
// buffer is stale relative to the newest commit.
type ShmBuffer struct {
	q      *BufferQueue
	wl     *wl.Buffer
	file   *os.File
	mem    shm.Mmap
	width  int32
	height int32
	stride int32
	format wl.ShmFormat

	busy          atomic.Bool
	dropOnRelease atomic.Bool
	seq           uint64
	damage        win.Region
}

// Pixels returns the mapped buffer memory.
func (b *ShmBuffer) Pixels() []byte { return b.mem }

// Stride returns the row pitch in bytes.
func (b *ShmBuffer) Stride() int32 { return b.stride }

// Size returns the buffer dimensions.
func (b *ShmBuffer) Size() (width, height int32) { return b.width, b.height }

// Format returns the buffer's pixel format.
func (b *ShmBuffer) Format() wl.ShmFormat { return b.format }

// markBusy hands the buffer to the compositor.
func (b *ShmBuffer) markBusy() {
	b.busy.Store(true)
}

// ClearBusy takes the buffer back after a commit was dropped without
// attaching it.
func (b *ShmBuffer) ClearBusy() {
	b.busy.Store(false)
}

func (b *ShmBuffer) release() {
	b.busy.Store(false)
	if b.dropOnRelease.Load() {
		b.destroy()
	}
}

func (b *ShmBuffer) destroy() {
	b.wl.Destroy()
	if err := b.mem.Unmap(); err != nil {
		logger.Warnf("unmap buffer: %v", err)
	}
	b.file.Close()
}

// BufferQueue recycles SHM buffers of a single size and format. A
// size or format change rebuilds the queue from scratch.
type BufferQueue struct {
	s *Session

	mu      sync.Mutex
	width   int32
	height  int32
	format  wl.ShmFormat
	buffers []*ShmBuffer
	damage  win.Region
	seq     uint64
}

func newBufferQueue(s *Session, width, height int32, format wl.ShmFormat) *BufferQueue {
	return &BufferQueue{
		s:      s,
		width:  width,
		height: height,
		format: format,
	}
}

// Matches reports whether the queue already has the wanted geometry.
func (q *BufferQueue) Matches(width, height int32, format wl.ShmFormat) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.width == width && q.height == height && q.format == format
}

// AddDamage extends the accumulated damage of the queue and of every
// buffer it holds.
func (q *BufferQueue) AddDamage(rgn win.Region) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.damage = append(q.damage, rgn...)
	for _, b := range q.buffers {
		b.damage = append(b.damage, rgn...)
	}
}

// Acquire returns a non-busy buffer together with the region the
// caller must redraw to bring the buffer fully up to date. A buffer
// whose stale region is exactly the accumulated damage is preferred,
// so no backfill copy is needed; otherwise a pixel copy from the
// freshest non-busy buffer backfills the chosen one and only the
// freshest buffer's stale region remains to redraw. All else
// failing, a fresh buffer is allocated and the whole rectangle must
// be redrawn.
func (q *BufferQueue) Acquire() (*ShmBuffer, win.Region, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var chosen, freshest *ShmBuffer
	for _, b := range q.buffers {
		if b.busy.Load() {
			continue
		}
		if freshest == nil || b.seq > freshest.seq {
			freshest = b
		}
		if chosen == nil && regionsEqual(b.damage, q.damage) {
			chosen = b
		}
	}

	var redraw win.Region
	switch {
	case chosen != nil:
		redraw = chosen.damage
	case freshest != nil:
		chosen = q.stalestLocked()
		if chosen != freshest {
			copy(chosen.mem, freshest.mem)
			chosen.damage = freshest.damage
		}
		redraw = chosen.damage
	default:
		b, err := q.allocateLocked()
		if err != nil {
			return nil, nil, err
		}
		q.buffers = append(q.buffers, b)
		chosen = b
		redraw = win.Region{win.MakeRect(0, 0, q.width, q.height)}
	}

	chosen.damage = nil
	q.retireDamageLocked()
	return chosen, redraw, nil
}

// stalestLocked returns the non-busy buffer with the oldest content.
func (q *BufferQueue) stalestLocked() *ShmBuffer {
	var stalest *ShmBuffer
	for _, b := range q.buffers {
		if b.busy.Load() {
			continue
		}
		if stalest == nil || b.seq < stalest.seq {
			stalest = b
		}
	}
	return stalest
}

// retireDamageLocked drops the queue's accumulated damage once no
// held buffer still carries any of it.
func (q *BufferQueue) retireDamageLocked() {
	for _, b := range q.buffers {
		if len(b.damage) != 0 {
			return
		}
	}
	q.damage = nil
}

func (q *BufferQueue) allocateLocked() (*ShmBuffer, error) {
	stride := q.width * 4
	size := int64(stride) * int64(q.height)
	file, err := shm.Create(size)
	if err != nil {
		return nil, fmt.Errorf("allocate buffer: %w", err)
	}
	mem, err := shm.MapShared(file, int(size), unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("map buffer: %w", err)
	}

	pool := q.s.shm.CreatePool(file, int32(size))
	buf := pool.CreateBuffer(0, q.width, q.height, stride, q.format)
	pool.Destroy()

	b := &ShmBuffer{
		q:      q,
		wl:     buf,
		file:   file,
		mem:    mem,
		width:  q.width,
		height: q.height,
		stride: stride,
		format: q.format,
	}
	buf.Release = b.release
	q.s.client.AttachQueue(buf, q.s.releaseQueue)
	return b, nil
}

// Committed records that b was just handed to the compositor,
// making it the freshest buffer in the queue.
func (q *BufferQueue) Committed(b *ShmBuffer) {
	q.mu.Lock()
	q.seq++
	b.seq = q.seq
	q.mu.Unlock()
}

// Destroy tears the queue down. Busy buffers are kept alive until
// the compositor releases them.
func (q *BufferQueue) Destroy() {
	q.mu.Lock()
	buffers := q.buffers
	q.buffers = nil
	q.damage = nil
	q.mu.Unlock()

	for _, b := range buffers {
		if b.busy.Load() {
			b.dropOnRelease.Store(true)
			continue
		}
		b.destroy()
	}
}

func regionsEqual(a, b win.Region) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
