package waywin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deedles.dev/waywin/shm"
	"deedles.dev/waywin/win"
)

func TestBufferQueueAcquire(t *testing.T) {
	d1 := win.MakeRect(0, 0, 10, 10)
	d2 := win.MakeRect(20, 0, 10, 10)
	d3 := win.MakeRect(40, 0, 10, 10)

	t.Run("redraw covers damage from earlier flushes", func(t *testing.T) {
		free := &ShmBuffer{mem: make(shm.Mmap, 64), seq: 1, damage: win.Region{d2, d3}}
		held := &ShmBuffer{mem: make(shm.Mmap, 64), seq: 2, damage: win.Region{d2, d3}}
		held.markBusy()
		q := &BufferQueue{damage: win.Region{d2, d3}}
		q.buffers = []*ShmBuffer{free, held}

		buf, redraw, err := q.Acquire()
		require.NoError(t, err)
		assert.Same(t, free, buf)
		assert.Equal(t, win.Region{d2, d3}, redraw)
		assert.Nil(t, buf.damage)
	})

	t.Run("backfill copies the freshest content", func(t *testing.T) {
		fresh := &ShmBuffer{mem: shm.Mmap{0x33, 0x33, 0x33, 0x33}, seq: 3, damage: win.Region{d3}}
		stale := &ShmBuffer{mem: shm.Mmap{0x11, 0x11, 0x11, 0x11}, seq: 1, damage: win.Region{d1, d2, d3}}
		held := &ShmBuffer{seq: 2, damage: win.Region{d2, d3}}
		held.markBusy()
		q := &BufferQueue{damage: win.Region{d2, d3}}
		q.buffers = []*ShmBuffer{fresh, stale, held}

		buf, redraw, err := q.Acquire()
		require.NoError(t, err)
		assert.Same(t, stale, buf)
		assert.Equal(t, shm.Mmap{0x33, 0x33, 0x33, 0x33}, buf.mem)
		assert.Equal(t, win.Region{d3}, redraw)
	})

	t.Run("single free buffer redraws only its own stale region", func(t *testing.T) {
		free := &ShmBuffer{mem: make(shm.Mmap, 4), seq: 2, damage: win.Region{d3}}
		held := &ShmBuffer{seq: 1, damage: win.Region{d2, d3}}
		held.markBusy()
		q := &BufferQueue{damage: win.Region{d2, d3}}
		q.buffers = []*ShmBuffer{free, held}

		buf, redraw, err := q.Acquire()
		require.NoError(t, err)
		assert.Same(t, free, buf)
		assert.Equal(t, win.Region{d3}, redraw)
	})
}

func TestRegionsEqual(t *testing.T) {
	a := win.Region{win.MakeRect(0, 0, 10, 10), win.MakeRect(20, 0, 30, 10)}
	b := win.Region{win.MakeRect(0, 0, 10, 10), win.MakeRect(20, 0, 30, 10)}

	assert.True(t, regionsEqual(a, b))
	assert.True(t, regionsEqual(nil, nil))
	assert.True(t, regionsEqual(win.Region{}, nil))

	assert.False(t, regionsEqual(a, b[:1]))
	assert.False(t, regionsEqual(a, win.Region{win.MakeRect(0, 0, 10, 10), win.MakeRect(20, 0, 30, 11)}))
	assert.False(t, regionsEqual(a, nil))
}
