package waywin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"deedles.dev/waywin/win"
)

func newTestWindowSurface(w *Window, width, height int32) *WindowSurface {
	ws := &WindowSurface{
		w:    w,
		rect: win.MakeRect(0, 0, width, height),
		pix:  make([]byte, int(width)*int(height)*4),
	}
	ws.refs.Store(1)
	return ws
}

func TestWindowSurfaceShape(t *testing.T) {
	t.Run("no regions", func(t *testing.T) {
		ws := newTestWindowSurface(&Window{}, 100, 100)
		ws.updateShape()
		assert.False(t, ws.hasTotal)
		assert.Nil(t, ws.total)
	})

	t.Run("api region clipped to surface", func(t *testing.T) {
		ws := newTestWindowSurface(&Window{}, 100, 100)
		ws.SetRegion(win.Region{win.MakeRect(50, 50, 200, 200)})
		assert.True(t, ws.hasTotal)
		assert.Equal(t, win.Region{win.MakeRect(50, 50, 50, 50)}, ws.total)
	})

	t.Run("window region alone", func(t *testing.T) {
		w := &Window{region: win.Region{win.MakeRect(0, 0, 40, 40)}}
		ws := newTestWindowSurface(w, 100, 100)
		ws.updateShape()
		assert.True(t, ws.hasTotal)
		assert.Equal(t, win.Region{win.MakeRect(0, 0, 40, 40)}, ws.total)
	})

	t.Run("window and api regions intersect", func(t *testing.T) {
		w := &Window{region: win.Region{win.MakeRect(0, 0, 60, 60)}}
		ws := newTestWindowSurface(w, 100, 100)
		ws.SetRegion(win.Region{win.MakeRect(30, 30, 100, 100)})
		assert.True(t, ws.hasTotal)
		assert.Equal(t, win.Region{win.MakeRect(30, 30, 30, 30)}, ws.total)
	})

	t.Run("clearing both regions removes the shape", func(t *testing.T) {
		w := &Window{}
		ws := newTestWindowSurface(w, 100, 100)
		ws.SetRegion(win.Region{win.MakeRect(0, 0, 10, 10)})
		assert.True(t, ws.hasTotal)
		ws.SetRegion(nil)
		assert.False(t, ws.hasTotal)
	})

	t.Run("shape change dirties the whole surface", func(t *testing.T) {
		ws := newTestWindowSurface(&Window{}, 100, 100)
		ws.dirty = false
		ws.SetRegion(win.Region{win.MakeRect(0, 0, 10, 10)})
		assert.True(t, ws.dirty)
		assert.Equal(t, win.MakeRect(0, 0, 100, 100), ws.bounds)
	})
}

func TestWindowSurfaceBounds(t *testing.T) {
	ws := newTestWindowSurface(&Window{}, 100, 100)
	ws.dirty = false

	assert.True(t, ws.Bounds().Empty())

	ws.AddBounds(win.MakeRect(10, 10, 20, 20))
	assert.Equal(t, win.MakeRect(10, 10, 20, 20), ws.Bounds())

	ws.AddBounds(win.MakeRect(50, 5, 60, 15))
	assert.Equal(t, win.MakeRect(10, 5, 100, 25), ws.Bounds())

	ws.AddBounds(win.Rect{})
	assert.Equal(t, win.MakeRect(10, 5, 100, 25), ws.Bounds())
}
