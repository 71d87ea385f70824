package waywin

import (
	"image"
	"sync"
	"sync/atomic"

	"deedles.dev/ximage"

	"deedles.dev/waywin/internal/logger"
	"deedles.dev/waywin/win"
	"deedles.dev/waywin/wl"
)

// WindowSurface is the backing store behind the host's painting API:
// a top-down 32-bit BGRA bitmap, a dirty-bounds accumulator, and the
// machinery to composite the bitmap into SHM buffers honoring the
// window region, color key, and per-window alpha.
type WindowSurface struct {
	w    *Window
	refs atomic.Int32

	// flushFailed is atomic so the reconciler can flag a detached
	// surface while holding the window lock; Flush takes the window
	// lock under ws.mu, so detach must not take ws.mu.
	flushFailed atomic.Bool

	mu        sync.Mutex
	rect      win.Rect // (0,0,width,height)
	pix       []byte
	bounds    win.Rect
	dirty     bool
	apiRegion win.Region
	total     win.Region
	hasTotal  bool
	queue     *BufferQueue
}

// EnsureWindowSurface returns the window's pixel surface, creating
// or resizing it to match the current window rectangle.
func (w *Window) EnsureWindowSurface() *WindowSurface {
	w.mu.Lock()
	rect := win.MakeRect(0, 0, w.rect.Width(), w.rect.Height())
	ws := w.pixel
	if ws == nil {
		ws = &WindowSurface{w: w}
		ws.refs.Store(1)
		w.pixel = ws
	}
	w.mu.Unlock()

	ws.mu.Lock()
	if ws.rect != rect {
		ws.rect = rect
		ws.pix = make([]byte, int(rect.Width())*int(rect.Height())*4)
		ws.bounds = rect
		ws.dirty = !rect.Empty()
	}
	ws.recomputeShapeLocked()
	ws.mu.Unlock()
	return ws
}

// Ref adds a reference to the pixel surface.
func (ws *WindowSurface) Ref() { ws.refs.Add(1) }

// Lock serializes direct bitmap access against flushes.
func (ws *WindowSurface) Lock() { ws.mu.Lock() }

// Unlock releases Lock.
func (ws *WindowSurface) Unlock() { ws.mu.Unlock() }

// Image returns the bitmap as a drawable image. Callers hold Lock
// while drawing.
func (ws *WindowSurface) Image() *ximage.FormatImage {
	return &ximage.FormatImage{
		Format: ximage.ARGB8888,
		Rect:   image.Rect(0, 0, int(ws.rect.Width()), int(ws.rect.Height())),
		Pix:    ws.pix,
	}
}

// Bits returns the raw BGRA bits. Callers hold Lock.
func (ws *WindowSurface) Bits() []byte { return ws.pix }

// Bounds returns the dirty-rectangle accumulator.
func (ws *WindowSurface) Bounds() win.Rect {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if !ws.dirty {
		return win.Rect{}
	}
	return ws.bounds
}

// AddBounds extends the dirty bounds after the host drew into the
// bitmap.
func (ws *WindowSurface) AddBounds(r win.Rect) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if r.Empty() {
		return
	}
	if !ws.dirty {
		ws.bounds = r
		ws.dirty = true
		return
	}
	ws.bounds = ws.bounds.Union(r)
}

// SetRegion sets the painting API's clip region. nil removes it. The
// effective (total) region is its intersection with the window
// region.
func (ws *WindowSurface) SetRegion(rgn win.Region) {
	ws.mu.Lock()
	ws.apiRegion = rgn
	ws.recomputeShapeLocked()
	ws.mu.Unlock()
}

// updateShape is called when the window region, color key, or alpha
// changed.
func (ws *WindowSurface) updateShape() {
	ws.mu.Lock()
	ws.recomputeShapeLocked()
	ws.mu.Unlock()
}

func (ws *WindowSurface) recomputeShapeLocked() {
	ws.w.mu.Lock()
	winRegion := ws.w.region
	ws.w.mu.Unlock()

	switch {
	case winRegion == nil && ws.apiRegion == nil:
		ws.total = nil
		ws.hasTotal = false
	case winRegion == nil:
		ws.total = ws.apiRegion.IntersectRect(ws.rect)
		ws.hasTotal = true
	case ws.apiRegion == nil:
		ws.total = winRegion.IntersectRect(ws.rect)
		ws.hasTotal = true
	default:
		ws.total = winRegion.IntersectRegion(ws.apiRegion).IntersectRect(ws.rect)
		ws.hasTotal = true
	}

	// Compositing parameters changed; everything must be redrawn on
	// the next flush.
	if !ws.rect.Empty() {
		ws.bounds = ws.rect
		ws.dirty = true
	}
}

// format returns the SHM format the next buffer needs. Shaped,
// keyed, or translucent windows need an alpha channel.
func (ws *WindowSurface) format() wl.ShmFormat {
	ws.w.mu.Lock()
	shaped := ws.w.region != nil || ws.w.hasColorKey || ws.w.alpha < 255
	ws.w.mu.Unlock()
	if shaped || ws.hasTotal {
		return wl.ShmFormatArgb8888
	}
	if !ws.w.ts.s.SupportsFormat(wl.ShmFormatXrgb8888) {
		return wl.ShmFormatArgb8888
	}
	return wl.ShmFormatXrgb8888
}

func (ws *WindowSurface) takeFlushFailed() bool {
	return ws.flushFailed.Swap(false)
}

func (ws *WindowSurface) detach() {
	ws.flushFailed.Store(true)
}

// Flush composites the dirty part of the bitmap into an SHM buffer
// and commits it. A false return means the flush could not complete
// and will be retried after the next reconcile or configure.
func (ws *WindowSurface) Flush() bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.dirty {
		return true
	}
	damageRect := ws.bounds.Intersect(ws.rect)
	if damageRect.Empty() {
		ws.dirty = false
		return true
	}

	damage := win.Region{damageRect}
	if ws.hasTotal {
		clipped := ws.total.IntersectRect(damageRect)
		switch {
		case len(clipped) == 0 && ws.total.Empty():
			// Fully transparent window: the cleared pixels still
			// have to reach the compositor.
		case len(clipped) == 0:
			ws.dirty = false
			return true
		default:
			damage = clipped
		}
	}

	surf := ws.w.Surface()
	if surf == nil {
		ws.flushFailed.Store(true)
		return false
	}

	format := ws.format()
	if ws.queue == nil || !ws.queue.Matches(ws.rect.Width(), ws.rect.Height(), format) {
		if ws.queue != nil {
			ws.queue.Destroy()
		}
		ws.queue = newBufferQueue(ws.w.ts.s, ws.rect.Width(), ws.rect.Height(), format)
	}

	ws.queue.AddDamage(damage)
	buf, redraw, err := ws.queue.Acquire()
	if err != nil {
		logger.Warnf("acquire buffer: %v", err)
		ws.flushFailed.Store(true)
		return false
	}

	ws.w.mu.Lock()
	alpha := ws.w.alpha
	key := ws.w.colorKey
	hasKey := ws.w.hasColorKey
	maximized := ws.w.reqMaximized
	fullscreen := ws.w.reqFullscreen
	ws.w.mu.Unlock()

	// redraw covers everything stale in this buffer, which may be
	// more than this flush's damage; the surface damage below stays
	// the flush damage because earlier commits already carried the
	// rest.
	switch {
	case ws.hasTotal && ws.total.Empty():
		ws.clearRects(buf, redraw)
	case ws.hasTotal:
		ws.clearRects(buf, redraw)
		ws.copyRects(buf, ws.total.IntersectRegion(redraw), format, alpha, hasKey, key)
	default:
		ws.copyRects(buf, redraw, format, alpha, hasKey, key)
	}

	var flags ConfigureFlags
	if maximized {
		flags |= ConfigureMaximized
	}
	if fullscreen {
		flags |= ConfigureFullscreen
	}
	if !surf.CommitBuffer(buf, damage, flags) {
		buf.ClearBusy()
		ws.flushFailed.Store(true)
		return false
	}

	ws.dirty = false
	ws.bounds = win.Rect{}
	if err := ws.w.ts.s.client.Flush(); err != nil {
		logger.Warnf("flush commit: %v", err)
	}
	return true
}

// copyRects copies the damage rectangles from the bitmap into the
// buffer, applying alpha fill, premultiplication, and color keying
// per row. A fast path handles opaque unkeyed rows with a straight
// copy.
func (ws *WindowSurface) copyRects(buf *ShmBuffer, damage win.Region, format wl.ShmFormat, alpha uint8, hasKey bool, key uint32) {
	srcStride := int(ws.rect.Width()) * 4
	dstStride := int(buf.Stride())
	dst := buf.Pixels()

	fast := format == wl.ShmFormatXrgb8888 || (alpha == 255 && !hasKey)
	argb := format == wl.ShmFormatArgb8888

	for _, r := range damage {
		r = r.Intersect(ws.rect)
		if r.Empty() {
			continue
		}
		rowLen := int(r.Width()) * 4
		for y := r.Top; y < r.Bottom; y++ {
			srcOff := int(y)*srcStride + int(r.Left)*4
			dstOff := int(y)*dstStride + int(r.Left)*4
			srcRow := ws.pix[srcOff : srcOff+rowLen]
			dstRow := dst[dstOff : dstOff+rowLen]

			if fast && !argb {
				copy(dstRow, srcRow)
				continue
			}

			for x := 0; x < rowLen; x += 4 {
				b := srcRow[x]
				g := srcRow[x+1]
				rr := srcRow[x+2]
				rgb := uint32(rr)<<16 | uint32(g)<<8 | uint32(b)

				switch {
				case hasKey && rgb == key&0xFFFFFF:
					dstRow[x] = 0
					dstRow[x+1] = 0
					dstRow[x+2] = 0
					dstRow[x+3] = 0
				case alpha == 255:
					dstRow[x] = b
					dstRow[x+1] = g
					dstRow[x+2] = rr
					dstRow[x+3] = 0xFF
				default:
					a := uint32(alpha)
					dstRow[x] = uint8(uint32(b) * a / 255)
					dstRow[x+1] = uint8(uint32(g) * a / 255)
					dstRow[x+2] = uint8(uint32(rr) * a / 255)
					dstRow[x+3] = alpha
				}
			}
		}
	}
}

// clearRects zeroes the damage rectangles, used when the total
// region is empty and the window shows nothing.
func (ws *WindowSurface) clearRects(buf *ShmBuffer, damage win.Region) {
	dstStride := int(buf.Stride())
	dst := buf.Pixels()
	for _, r := range damage {
		r = r.Intersect(ws.rect)
		if r.Empty() {
			continue
		}
		rowLen := int(r.Width()) * 4
		for y := r.Top; y < r.Bottom; y++ {
			off := int(y)*dstStride + int(r.Left)*4
			clear(dst[off : off+rowLen])
		}
	}
}

// Destroy drops a reference; the last one frees the buffer queue.
func (ws *WindowSurface) Destroy() {
	if ws.refs.Add(-1) != 0 {
		return
	}
	ws.mu.Lock()
	q := ws.queue
	ws.queue = nil
	ws.pix = nil
	ws.mu.Unlock()
	if q != nil {
		q.Destroy()
	}
}
