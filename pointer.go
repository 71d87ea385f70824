package waywin

import (
	"image"
	"math"
	"os"
	"strconv"
	"sync"

	"deedles.dev/ximage"
	"golang.org/x/image/draw"
	"golang.org/x/sys/unix"

	"deedles.dev/waywin/cursor"
	"deedles.dev/waywin/internal/logger"
	"deedles.dev/waywin/shm"
	"deedles.dev/waywin/win"
	"deedles.dev/waywin/wire"
	"deedles.dev/waywin/wl"
	"deedles.dev/waywin/wp"
)

// pointerFrame accumulates axis events until the frame event flushes
// them. Discrete steps win over the continuous value for the same
// axis so a compositor sending both does not double-scroll.
type pointerFrame struct {
	wheel    [2]int32
	discrete [2]bool
}

// Pointer tracks the seat pointer: focus, the last known screen
// position, scroll accumulation, and the cursor surface.
type Pointer struct {
	s   *Session
	wl  *wl.Pointer
	rel *wp.RelativePointer

	mu          sync.Mutex
	focus       *Surface
	enterSerial uint32
	lastSerial  uint32
	pos         win.Point
	frame       pointerFrame

	cursorSurface *wl.Surface
	cursorBuf     *cursorBuffer
	cursorFor     win.Cursor
	haveCursor    bool

	themeOnce sync.Once
	theme     *cursor.Theme
}

func newPointer(s *Session, ptr *wl.Pointer) *Pointer {
	p := &Pointer{s: s, wl: ptr}
	ptr.Enter = p.enter
	ptr.Leave = p.leave
	ptr.Motion = p.motion
	ptr.Button = p.button
	ptr.Axis = p.axis
	ptr.AxisDiscrete = p.axisDiscrete
	ptr.Frame = p.frameDone
	if s.relManager != nil && !s.opts.NoRelativePointer {
		p.rel = s.relManager.GetRelativePointer(ptr)
		p.rel.RelativeMotion = p.relativeMotion
	}
	return p
}

func (p *Pointer) release() {
	p.mu.Lock()
	focus := p.focus
	p.focus = nil
	buf := p.cursorBuf
	p.cursorBuf = nil
	cs := p.cursorSurface
	p.cursorSurface = nil
	p.mu.Unlock()

	if focus != nil {
		focus.unref()
	}
	if buf != nil {
		buf.destroy()
	}
	if cs != nil {
		cs.Destroy()
	}
	if p.rel != nil {
		p.rel.Destroy()
	}
	p.wl.Release()
}

func (p *Pointer) focusHWND() win.HWND {
	p.mu.Lock()
	focus := p.focus
	p.mu.Unlock()
	if focus == nil {
		return 0
	}
	return focus.HWND()
}

// position returns the last screen position derived from absolute
// motion.
func (p *Pointer) position() win.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

func (p *Pointer) serial() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastSerial != 0 {
		return p.lastSerial
	}
	return p.enterSerial
}

// toScreen converts surface-local coordinates to host screen
// coordinates using the surface's window rectangle and output scale.
func (p *Pointer) toScreen(surf *Surface, x, y wire.Fixed) (win.Point, bool) {
	w := p.s.Window(surf.HWND())
	if w == nil {
		return win.Point{}, false
	}
	scale := int32(1)
	if o := surf.Output(); o != nil {
		scale = o.Scale
	}

	w.mu.Lock()
	origin := win.Point{X: w.rect.Left, Y: w.rect.Top}
	w.mu.Unlock()

	return win.Point{
		X: origin.X + int32(math.Round(x.Float()*float64(scale))),
		Y: origin.Y + int32(math.Round(y.Float()*float64(scale))),
	}, true
}

func (p *Pointer) enter(serial uint32, ws *wl.Surface, x, y wire.Fixed) {
	s := p.s
	s.noteInput(inputMouse)
	surf := s.surfaceFor(ws)
	if surf == nil {
		return
	}
	surf.ref()

	pt, okPos := p.toScreen(surf, x, y)

	p.mu.Lock()
	old := p.focus
	p.focus = surf
	p.enterSerial = serial
	p.haveCursor = false
	if okPos {
		p.pos = pt
	}
	p.mu.Unlock()
	if old != nil {
		old.unref()
	}

	// The cursor must be set anew for each enter serial.
	if w := s.Window(surf.HWND()); w != nil {
		w.mu.Lock()
		c := w.cursor
		w.mu.Unlock()
		p.applyCursor(w, c)
	}

	if okPos {
		p.sendMotion(pt, 0)
	}
}

func (p *Pointer) leave(serial uint32, ws *wl.Surface) {
	surf := p.s.surfaceFor(ws)

	p.mu.Lock()
	if surf == nil || p.focus != surf {
		p.mu.Unlock()
		return
	}
	old := p.focus
	p.focus = nil
	p.mu.Unlock()

	old.unref()
}

func (p *Pointer) motion(t uint32, x, y wire.Fixed) {
	p.mu.Lock()
	focus := p.focus
	p.mu.Unlock()
	if focus == nil {
		return
	}

	pt, ok := p.toScreen(focus, x, y)
	if !ok {
		return
	}

	p.mu.Lock()
	p.pos = pt
	suppressed := p.rel != nil
	p.mu.Unlock()

	// Relative deltas carry the motion when the protocol is bound;
	// absolute events then only keep the tracked position fresh.
	if !suppressed {
		p.sendMotion(pt, t)
	}
}

func (p *Pointer) relativeMotion(utime uint64, dx, dy, dxUnaccel, dyUnaccel wire.Fixed) {
	p.mu.Lock()
	focus := p.focus
	p.mu.Unlock()
	if focus == nil {
		return
	}

	// Deltas are in surface coordinates; the same scale that maps
	// absolute positions to screen pixels applies here.
	scale := 1.0
	if o := focus.Output(); o != nil {
		scale = float64(o.Scale)
	}

	p.s.noteInput(inputMouse)
	p.s.host.SendMouseInput(win.MouseInput{
		X:     int32(math.Round(dx.Float() * scale)),
		Y:     int32(math.Round(dy.Float() * scale)),
		Flags: win.MouseEventMove,
		Time:  uint32(utime / 1000),
	})
}

func (p *Pointer) sendMotion(pt win.Point, t uint32) {
	p.s.host.SendMouseInput(win.MouseInput{
		X:     pt.X,
		Y:     pt.Y,
		Flags: win.MouseEventMove | win.MouseEventAbsolute,
		Time:  t,
	})
}

func (p *Pointer) button(serial, t uint32, button wl.PointerButton, state wl.PointerButtonState) {
	s := p.s
	s.noteInput(inputMouse)

	p.mu.Lock()
	p.lastSerial = serial
	pt := p.pos
	p.mu.Unlock()

	down := state == wl.PointerButtonStatePressed
	var flags uint32
	switch button {
	case wl.PointerButtonLeft:
		flags = win.MouseEventLeftDown
		if !down {
			flags = win.MouseEventLeftUp
		}
	case wl.PointerButtonRight:
		flags = win.MouseEventRightDown
		if !down {
			flags = win.MouseEventRightUp
		}
	case wl.PointerButtonMiddle:
		flags = win.MouseEventMiddleDown
		if !down {
			flags = win.MouseEventMiddleUp
		}
	default:
		return
	}

	s.host.SendMouseInput(win.MouseInput{
		X:     pt.X,
		Y:     pt.Y,
		Flags: flags | win.MouseEventAbsolute,
		Time:  t,
	})
}

func (p *Pointer) axis(t uint32, axis wl.PointerAxis, value wire.Fixed) {
	if axis > wl.PointerAxisHorizontalScroll {
		return
	}
	p.mu.Lock()
	if !p.frame.discrete[axis] {
		// Ten surface units per detent is the de facto continuous
		// scroll convention.
		step := value.Float() / 10 * win.WheelDelta
		if axis == wl.PointerAxisVerticalScroll {
			step = -step
		}
		p.frame.wheel[axis] += int32(math.Round(step))
	}
	p.mu.Unlock()
}

func (p *Pointer) axisDiscrete(axis wl.PointerAxis, discrete int32) {
	if axis > wl.PointerAxisHorizontalScroll {
		return
	}
	p.mu.Lock()
	step := discrete * win.WheelDelta
	if axis == wl.PointerAxisVerticalScroll {
		step = -step
	}
	if p.frame.discrete[axis] {
		p.frame.wheel[axis] += step
	} else {
		p.frame.wheel[axis] = step
		p.frame.discrete[axis] = true
	}
	p.mu.Unlock()
}

func (p *Pointer) frameDone() {
	p.mu.Lock()
	frame := p.frame
	p.frame = pointerFrame{}
	pt := p.pos
	focused := p.focus != nil
	p.mu.Unlock()

	if !focused {
		return
	}
	if frame.wheel[wl.PointerAxisVerticalScroll] != 0 {
		p.s.noteInput(inputMouse)
		p.s.host.SendMouseInput(win.MouseInput{
			X:     pt.X,
			Y:     pt.Y,
			Data:  frame.wheel[wl.PointerAxisVerticalScroll],
			Flags: win.MouseEventWheel | win.MouseEventAbsolute,
		})
	}
	if frame.wheel[wl.PointerAxisHorizontalScroll] != 0 {
		p.s.noteInput(inputMouse)
		p.s.host.SendMouseInput(win.MouseInput{
			X:     pt.X,
			Y:     pt.Y,
			Data:  frame.wheel[wl.PointerAxisHorizontalScroll],
			Flags: win.MouseEventHWheel | win.MouseEventAbsolute,
		})
	}
}

// applyCursor resolves the window's cursor handle and installs it on
// the pointer. It does nothing unless w owns the pointer focus. A
// failed resolution keeps whatever cursor is already showing.
func (p *Pointer) applyCursor(w *Window, c win.Cursor) {
	s := p.s

	p.mu.Lock()
	focus := p.focus
	serial := p.enterSerial
	sameCursor := p.haveCursor && p.cursorFor == c
	p.mu.Unlock()

	if focus == nil || focus.HWND() != w.hwnd || sameCursor {
		return
	}

	if c == 0 {
		p.wl.SetCursor(serial, nil, 0, 0)
		p.mu.Lock()
		p.cursorFor = 0
		p.haveCursor = true
		p.mu.Unlock()
		return
	}

	scale := int32(1)
	if o := focus.Output(); o != nil {
		scale = o.Scale
	}

	if c == win.InvalidCursor {
		p.applyThemeCursor(serial, scale)
		return
	}

	img, err := s.host.CursorImage(c)
	if err != nil {
		logger.Debugf("cursor image for %#x: %v", uintptr(c), err)
		return
	}

	pix := renderCursor(img)
	if pix == nil {
		return
	}

	hx := min(max(img.HotspotX, 0), img.Width-1)
	hy := min(max(img.HotspotY, 0), img.Height-1)
	p.installCursor(serial, c, img.Width, img.Height, hx, hy, pix)
}

// applyThemeCursor shows the theme's standard arrow. It backs
// windows that never set a cursor of their own.
func (p *Pointer) applyThemeCursor(serial uint32, scale int32) {
	p.themeOnce.Do(func() {
		size := 24
		if v, err := strconv.Atoi(os.Getenv("XCURSOR_SIZE")); err == nil && v > 0 {
			size = v
		}
		t, err := cursor.LoadTheme(os.Getenv("XCURSOR_THEME"), size)
		if err != nil {
			logger.Warnf("load cursor theme: %v", err)
			return
		}
		p.theme = t
	})
	if p.theme == nil {
		return
	}

	cur := p.theme.Cursor("left_ptr", "default", "arrow")
	if cur == nil || len(cur.Frames) == 0 {
		return
	}
	f := cur.Frames[0]

	img := f.Image
	hx, hy := int32(f.XHot), int32(f.YHot)
	if scale > 1 {
		b := img.Bounds()
		dst := &ximage.FormatImage{
			Format: ximage.ARGB8888,
			Rect:   image.Rect(0, 0, b.Dx()*int(scale), b.Dy()*int(scale)),
			Pix:    make([]byte, b.Dx()*int(scale)*b.Dy()*int(scale)*4),
		}
		draw.ApproxBiLinear.Scale(dst, dst.Rect, img, b, draw.Src, nil)
		img = dst
		hx *= scale
		hy *= scale
	}

	b := img.Bounds()
	p.installCursor(serial, win.InvalidCursor, int32(b.Dx()), int32(b.Dy()), hx, hy, img.Pix)
}

func (p *Pointer) installCursor(serial uint32, c win.Cursor, width, height, hx, hy int32, pix []byte) {
	s := p.s
	buf, err := newCursorBuffer(s, width, height, pix)
	if err != nil {
		logger.Warnf("cursor buffer: %v", err)
		return
	}

	p.mu.Lock()
	cs := p.cursorSurface
	if cs == nil {
		cs = s.compositor.CreateSurface()
		p.cursorSurface = cs
	}
	old := p.cursorBuf
	p.cursorBuf = buf
	p.cursorFor = c
	p.haveCursor = true
	p.mu.Unlock()

	cs.Attach(buf.wl, 0, 0)
	cs.Damage(0, 0, width, height)
	cs.Commit()
	p.wl.SetCursor(serial, cs, hx, hy)

	if old != nil {
		old.dropWhenReleased()
	}
}

// renderCursor converts a host cursor image to premultiplied ARGB
// pixels. Monochrome cursors use the mask pair: AND only is
// transparent, XOR only is white, anything else is opaque black.
func renderCursor(img *win.CursorImage) []byte {
	w, h := int(img.Width), int(img.Height)
	if w <= 0 || h <= 0 {
		return nil
	}
	pix := make([]byte, w*h*4)

	if img.Color {
		if len(img.ARGB) < w*h {
			return nil
		}
		for i, c := range img.ARGB[:w*h] {
			a := byte(c >> 24)
			if !img.HasAlpha {
				a = 0xFF
				if maskBit(img.AndMask, w, i%w, i/w) {
					a = 0
				}
			}
			r := premul(byte(c>>16), a)
			g := premul(byte(c>>8), a)
			b := premul(byte(c), a)
			pix[i*4] = b
			pix[i*4+1] = g
			pix[i*4+2] = r
			pix[i*4+3] = a
		}
		return pix
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			and := maskBit(img.AndMask, w, x, y)
			xor := maskBit(img.XorMask, w, x, y)
			i := (y*w + x) * 4
			switch {
			case and && !xor:
				// transparent
			case !and && xor:
				pix[i], pix[i+1], pix[i+2], pix[i+3] = 0xFF, 0xFF, 0xFF, 0xFF
			default:
				pix[i+3] = 0xFF
			}
		}
	}
	return pix
}

func maskBit(mask []byte, width, x, y int) bool {
	stride := (width + 7) / 8
	i := y*stride + x/8
	if i >= len(mask) {
		return false
	}
	return mask[i]&(0x80>>(x%8)) != 0
}

func premul(c, a byte) byte {
	return byte(uint32(c) * uint32(a) / 255)
}

// cursorBuffer is a single standalone shm buffer for cursor pixels.
// It is not pooled; cursors are small and change rarely. The mutex
// orders the release event, which runs on the buffer-release queue,
// against the owning thread dropping the buffer.
type cursorBuffer struct {
	wl  *wl.Buffer
	mem shm.Mmap

	mu   sync.Mutex
	busy bool
	drop bool
}

func newCursorBuffer(s *Session, width, height int32, pix []byte) (*cursorBuffer, error) {
	stride := width * 4
	size := int(stride) * int(height)

	file, err := shm.Create(int64(size))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mem, err := shm.MapShared(file, size, unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		return nil, err
	}
	copy(mem, pix)

	pool := s.shm.CreatePool(file, int32(size))
	buf := pool.CreateBuffer(0, width, height, stride, wl.ShmFormatArgb8888)
	pool.Destroy()

	b := &cursorBuffer{wl: buf, mem: mem, busy: true}
	buf.Release = b.released
	return b, nil
}

func (b *cursorBuffer) released() {
	b.mu.Lock()
	b.busy = false
	drop := b.drop
	b.mu.Unlock()
	if drop {
		b.destroy()
	}
}

func (b *cursorBuffer) dropWhenReleased() {
	b.mu.Lock()
	if b.busy {
		b.drop = true
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	b.destroy()
}

func (b *cursorBuffer) destroy() {
	b.wl.Destroy()
	b.mem.Unmap()
}
