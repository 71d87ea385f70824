package waywin

import (
	"sync"
	"sync/atomic"

	"deedles.dev/waywin/win"
	"deedles.dev/waywin/wl"
	"deedles.dev/waywin/wp"
	"deedles.dev/waywin/xdg"
)

// Role is the discipline applied to a surface. A surface gets at
// most one role object at a time; changing roles destroys and
// re-creates the compositor-side object.
type Role int32

const (
	RoleNone Role = iota
	RoleSubsurface
	RoleToplevel
)

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleSubsurface:
		return "subsurface"
	case RoleToplevel:
		return "toplevel"
	}
	return "unknown"
}

// ConfigureFlags are the toplevel states carried by a configure.
type ConfigureFlags uint32

const (
	ConfigureMaximized ConfigureFlags = 1 << iota
	ConfigureFullscreen
	ConfigureResizing
	ConfigureActivated
)

func (f ConfigureFlags) Has(bits ConfigureFlags) bool { return f&bits == bits }

func flagsFromStates(states []xdg.ToplevelState) ConfigureFlags {
	var f ConfigureFlags
	for _, st := range states {
		switch st {
		case xdg.ToplevelStateMaximized:
			f |= ConfigureMaximized
		case xdg.ToplevelStateFullscreen:
			f |= ConfigureFullscreen
		case xdg.ToplevelStateResizing:
			f |= ConfigureResizing
		case xdg.ToplevelStateActivated:
			f |= ConfigureActivated
		}
	}
	return f
}

// Configure is one compositor size/state proposal. Serial 0 means
// "no configure".
type Configure struct {
	Serial        uint32
	Width, Height int32
	Flags         ConfigureFlags
}

// Compatible reports whether a buffer of the given size with the
// given effective flags may be committed against this configure.
// Maximized demands the exact advertised size; fullscreen allows
// letterboxing; anything else takes any size.
func (c Configure) Compatible(width, height int32, flags ConfigureFlags) bool {
	if c.Serial == 0 {
		return false
	}
	if flags&^c.Flags != 0 {
		return false
	}
	switch {
	case c.Flags.Has(ConfigureMaximized):
		return width == c.Width && height == c.Height
	case c.Flags.Has(ConfigureFullscreen):
		return width <= c.Width && height <= c.Height
	}
	return true
}

// Surface wraps one wl_surface together with its role object, its
// configure records, and its drawing gate. The mutex covers the
// configure records and drawingAllowed and is held around both acks
// and buffer commits so they cannot interleave.
type Surface struct {
	s  *Session
	ts *ThreadSession

	refs atomic.Int32

	mu         sync.Mutex
	wl         *wl.Surface
	role       Role
	xdgSurface *xdg.Surface
	toplevel   *xdg.Toplevel
	subsurface *wl.Subsurface
	viewport   *wp.Viewport
	parent     *Surface
	hwnd       win.HWND

	staged         Configure // toplevel.configure accumulates here until the xdg_surface.configure
	pending        Configure
	current        Configure
	drawingAllowed bool
	mapped         bool
	everMapped     bool
	offset         win.Point
	output         *Output
}

func newSurface(ts *ThreadSession, hwnd win.HWND) *Surface {
	s := ts.s
	surf := &Surface{
		s:    s,
		ts:   ts,
		hwnd: hwnd,
		wl:   s.compositor.CreateSurface(),
	}
	surf.refs.Store(1)
	surf.wl.Enter = func(out *wl.Output) {
		s.mu.Lock()
		for _, o := range s.outputs {
			if o.wl == out {
				surf.output = o
				break
			}
		}
		s.mu.Unlock()
	}
	s.client.AttachQueue(surf.wl, ts.queue)
	s.registerSurface(surf)
	return surf
}

// ref adds a reference, e.g. when an input focus pointer takes hold
// of the surface.
func (surf *Surface) ref() { surf.refs.Add(1) }

// unref drops a reference. The compositor objects die with the last
// one.
func (surf *Surface) unref() {
	if surf.refs.Add(-1) != 0 {
		return
	}
	surf.mu.Lock()
	surf.clearRoleLocked()
	surf.s.unregisterSurface(surf)
	surf.wl.Destroy()
	surf.mu.Unlock()
}

func (surf *Surface) setHWND(hwnd win.HWND) {
	surf.mu.Lock()
	surf.hwnd = hwnd
	surf.mu.Unlock()
}

func (surf *Surface) parentIs(parent *Surface) bool {
	surf.mu.Lock()
	defer surf.mu.Unlock()
	return surf.parent == parent
}

// Commit applies pending surface state without touching the buffer.
func (surf *Surface) Commit() {
	surf.mu.Lock()
	surf.wl.Commit()
	surf.mu.Unlock()
}

// Role returns the surface's current role.
func (surf *Surface) Role() Role {
	surf.mu.Lock()
	defer surf.mu.Unlock()
	return surf.role
}

// HWND returns the host window this surface fronts for.
func (surf *Surface) HWND() win.HWND {
	surf.mu.Lock()
	defer surf.mu.Unlock()
	return surf.hwnd
}

// Output returns the output the surface was last reported entering,
// or nil before the first enter.
func (surf *Surface) Output() *Output {
	surf.mu.Lock()
	defer surf.mu.Unlock()
	return surf.output
}

// Mapped reports whether a buffer has been committed since the last
// unmap.
func (surf *Surface) Mapped() bool {
	surf.mu.Lock()
	defer surf.mu.Unlock()
	return surf.mapped
}

// Pending returns the unprocessed configure, if any.
func (surf *Surface) Pending() Configure {
	surf.mu.Lock()
	defer surf.mu.Unlock()
	return surf.pending
}

// Current returns the most recently acked configure.
func (surf *Surface) Current() Configure {
	surf.mu.Lock()
	defer surf.mu.Unlock()
	return surf.current
}

// initToplevel gives the surface the toplevel role. The initial
// commit has no buffer; the compositor answers with the first
// configure.
func (surf *Surface) initToplevel(title string) {
	s := surf.s
	surf.mu.Lock()
	defer surf.mu.Unlock()

	surf.xdgSurface = s.wmBase.GetXdgSurface(surf.wl)
	s.client.AttachQueue(surf.xdgSurface, surf.ts.queue)
	surf.toplevel = surf.xdgSurface.GetToplevel()
	s.client.AttachQueue(surf.toplevel, surf.ts.queue)

	surf.toplevel.Configure = func(width, height int32, states []xdg.ToplevelState) {
		surf.mu.Lock()
		surf.staged = Configure{Width: width, Height: height, Flags: flagsFromStates(states)}
		surf.mu.Unlock()
	}
	surf.toplevel.Close = func() {
		surf.mu.Lock()
		hwnd := surf.hwnd
		surf.mu.Unlock()
		if hwnd != 0 {
			s.host.SysCommand(hwnd, win.SysCommandClose)
		}
	}
	surf.xdgSurface.Configure = surf.handleConfigure

	surf.toplevel.SetAppID(s.opts.AppID)
	if title != "" {
		surf.toplevel.SetTitle(title)
	}
	if s.viewporter != nil {
		surf.viewport = s.viewporter.GetViewport(surf.wl)
	}

	surf.role = RoleToplevel
	surf.wl.Commit()
}

// initSubsurface gives the surface the subsurface role under parent.
// Subsurfaces have no configure handshake; drawing is allowed
// immediately.
func (surf *Surface) initSubsurface(parent *Surface) {
	s := surf.s
	surf.mu.Lock()
	defer surf.mu.Unlock()

	surf.subsurface = s.subcompositor.GetSubsurface(surf.wl, parent.wl)
	surf.subsurface.SetDesync()
	if s.viewporter != nil {
		surf.viewport = s.viewporter.GetViewport(surf.wl)
	}
	surf.parent = parent
	surf.role = RoleSubsurface
	surf.drawingAllowed = true
}

// handleConfigure finalizes the staged toplevel configure under the
// just-arrived serial. A second configure before the first was
// processed overwrites pending without posting a second message.
func (surf *Surface) handleConfigure(serial uint32) {
	surf.mu.Lock()
	post := surf.pending.Serial == 0
	surf.pending = surf.staged
	surf.pending.Serial = serial
	hwnd := surf.hwnd
	surf.mu.Unlock()

	if post && hwnd != 0 {
		surf.s.host.PostMessage(hwnd, win.MsgWaylandConfigure, 0, 0)
	}
}

// AckPendingConfigure promotes pending to current and emits the ack.
func (surf *Surface) AckPendingConfigure() {
	surf.mu.Lock()
	defer surf.mu.Unlock()
	surf.ackLocked()
}

func (surf *Surface) ackLocked() {
	if surf.pending.Serial == 0 || surf.xdgSurface == nil {
		return
	}
	surf.current = surf.pending
	surf.xdgSurface.AckConfigure(surf.pending.Serial)
	surf.pending = Configure{}
}

// SetDrawingAllowed opens or closes the commit gate.
func (surf *Surface) SetDrawingAllowed(ok bool) {
	surf.mu.Lock()
	surf.drawingAllowed = ok
	surf.mu.Unlock()
}

// CommitBuffer attaches and commits b if the surface may currently
// draw at b's size under the given flags. Pending configures
// compatible with the buffer are acked first so the commit answers
// the newest proposal. Returns false when the commit was dropped.
func (surf *Surface) CommitBuffer(b *ShmBuffer, damage win.Region, flags ConfigureFlags) bool {
	width, height := b.Size()

	surf.mu.Lock()
	defer surf.mu.Unlock()

	if !surf.drawingAllowed {
		return false
	}
	if surf.role == RoleToplevel {
		switch {
		case surf.pending.Serial != 0 && surf.pending.Compatible(width, height, flags):
			surf.ackLocked()
		case surf.current.Compatible(width, height, flags):
		default:
			return false
		}
	}

	b.markBusy()
	surf.wl.Attach(b.wl, 0, 0)
	for _, r := range damage {
		surf.wl.DamageBuffer(r.Left, r.Top, r.Width(), r.Height())
	}
	surf.wl.Commit()
	b.q.Committed(b)
	surf.mapped = true
	surf.everMapped = true
	return true
}

// EverMapped reports whether the surface has ever had a committed
// buffer. Focus handling uses it to spot windows still waiting for
// their first frame.
func (surf *Surface) EverMapped() bool {
	surf.mu.Lock()
	defer surf.mu.Unlock()
	return surf.everMapped
}

// unmap detaches the current buffer without dropping the role.
func (surf *Surface) unmap() {
	surf.mu.Lock()
	defer surf.mu.Unlock()
	if !surf.mapped {
		return
	}
	surf.wl.Attach(nil, 0, 0)
	surf.wl.Commit()
	surf.mapped = false
}

// clearRoleLocked destroys the role objects and resets the configure
// machinery, keeping the wl_surface itself.
func (surf *Surface) clearRoleLocked() {
	if surf.viewport != nil {
		surf.viewport.Destroy()
		surf.viewport = nil
	}
	if surf.subsurface != nil {
		surf.subsurface.Destroy()
		surf.subsurface = nil
	}
	if surf.toplevel != nil {
		surf.toplevel.Destroy()
		surf.toplevel = nil
	}
	if surf.xdgSurface != nil {
		surf.xdgSurface.Destroy()
		surf.xdgSurface = nil
	}
	surf.parent = nil
	surf.role = RoleNone
	surf.staged = Configure{}
	surf.pending = Configure{}
	surf.current = Configure{}
	surf.drawingAllowed = false
	surf.mapped = false
}
