package waywin

import (
	"sync"

	"deedles.dev/waywin/internal/logger"
	"deedles.dev/waywin/win"
)

// Window is the per-hwnd record. It exists whether or not the window
// currently has compositor presence; the reconciler creates and
// destroys the surface as visibility and parentage change.
type Window struct {
	ts   *ThreadSession
	hwnd win.HWND

	mu         sync.Mutex
	parent     win.HWND
	effParent  win.HWND
	rect       win.Rect
	clientRect win.Rect
	restore    win.Rect
	style      win.Style
	title      string

	surface *Surface
	pixel   *WindowSurface

	region      win.Region
	colorKey    uint32
	hasColorKey bool
	alpha       uint8

	cursor win.Cursor

	// Compositor state we have asked for, so clears and sets are
	// only emitted on transitions.
	reqMaximized  bool
	reqFullscreen bool
	reqMinimized  bool

	resizing  bool
	destroyed bool
}

// HWND returns the host handle.
func (w *Window) HWND() win.HWND { return w.hwnd }

// Surface returns the current compositor surface, or nil.
func (w *Window) Surface() *Surface {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.surface
}

// SetTitle updates the toplevel title.
func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
	if w.surface != nil && w.surface.role == RoleToplevel {
		w.surface.toplevel.SetTitle(title)
	}
}

// SetParent records a host reparent. The role change is applied on
// the next position change.
func (w *Window) SetParent(parent win.HWND) {
	w.mu.Lock()
	w.parent = parent
	w.mu.Unlock()
}

// SetRegion sets the window region from SetWindowRgn. nil removes
// it.
func (w *Window) SetRegion(rgn win.Region) {
	w.mu.Lock()
	w.region = rgn
	pixel := w.pixel
	w.mu.Unlock()
	if pixel != nil {
		pixel.updateShape()
	}
}

// SetLayeredAttrs records layered-window color key and alpha.
func (w *Window) SetLayeredAttrs(key uint32, hasKey bool, alpha uint8) {
	w.mu.Lock()
	w.colorKey = key
	w.hasColorKey = hasKey
	w.alpha = alpha
	pixel := w.pixel
	w.mu.Unlock()
	if pixel != nil {
		pixel.updateShape()
	}
}

// SetCursor records the cursor for this window and applies it if the
// pointer is currently over it.
func (w *Window) SetCursor(c win.Cursor) {
	w.mu.Lock()
	w.cursor = c
	w.mu.Unlock()
	if p := w.ts.s.pointer; p != nil {
		p.applyCursor(w, c)
	}
}

// ClipCursor is accepted for API completeness. There is no pointer
// confinement protocol bound, so the request only notifies the
// owning thread.
func (w *Window) ClipCursor(r *win.Rect) {
	w.ts.s.host.PostMessage(w.hwnd, win.MsgWaylandPointerConfinementUpdate, 0, 0)
}

// WindowPosChanged is the reconciler entry point. The host calls it
// after any move, resize, show, hide, or style change. cfg is non-nil
// when the change is the echo of a compositor configure; compositor
// state is then not re-requested.
func (w *Window) WindowPosChanged(rect, clientRect win.Rect, style win.Style, cfg *win.ConfigureContext) {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.rect = rect
	w.clientRect = clientRect
	w.style = style
	w.reconcileLocked(cfg)
	pixel := w.pixel
	w.mu.Unlock()

	if pixel != nil && pixel.takeFlushFailed() {
		pixel.Flush()
	}
	if err := w.ts.s.client.Flush(); err != nil {
		logger.Warnf("flush after window pos change: %v", err)
	}
}

func (w *Window) reconcileLocked(cfg *win.ConfigureContext) {
	s := w.ts.s

	// 1: effective parent.
	w.effParent = w.decideEffectiveParentLocked()
	parentWin := s.Window(w.effParent)

	// 2: role.
	visible := w.style.Has(win.StyleVisible)
	var want Role
	switch {
	case !visible:
		want = RoleNone
	case parentWin != nil && parentWin.Surface() != nil && (w.parent != 0 || w.popupLikeLocked()):
		want = RoleSubsurface
	default:
		want = RoleToplevel
	}

	// 3: reuse or recreate.
	var parentSurf *Surface
	if parentWin != nil {
		parentSurf = parentWin.Surface()
	}
	w.ensureRoleLocked(want, parentSurf, cfg)
	surf := w.surface
	if surf == nil {
		return
	}

	// 4: desired compositor state. Skipped while echoing a
	// configure; the compositor already owns that state.
	wantMax := w.style.Has(win.StyleMaximize)
	wantFs := w.fullscreenShapedLocked()
	minimized := w.style.Has(win.StyleMinimize)
	if cfg == nil && surf.role == RoleToplevel {
		w.pushStateLocked(wantMax, wantFs, minimized)
	}

	// 5: restore rect.
	if !wantMax && !wantFs && !minimized {
		w.restore = w.rect
	}

	// 6: compatibility gates drawing.
	var flags ConfigureFlags
	if wantMax {
		flags |= ConfigureMaximized
	}
	if wantFs {
		flags |= ConfigureFullscreen
	}
	width, height := w.rect.Width(), w.rect.Height()
	if surf.role == RoleToplevel {
		pending, current := surf.Pending(), surf.Current()
		ok := pending.Compatible(width, height, flags) || current.Compatible(width, height, flags)
		surf.SetDrawingAllowed(ok)
		if !ok {
			return
		}
	}

	// 7: position.
	switch surf.role {
	case RoleSubsurface:
		parentWin.mu.Lock()
		px, py := parentWin.rect.Left, parentWin.rect.Top
		parentWin.mu.Unlock()
		surf.subsurface.SetPosition(w.rect.Left-px, w.rect.Top-py)
		parentSurf.Commit()
	case RoleToplevel:
		geo := win.MakeRect(0, 0, width, height)
		current := surf.Current()
		if current.Serial != 0 && current.Flags&(ConfigureMaximized|ConfigureFullscreen) != 0 && current.Width > 0 {
			geo = geo.Intersect(win.MakeRect(0, 0, current.Width, current.Height))
		}
		surf.xdgSurface.SetWindowGeometry(geo.Left, geo.Top, geo.Width(), geo.Height())

		// 8: viewport bridges emulated size to advertised size.
		if surf.viewport != nil && current.Serial != 0 && current.Width > 0 &&
			(current.Width != geo.Width() || current.Height != geo.Height()) {
			surf.viewport.SetDestination(current.Width, current.Height)
		}
	}

	// 9: commit.
	surf.Commit()
}

// ensureRoleLocked keeps the current surface when its role already
// matches, otherwise destroys and re-creates it. The hwnd is wired
// only after the role objects exist so the first configure already
// sees it.
func (w *Window) ensureRoleLocked(want Role, parentSurf *Surface, cfg *win.ConfigureContext) {
	surf := w.surface
	if surf != nil {
		sameParent := want != RoleSubsurface || surf.parentIs(parentSurf)
		if surf.Role() == want && sameParent {
			return
		}
		w.dropSurfaceLocked()
	}
	if want == RoleNone {
		return
	}

	s := w.ts.s
	surf = newSurface(w.ts, 0)
	switch want {
	case RoleToplevel:
		surf.initToplevel(w.title)
	case RoleSubsurface:
		surf.initSubsurface(parentSurf)
	}
	surf.setHWND(w.hwnd)
	w.surface = surf

	if want == RoleToplevel && cfg == nil {
		// The compositor answers the initial commit with the first
		// configure. One round trip fetches it; process it inline so
		// creation returns with a usable size.
		if err := s.client.Flush(); err != nil {
			logger.Warnf("flush surface creation: %v", err)
			return
		}
		if err := s.roundTrip(); err != nil {
			logger.Warnf("wait for initial configure: %v", err)
			return
		}
		if err := w.ts.Dispatch(); err != nil {
			logger.Warnf("dispatch initial configure: %v", err)
		}
	}
}

func (w *Window) dropSurfaceLocked() {
	if w.surface == nil {
		return
	}
	if w.pixel != nil {
		w.pixel.detach()
	}
	surf := w.surface
	w.surface = nil
	surf.setHWND(0)
	surf.unref()
}

// pushStateLocked emits the requested toplevel state transitions,
// clears before sets. Some compositors glitch when a set for the new
// state precedes the clear of the old one.
func (w *Window) pushStateLocked(wantMax, wantFs, minimized bool) {
	t := w.surface.toplevel
	if !wantMax && w.reqMaximized {
		t.UnsetMaximized()
	}
	if !wantFs && w.reqFullscreen {
		t.UnsetFullscreen()
	}
	if wantMax && !w.reqMaximized {
		t.SetMaximized()
	}
	if wantFs && !w.reqFullscreen {
		t.SetFullscreen(nil)
	}
	if minimized && !w.reqMinimized {
		t.SetMinimized()
	}
	w.reqMaximized = wantMax
	w.reqFullscreen = wantFs
	w.reqMinimized = minimized
}

// fullscreenShapedLocked reports whether the window covers a monitor
// exactly while looking like a fullscreen window.
func (w *Window) fullscreenShapedLocked() bool {
	if w.style.Has(win.StyleCaption) || w.style.Has(win.StyleMinimize) {
		return false
	}
	return w.rect == w.ts.s.host.MonitorRect(w.hwnd)
}

// popupLikeLocked implements the popup shape test: undecorated,
// menuless, not minimized, no larger than half its monitor.
func (w *Window) popupLikeLocked() bool {
	st := w.style
	if st.Has(win.StyleCaption) {
		return false
	}
	if st&(win.StyleMinimizeBox|win.StyleMaximizeBox|win.StyleSysMenu) != 0 {
		return false
	}
	if st.Has(win.StyleMinimize) {
		return false
	}
	width, height := w.rect.Width(), w.rect.Height()
	if width <= 0 || height <= 0 {
		return false
	}
	mon := w.ts.s.host.MonitorRect(w.hwnd)
	monArea := int64(mon.Width()) * int64(mon.Height())
	return monArea == 0 || int64(width)*int64(height)*2 <= monArea
}

// decideEffectiveParentLocked picks the window to attach a popup to.
// A host-declared parent always wins. Otherwise the recent-input
// heuristic walks focus candidates, the order depending on whether
// the last input was mouse or keyboard.
func (w *Window) decideEffectiveParentLocked() win.HWND {
	if w.parent != 0 {
		return w.parent
	}
	if !w.popupLikeLocked() {
		return 0
	}

	s := w.ts.s
	host := s.host

	var underPointer, underCursor win.HWND
	if p := s.pointer; p != nil {
		underPointer = p.focusHWND()
		underCursor = host.WindowFromPoint(p.position())
	}
	var keyboardFocus win.HWND
	if k := s.keyboard; k != nil {
		keyboardFocus = k.focusHWND()
	}

	candidates := []win.HWND{underPointer, underCursor, keyboardFocus, host.FocusWindow()}
	if s.lastInput.Load() == inputKeyboard {
		candidates[0], candidates[1] = candidates[1], candidates[0]
	}

	for _, c := range candidates {
		if c == 0 || c == w.hwnd {
			continue
		}
		if !host.IsWindowVisible(c) {
			continue
		}
		if s.Window(c) == nil {
			continue
		}
		return c
	}
	return 0
}

// HandleConfigure processes a queued configure on the owning thread:
// it derives the host rectangle and style from the pending record,
// acks it, and pushes the result back through the host, which
// re-enters WindowPosChanged with the configure context attached.
func (w *Window) HandleConfigure() {
	w.mu.Lock()
	surf := w.surface
	if w.destroyed || surf == nil {
		w.mu.Unlock()
		return
	}
	pending := surf.Pending()
	if pending.Serial == 0 {
		w.mu.Unlock()
		return
	}

	host := w.ts.s.host
	hwnd := w.hwnd

	maximized := pending.Flags.Has(ConfigureMaximized)
	fullscreen := pending.Flags.Has(ConfigureFullscreen)
	resizing := pending.Flags.Has(ConfigureResizing)

	var rect win.Rect
	switch {
	case pending.Width > 0 && pending.Height > 0:
		rect = win.MakeRect(w.rect.Left, w.rect.Top, pending.Width, pending.Height)
		if maximized || fullscreen {
			mon := host.MonitorRect(hwnd)
			rect = rect.Offset(mon.Left-rect.Left, mon.Top-rect.Top)
		}
	case w.reqMaximized || w.reqFullscreen, w.style&(win.StyleMaximize) != 0:
		// Size 0x0 leaving a maximized or fullscreen state: go back
		// to the cached restore rect.
		rect = w.restore
	default:
		rect = w.rect
	}

	if maximized != w.style.Has(win.StyleMaximize) {
		if maximized {
			host.SetWindowStyle(hwnd, win.StyleMaximize, 0)
		} else {
			host.SetWindowStyle(hwnd, 0, win.StyleMaximize)
		}
	}
	w.reqMaximized = maximized
	w.reqFullscreen = fullscreen

	enterSizeMove := resizing && !w.resizing
	exitSizeMove := !resizing && w.resizing
	w.resizing = resizing

	surf.AckPendingConfigure()
	w.mu.Unlock()

	if enterSizeMove {
		host.PostMessage(hwnd, win.MsgEnterSizeMove, 0, 0)
	}
	if exitSizeMove {
		host.PostMessage(hwnd, win.MsgExitSizeMove, 0, 0)
	}

	host.ApplyWindowPos(hwnd, rect, &win.ConfigureContext{
		Serial:     int64(pending.Serial),
		Width:      pending.Width,
		Height:     pending.Height,
		Maximized:  maximized,
		Fullscreen: fullscreen,
		Resizing:   resizing,
		Activated:  pending.Flags.Has(ConfigureActivated),
	})
}

// HandleMessage dispatches the backend's internal window messages.
// It reports whether the message was one of ours.
func (w *Window) HandleMessage(msg uint32, wparam, lparam uint32) bool {
	switch msg {
	case win.MsgWaylandConfigure:
		w.HandleConfigure()
	case win.MsgWaylandSetCursor:
		w.mu.Lock()
		c := w.cursor
		w.mu.Unlock()
		if p := w.ts.s.pointer; p != nil {
			p.applyCursor(w, c)
		}
	case win.MsgWaylandQuerySurfaceMapped:
		// Answered through the return value of SurfaceMapped.
	case win.MsgWaylandBroadcastDisplayChange:
		w.ts.s.host.DisplayChanged()
	case win.MsgWaylandPointerConfinementUpdate:
		// Confinement is a no-op; see ClipCursor.
	case win.MsgWaylandStateUpdate:
		w.mu.Lock()
		w.reconcileLocked(nil)
		w.mu.Unlock()
	default:
		return false
	}
	return true
}

// SurfaceMapped reports whether the window's surface has a committed
// buffer.
func (w *Window) SurfaceMapped() bool {
	w.mu.Lock()
	surf := w.surface
	w.mu.Unlock()
	return surf != nil && surf.Mapped()
}

// Destroy drops the window record and every compositor resource it
// owns.
func (w *Window) Destroy() {
	s := w.ts.s

	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	pixel := w.pixel
	w.pixel = nil
	w.dropSurfaceLocked()
	w.mu.Unlock()

	if pixel != nil {
		pixel.Destroy()
	}

	s.mu.Lock()
	delete(s.windows, w.hwnd)
	s.mu.Unlock()

	if err := s.client.Flush(); err != nil {
		logger.Warnf("flush window destroy: %v", err)
	}
}
