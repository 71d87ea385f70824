package win

// ConfigureContext identifies the compositor configure a window-pos
// change was derived from. Entry points that accept one behave
// differently from host-driven calls: compositor-owned state is not
// re-requested.
type ConfigureContext struct {
	Serial        int64
	Width, Height int32
	Maximized     bool
	Fullscreen    bool
	Resizing      bool
	Activated     bool
}

// Host is the embedding windowing system. The backend calls it to
// push compositor-driven state into the host window tree and to
// synthesize input. Implementations must be callable from any
// backend goroutine; calls that re-enter the backend do so on the
// calling goroutine.
type Host interface {
	// ApplyWindowPos moves and resizes hwnd. cfg is non-nil when the
	// change was caused by a compositor configure; the host is
	// expected to re-enter the backend's WindowPosChanged with the
	// same context once its bookkeeping is done.
	ApplyWindowPos(hwnd HWND, rect Rect, cfg *ConfigureContext)

	// SetWindowStyle alters hwnd's style bits (maximize flag during
	// compositor-driven maximize, for example).
	SetWindowStyle(hwnd HWND, set, clear Style)

	// SysCommand forwards a size/move system command to hwnd.
	SysCommand(hwnd HWND, cmd uint32)

	// PostMessage queues an asynchronous message to the thread that
	// owns hwnd.
	PostMessage(hwnd HWND, msg uint32, wparam, lparam uint32)

	SendKeyboardInput(in KeyboardInput)
	SendMouseInput(in MouseInput)

	SetForegroundWindow(hwnd HWND) bool
	ForegroundWindow() HWND
	FocusWindow() HWND
	WindowFromPoint(pt Point) HWND
	IsWindowVisible(hwnd HWND) bool

	// MonitorRect returns the host monitor rectangle that hwnd (or
	// the primary monitor, for HWND 0) maps to.
	MonitorRect(hwnd HWND) Rect

	// DisplayChanged tells the host that the set of display devices
	// or their modes changed.
	DisplayChanged()

	Clipboard() Clipboard

	// CursorImage resolves a cursor handle to its pixels. An error
	// means the current cursor should be kept.
	CursorImage(c Cursor) (*CursorImage, error)
}
