package waywin

import (
	"encoding/binary"
	"io"
	"os"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/sys/unix"

	"deedles.dev/waywin/win"
	"deedles.dev/waywin/wl"
	"deedles.dev/waywin/xdg"
)

// newTestSession connects a session to an in-process fake
// compositor.
func newTestSession(t *testing.T) (*fakeCompositor, *testHost, *Session, *ThreadSession) {
	t.Helper()

	fc, client := newFakeCompositor(t)
	host := newTestHost()
	s, err := newSession(host, DefaultOptions(), client)
	require.NoError(t, err)
	host.setSession(s)

	ts, err := s.Thread()
	require.NoError(t, err)
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return fc, host, s, ts
}

// mapWindow creates a visible toplevel window and runs it through
// its initial configure.
func mapWindow(t *testing.T, fc *fakeCompositor, host *testHost, ts *ThreadSession, hwnd win.HWND, rect win.Rect) *Window {
	t.Helper()

	style := win.StyleCaption | win.StyleSysMenu | win.StyleVisible
	host.setStyle(hwnd, style)
	w := ts.CreateWindow(hwnd, 0, rect, rect, style)
	w.WindowPosChanged(rect, rect, style, nil)
	host.pump(ts.s)

	fc.waitRequest(t, "xdg_surface", "set_window_geometry")
	return w
}

// dispatchUntil pumps thread events until cond holds.
func dispatchUntil(t *testing.T, host *testHost, ts *ThreadSession, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		require.False(t, time.Now().After(deadline), "timed out waiting for thread events")
		pfd := []unix.PollFd{{Fd: int32(ts.WakeFile().Fd()), Events: unix.POLLIN}}
		if _, err := unix.Poll(pfd, 50); err != nil && err != unix.EINTR {
			t.Fatalf("poll wakeup pipe: %v", err)
		}
		require.NoError(t, ts.Dispatch())
		host.pump(ts.s)
	}
}

func utf16Bytes(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return binary.LittleEndian.AppendUint16(out, 0)
}

func TestSessionStartup(t *testing.T) {
	fc, _, s, _ := newTestSession(t)

	assert.NotNil(t, s.compositor)
	assert.NotNil(t, s.shm)
	assert.NotNil(t, s.wmBase)
	assert.True(t, s.SupportsFormat(wl.ShmFormatArgb8888))
	assert.True(t, s.SupportsFormat(wl.ShmFormatXrgb8888))

	assert.Equal(t, 6, fc.countRequests("wl_registry", "bind"))
	fc.waitRequest(t, "wl_data_device_manager", "get_data_device")
}

func TestSessionRequiresWmBase(t *testing.T) {
	fc, client := newFakeCompositor(t)
	fc.dropGlobal("xdg_wm_base")

	_, err := newSession(newTestHost(), DefaultOptions(), client)
	require.Error(t, err)
}

func TestConfigureResizeHandshake(t *testing.T) {
	fc, host, _, ts := newTestSession(t)

	w := mapWindow(t, fc, host, ts, 1, win.MakeRect(100, 100, 800, 600))
	host.reset()

	serial := fc.sendConfigure(1024, 768, xdg.ToplevelStateResizing, xdg.ToplevelStateActivated)
	dispatchUntil(t, host, ts, func() bool {
		_, ok := host.appliedFor(serial)
		return ok
	})

	ap, _ := host.appliedFor(serial)
	assert.Equal(t, win.MakeRect(100, 100, 1024, 768), ap.rect)
	assert.True(t, ap.cfg.Resizing)
	assert.Equal(t, 1, host.postedCount(win.MsgEnterSizeMove))
	assert.Zero(t, host.postedCount(win.MsgExitSizeMove))

	fc.waitRequest(t, "xdg_surface", "ack_configure", func(r *fakeRequest) bool {
		return r.argUint(0) == serial
	})

	ws := w.EnsureWindowSurface()
	ws.AddBounds(win.MakeRect(0, 0, 1024, 768))
	require.True(t, ws.Flush())

	buf := fc.waitRequest(t, "wl_shm_pool", "create_buffer")
	assert.Equal(t, int32(1024), buf.argInt(2))
	assert.Equal(t, int32(768), buf.argInt(3))
	attach := fc.waitRequest(t, "wl_surface", "attach")
	assert.NotZero(t, attach.argUint(0))

	serial = fc.sendConfigure(1024, 768, xdg.ToplevelStateActivated)
	dispatchUntil(t, host, ts, func() bool {
		_, ok := host.appliedFor(serial)
		return ok
	})
	assert.Equal(t, 1, host.postedCount(win.MsgExitSizeMove))
}

func TestMaximizeCycle(t *testing.T) {
	fc, host, _, ts := newTestSession(t)

	rect := win.MakeRect(100, 100, 800, 600)
	w := mapWindow(t, fc, host, ts, 1, rect)
	host.reset()

	// Host-driven maximize: the state request goes out, but drawing
	// stays gated until the compositor answers with the new size.
	style := host.style(1) | win.StyleMaximize
	host.setStyle(1, style)
	w.WindowPosChanged(rect, rect, style, nil)
	fc.waitRequest(t, "xdg_toplevel", "set_maximized")

	ws := w.EnsureWindowSurface()
	ws.AddBounds(win.MakeRect(0, 0, 800, 600))
	assert.False(t, ws.Flush())

	serial := fc.sendConfigure(1920, 1080, xdg.ToplevelStateMaximized, xdg.ToplevelStateActivated)
	dispatchUntil(t, host, ts, func() bool {
		_, ok := host.appliedFor(serial)
		return ok
	})
	ap, _ := host.appliedFor(serial)
	assert.Equal(t, win.MakeRect(0, 0, 1920, 1080), ap.rect)
	assert.True(t, ap.cfg.Maximized)

	ws = w.EnsureWindowSurface()
	ws.AddBounds(win.MakeRect(0, 0, 1920, 1080))
	require.True(t, ws.Flush())

	buf := fc.waitRequest(t, "wl_shm_pool", "create_buffer", func(r *fakeRequest) bool {
		return r.argInt(2) == 1920
	})
	assert.Equal(t, int32(1080), buf.argInt(3))

	// Compositor-driven restore: size 0x0 leaving the maximized
	// state falls back to the cached restore rectangle.
	host.reset()
	serial = fc.sendConfigure(0, 0, xdg.ToplevelStateActivated)
	dispatchUntil(t, host, ts, func() bool {
		_, ok := host.appliedFor(serial)
		return ok
	})
	ap, _ = host.appliedFor(serial)
	assert.Equal(t, rect, ap.rect)
	assert.True(t, host.styleCleared(1, win.StyleMaximize))
	assert.False(t, host.style(1).Has(win.StyleMaximize))
	assert.Zero(t, fc.countRequests("xdg_toplevel", "unset_maximized"))
}

func TestClipboardIncomingSelection(t *testing.T) {
	fc, host, s, _ := newTestSession(t)

	fc.sendSelection(
		[]string{"text/plain;charset=utf-8"},
		map[string][]byte{"text/plain;charset=utf-8": []byte("hello")},
	)
	require.Eventually(t, func() bool {
		return host.clip.hasFormat(win.CFUnicodeText)
	}, 5*time.Second, time.Millisecond)

	s.Clipboard().WindowProc(win.MsgRenderFormat, uint32(win.CFUnicodeText), 0)

	data, ok := host.clip.Data(win.CFUnicodeText)
	require.True(t, ok)
	assert.Equal(t, "hello", decodeUTF16LE(t, data))
}

func TestClipboardTaggedSelectionIgnored(t *testing.T) {
	fc, host, _, _ := newTestSession(t)

	opens := host.clip.openCount()
	fc.sendSelection([]string{tagMime, "text/plain;charset=utf-8"}, nil)

	// A tagged offer is our own selection echoing back; it gets
	// destroyed without touching the host clipboard.
	fc.waitRequest(t, "wl_data_offer", "destroy")
	assert.Equal(t, opens, host.clip.openCount())
	assert.Empty(t, host.clip.Formats())
}

func TestClipboardOutgoingSelection(t *testing.T) {
	fc, host, s, _ := newTestSession(t)

	host.clip.prime(win.CFUnicodeText, utf16Bytes("Hi"))
	s.Clipboard().WindowProc(win.MsgClipboardUpdate, 0, 0)

	fc.waitRequest(t, "wl_data_source", "offer", func(r *fakeRequest) bool {
		return r.argStr(0) == "text/plain;charset=utf-8"
	})
	fc.waitRequest(t, "wl_data_source", "offer", func(r *fakeRequest) bool {
		return r.argStr(0) == tagMime
	})
	sel := fc.waitRequest(t, "wl_data_device", "set_selection")
	assert.NotZero(t, sel.argUint(0))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	fc.sendSourceSend("text/plain;charset=utf-8", w)
	w.Close()

	require.NoError(t, r.SetReadDeadline(time.Now().Add(5*time.Second)))
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Hi", string(data))
}
