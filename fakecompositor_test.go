package waywin

import (
	"bytes"
	"errors"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"deedles.dev/waywin/internal/bin"
	"deedles.dev/waywin/win"
	"deedles.dev/waywin/wire"
	"deedles.dev/waywin/wl"
	"deedles.dev/waywin/xdg"
)

// fakeEventSender satisfies wire.Object just far enough to build
// server-to-client messages.
type fakeEventSender struct {
	id uint32
}

func (o *fakeEventSender) ID() uint32                            { return o.id }
func (o *fakeEventSender) SetID(id uint32)                       { o.id = id }
func (o *fakeEventSender) Delete()                               {}
func (o *fakeEventSender) Dispatch(msg *wire.MessageBuffer) error { return nil }
func (o *fakeEventSender) Interface() string                     { return "server" }
func (o *fakeEventSender) MethodName(uint16) string              { return "event" }

// fakeRequest is one decoded client request.
type fakeRequest struct {
	iface  string
	sender uint32
	name   string
	args   []any
	seen   bool
}

func (r *fakeRequest) argUint(i int) uint32 { return r.args[i].(uint32) }
func (r *fakeRequest) argInt(i int) int32   { return r.args[i].(int32) }
func (r *fakeRequest) argStr(i int) string  { return r.args[i].(string) }

type fakeSig struct {
	name    string
	args    string // u=uint i=int s=string f=fd n=new_id N=typed new_id
	created string // interface bound by an n argument
}

var fakeSigs = map[string]map[uint16]fakeSig{
	"wl_display": {
		0: {"sync", "n", "wl_callback"},
		1: {"get_registry", "n", "wl_registry"},
	},
	"wl_registry": {
		0: {"bind", "uN", ""},
	},
	"wl_compositor": {
		0: {"create_surface", "n", "wl_surface"},
		1: {"create_region", "n", "wl_region"},
	},
	"wl_subcompositor": {
		0: {"destroy", "", ""},
		1: {"get_subsurface", "nuu", "wl_subsurface"},
	},
	"wl_surface": {
		0: {"destroy", "", ""},
		1: {"attach", "uii", ""},
		2: {"damage", "iiii", ""},
		3: {"frame", "n", "wl_callback"},
		4: {"set_opaque_region", "u", ""},
		5: {"set_input_region", "u", ""},
		6: {"commit", "", ""},
		8: {"set_buffer_scale", "i", ""},
		9: {"damage_buffer", "iiii", ""},
	},
	"wl_region": {
		0: {"destroy", "", ""},
		1: {"add", "iiii", ""},
		2: {"subtract", "iiii", ""},
	},
	"wl_shm": {
		0: {"create_pool", "nfi", "wl_shm_pool"},
	},
	"wl_shm_pool": {
		0: {"create_buffer", "niiiiu", "wl_buffer"},
		1: {"destroy", "", ""},
		2: {"resize", "i", ""},
	},
	"wl_buffer": {
		0: {"destroy", "", ""},
	},
	"wl_seat": {
		0: {"get_pointer", "n", "wl_pointer"},
		1: {"get_keyboard", "n", "wl_keyboard"},
		3: {"release", "", ""},
	},
	"wl_pointer": {
		0: {"set_cursor", "uuii", ""},
		1: {"release", "", ""},
	},
	"wl_keyboard": {
		0: {"release", "", ""},
	},
	"wl_data_device_manager": {
		0: {"create_data_source", "n", "wl_data_source"},
		1: {"get_data_device", "nu", "wl_data_device"},
	},
	"wl_data_source": {
		0: {"offer", "s", ""},
		1: {"destroy", "", ""},
	},
	"wl_data_device": {
		1: {"set_selection", "uu", ""},
		2: {"release", "", ""},
	},
	"wl_data_offer": {
		1: {"receive", "sf", ""},
		2: {"destroy", "", ""},
	},
	"xdg_wm_base": {
		0: {"destroy", "", ""},
		1: {"create_positioner", "n", "xdg_positioner"},
		2: {"get_xdg_surface", "nu", "xdg_surface"},
		3: {"pong", "u", ""},
	},
	"xdg_surface": {
		0: {"destroy", "", ""},
		1: {"get_toplevel", "n", "xdg_toplevel"},
		3: {"set_window_geometry", "iiii", ""},
		4: {"ack_configure", "u", ""},
	},
	"xdg_toplevel": {
		0:  {"destroy", "", ""},
		1:  {"set_parent", "u", ""},
		2:  {"set_title", "s", ""},
		3:  {"set_app_id", "s", ""},
		7:  {"set_max_size", "ii", ""},
		8:  {"set_min_size", "ii", ""},
		9:  {"set_maximized", "", ""},
		10: {"unset_maximized", "", ""},
		11: {"set_fullscreen", "u", ""},
		12: {"unset_fullscreen", "", ""},
		13: {"set_minimized", "", ""},
	},
	"wl_subsurface": {
		0: {"destroy", "", ""},
		1: {"set_position", "ii", ""},
		4: {"set_sync", "", ""},
		5: {"set_desync", "", ""},
	},
}

type fakeGlobal struct {
	name    uint32
	iface   string
	version uint32
}

// fakeCompositor speaks the server side of the wire protocol over
// one end of a socketpair. It records every client request and lets
// tests inject events.
type fakeCompositor struct {
	t    *testing.T
	conn *wire.Conn

	writeM sync.Mutex

	mu             sync.Mutex
	ifaces         map[uint32]string
	globals        []fakeGlobal
	requests       []*fakeRequest
	serial         uint32
	nextServerID   uint32
	xdgForSurface  map[uint32]uint32
	toplevelForXdg map[uint32]uint32
	configured     map[uint32]bool
	payloads       map[string][]byte

	lastXdgSurface uint32
	lastToplevel   uint32
	lastDataDevice uint32
	lastDataSource uint32
}

// newFakeCompositor returns a running fake and the client half of
// its connection, ready to hand to newSession.
func newFakeCompositor(t *testing.T) (*fakeCompositor, *wl.Client) {
	t.Helper()

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}

	conns := make([]*net.UnixConn, 2)
	for i, fd := range fds {
		f := os.NewFile(uintptr(fd), "socketpair")
		c, err := net.FileConn(f)
		f.Close()
		if err != nil {
			t.Fatalf("wrap socketpair end: %v", err)
		}
		conns[i] = c.(*net.UnixConn)
	}

	fc := &fakeCompositor{
		t:    t,
		conn: wire.NewConn(conns[1]),
		ifaces: map[uint32]string{
			1: "wl_display",
		},
		globals: []fakeGlobal{
			{1, "wl_compositor", 4},
			{2, "wl_subcompositor", 1},
			{3, "wl_shm", 1},
			{4, "xdg_wm_base", 3},
			{5, "wl_seat", 5},
			{6, "wl_data_device_manager", 3},
		},
		nextServerID:   0xFF000000,
		xdgForSurface:  make(map[uint32]uint32),
		toplevelForXdg: make(map[uint32]uint32),
		configured:     make(map[uint32]bool),
		payloads:       make(map[string][]byte),
	}
	t.Cleanup(func() { fc.conn.Close() })
	go fc.readLoop()

	return fc, wl.NewClient(wire.NewConn(conns[0]))
}

// dropGlobal removes an advertised global before the session
// connects.
func (fc *fakeCompositor) dropGlobal(iface string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	kept := fc.globals[:0]
	for _, g := range fc.globals {
		if g.iface != iface {
			kept = append(kept, g)
		}
	}
	fc.globals = kept
}

func (fc *fakeCompositor) readLoop() {
	for {
		msg, err := wire.ReadMessage(fc.conn)
		if err != nil {
			return
		}
		fc.handle(msg)
	}
}

func (fc *fakeCompositor) handle(msg *wire.MessageBuffer) {
	fc.mu.Lock()
	iface := fc.ifaces[msg.Sender()]
	fc.mu.Unlock()

	sig, ok := fakeSigs[iface][msg.Op()]
	if !ok {
		fc.t.Errorf("unexpected request: %v@%v opcode %v", iface, msg.Sender(), msg.Op())
		return
	}

	req := &fakeRequest{iface: iface, sender: msg.Sender(), name: sig.name}
	for _, code := range sig.args {
		switch code {
		case 'u':
			req.args = append(req.args, msg.ReadUint())
		case 'i':
			req.args = append(req.args, msg.ReadInt())
		case 's':
			req.args = append(req.args, msg.ReadString())
		case 'f':
			req.args = append(req.args, msg.ReadFile())
		case 'n':
			id := msg.ReadUint()
			fc.mu.Lock()
			fc.ifaces[id] = sig.created
			fc.mu.Unlock()
			req.args = append(req.args, id)
		case 'N':
			nid := msg.ReadNewID()
			fc.mu.Lock()
			fc.ifaces[nid.ID] = nid.Interface
			fc.mu.Unlock()
			req.args = append(req.args, nid)
		}
	}
	if err := msg.Err(); err != nil {
		fc.t.Errorf("decode %v.%v: %v", iface, sig.name, err)
		return
	}

	fc.mu.Lock()
	fc.requests = append(fc.requests, req)
	fc.noteLocked(req)
	fc.mu.Unlock()

	fc.react(req)
}

// noteLocked maintains the object bookkeeping the reactive side
// needs.
func (fc *fakeCompositor) noteLocked(req *fakeRequest) {
	switch req.iface + "." + req.name {
	case "xdg_wm_base.get_xdg_surface":
		id, surface := req.argUint(0), req.argUint(1)
		fc.xdgForSurface[surface] = id
		fc.lastXdgSurface = id
	case "xdg_surface.get_toplevel":
		fc.toplevelForXdg[req.sender] = req.argUint(0)
		fc.lastToplevel = req.argUint(0)
	case "wl_data_device_manager.create_data_source":
		fc.lastDataSource = req.argUint(0)
	case "wl_data_device_manager.get_data_device":
		fc.lastDataDevice = req.argUint(0)
	}
	if req.name == "destroy" || req.name == "release" {
		delete(fc.ifaces, req.sender)
	}
}

// react produces the event traffic a real compositor would answer
// the request with.
func (fc *fakeCompositor) react(req *fakeRequest) {
	switch req.iface + "." + req.name {
	case "wl_display.sync":
		cb := req.argUint(0)
		fc.send(cb, 0, func(msg *wire.MessageBuilder) { msg.WriteUint(0) })
		fc.send(1, 1, func(msg *wire.MessageBuilder) { msg.WriteUint(cb) })
		fc.mu.Lock()
		delete(fc.ifaces, cb)
		fc.mu.Unlock()

	case "wl_display.get_registry":
		id := req.argUint(0)
		fc.mu.Lock()
		globals := append([]fakeGlobal(nil), fc.globals...)
		fc.mu.Unlock()
		for _, g := range globals {
			fc.send(id, 0, func(msg *wire.MessageBuilder) {
				msg.WriteUint(g.name)
				msg.WriteString(g.iface)
				msg.WriteUint(g.version)
			})
		}

	case "wl_registry.bind":
		nid := req.args[1].(wire.NewID)
		switch nid.Interface {
		case "wl_shm":
			for _, f := range []wl.ShmFormat{wl.ShmFormatArgb8888, wl.ShmFormatXrgb8888} {
				fc.send(nid.ID, 0, func(msg *wire.MessageBuilder) { msg.WriteUint(uint32(f)) })
			}
		case "wl_seat":
			fc.send(nid.ID, 0, func(msg *wire.MessageBuilder) { msg.WriteUint(0) })
		}

	case "wl_shm.create_pool":
		req.args[1].(*os.File).Close()

	case "wl_surface.commit":
		// The initial commit of a toplevel gets the first configure.
		fc.mu.Lock()
		xdgID := fc.xdgForSurface[req.sender]
		topID := fc.toplevelForXdg[xdgID]
		first := xdgID != 0 && topID != 0 && !fc.configured[xdgID]
		var serial uint32
		if first {
			fc.configured[xdgID] = true
			fc.serial++
			serial = fc.serial
		}
		fc.mu.Unlock()
		if first {
			fc.sendConfigureTo(topID, xdgID, serial, 0, 0, xdg.ToplevelStateActivated)
		}

	case "wl_data_offer.receive":
		mime := req.argStr(0)
		f := req.args[1].(*os.File)
		fc.mu.Lock()
		payload := fc.payloads[mime]
		fc.mu.Unlock()
		f.Write(payload)
		f.Close()
	}
}

func (fc *fakeCompositor) send(sender uint32, op uint16, build func(*wire.MessageBuilder)) {
	msg := wire.NewMessage(&fakeEventSender{id: sender}, op)
	msg.Method = "event"
	if build != nil {
		build(msg)
	}
	fc.writeM.Lock()
	err := msg.Build(fc.conn)
	fc.writeM.Unlock()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		fc.t.Logf("send event to %v: %v", sender, err)
	}
}

func toplevelStateBytes(states []xdg.ToplevelState) []byte {
	var buf bytes.Buffer
	for _, st := range states {
		bin.Write(&buf, uint32(st))
	}
	return buf.Bytes()
}

func (fc *fakeCompositor) sendConfigureTo(top, xdgSurface, serial uint32, width, height int32, states ...xdg.ToplevelState) {
	fc.send(top, 0, func(msg *wire.MessageBuilder) {
		msg.WriteInt(width)
		msg.WriteInt(height)
		msg.WriteArray(toplevelStateBytes(states))
	})
	fc.send(xdgSurface, 0, func(msg *wire.MessageBuilder) { msg.WriteUint(serial) })
}

// sendConfigure emits a configure sequence for the most recently
// created toplevel and returns its serial.
func (fc *fakeCompositor) sendConfigure(width, height int32, states ...xdg.ToplevelState) uint32 {
	fc.mu.Lock()
	top, xdgSurface := fc.lastToplevel, fc.lastXdgSurface
	fc.serial++
	serial := fc.serial
	fc.mu.Unlock()
	fc.sendConfigureTo(top, xdgSurface, serial, width, height, states...)
	return serial
}

// sendSelection announces a new selection offer carrying the given
// MIME types. payloads maps MIME types to the bytes served when the
// client asks to receive them.
func (fc *fakeCompositor) sendSelection(mimes []string, payloads map[string][]byte) uint32 {
	fc.mu.Lock()
	dd := fc.lastDataDevice
	fc.nextServerID++
	id := fc.nextServerID
	fc.ifaces[id] = "wl_data_offer"
	for m, p := range payloads {
		fc.payloads[m] = p
	}
	fc.mu.Unlock()

	fc.send(dd, 0, func(msg *wire.MessageBuilder) { msg.WriteUint(id) })
	for _, m := range mimes {
		fc.send(id, 0, func(msg *wire.MessageBuilder) { msg.WriteString(m) })
	}
	fc.send(dd, 5, func(msg *wire.MessageBuilder) { msg.WriteUint(id) })
	return id
}

// sendSourceSend asks the client's data source to write mime into w.
func (fc *fakeCompositor) sendSourceSend(mime string, w *os.File) {
	fc.mu.Lock()
	src := fc.lastDataSource
	fc.mu.Unlock()
	fc.send(src, 1, func(msg *wire.MessageBuilder) {
		msg.WriteString(mime)
		msg.WriteFile(w)
	})
}

// waitRequest blocks until an unconsumed request matching iface,
// name, and the optional predicate has been recorded.
func (fc *fakeCompositor) waitRequest(t *testing.T, iface, name string, match ...func(*fakeRequest) bool) *fakeRequest {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		fc.mu.Lock()
	scan:
		for _, r := range fc.requests {
			if r.seen || r.iface != iface || r.name != name {
				continue
			}
			for _, m := range match {
				if !m(r) {
					continue scan
				}
			}
			r.seen = true
			fc.mu.Unlock()
			return r
		}
		fc.mu.Unlock()

		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %v.%v", iface, name)
		}
		time.Sleep(time.Millisecond)
	}
}

// countRequests reports how many requests matching iface and name
// have been recorded so far, consumed or not.
func (fc *fakeCompositor) countRequests(iface, name string) int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	n := 0
	for _, r := range fc.requests {
		if r.iface == iface && r.name == name {
			n++
		}
	}
	return n
}

type postedMsg struct {
	hwnd   win.HWND
	msg    uint32
	wparam uint32
	lparam uint32
}

type appliedPos struct {
	hwnd win.HWND
	rect win.Rect
	cfg  win.ConfigureContext
}

type styleChange struct {
	hwnd       win.HWND
	set, clear win.Style
}

// testHost is a recording win.Host. ApplyWindowPos echoes configure
// contexts back into the backend the way a real host does, and
// posted messages sit in a queue until pump delivers them.
type testHost struct {
	clip *testClipboard

	mu      sync.Mutex
	s       *Session
	styles  map[win.HWND]win.Style
	rects   map[win.HWND]win.Rect
	queue   []postedMsg
	posted  []postedMsg
	applied []appliedPos
	styled  []styleChange
	sysCmds []uint32
	mouse   []win.MouseInput
	keys    []win.KeyboardInput
}

func newTestHost() *testHost {
	return &testHost{
		clip:   newTestClipboard(),
		styles: make(map[win.HWND]win.Style),
		rects:  make(map[win.HWND]win.Rect),
	}
}

func (h *testHost) setSession(s *Session) {
	h.mu.Lock()
	h.s = s
	h.mu.Unlock()
}

func (h *testHost) setStyle(hwnd win.HWND, style win.Style) {
	h.mu.Lock()
	h.styles[hwnd] = style
	h.mu.Unlock()
}

func (h *testHost) style(hwnd win.HWND) win.Style {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.styles[hwnd]
}

func (h *testHost) reset() {
	h.mu.Lock()
	h.posted = nil
	h.applied = nil
	h.styled = nil
	h.sysCmds = nil
	h.mouse = nil
	h.keys = nil
	h.mu.Unlock()
}

// pump delivers queued messages, including any posted while earlier
// ones were being handled.
func (h *testHost) pump(s *Session) {
	for {
		h.mu.Lock()
		if len(h.queue) == 0 {
			h.mu.Unlock()
			return
		}
		m := h.queue[0]
		h.queue = h.queue[1:]
		h.mu.Unlock()

		if w := s.Window(m.hwnd); w != nil {
			w.HandleMessage(m.msg, m.wparam, m.lparam)
		}
	}
}

func (h *testHost) postedCount(msg uint32) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, m := range h.posted {
		if m.msg == msg {
			n++
		}
	}
	return n
}

func (h *testHost) appliedFor(serial uint32) (appliedPos, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, a := range h.applied {
		if a.cfg.Serial == int64(serial) {
			return a, true
		}
	}
	return appliedPos{}, false
}

func (h *testHost) styleCleared(hwnd win.HWND, bits win.Style) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.styled {
		if c.hwnd == hwnd && c.clear&bits == bits {
			return true
		}
	}
	return false
}

func (h *testHost) ApplyWindowPos(hwnd win.HWND, rect win.Rect, cfg *win.ConfigureContext) {
	h.mu.Lock()
	h.rects[hwnd] = rect
	style := h.styles[hwnd]
	s := h.s
	var c win.ConfigureContext
	if cfg != nil {
		c = *cfg
	}
	h.applied = append(h.applied, appliedPos{hwnd, rect, c})
	h.mu.Unlock()

	if cfg == nil || s == nil {
		return
	}
	if w := s.Window(hwnd); w != nil {
		w.WindowPosChanged(rect, rect, style, cfg)
	}
}

func (h *testHost) SetWindowStyle(hwnd win.HWND, set, clear win.Style) {
	h.mu.Lock()
	h.styles[hwnd] = (h.styles[hwnd] | set) &^ clear
	h.styled = append(h.styled, styleChange{hwnd, set, clear})
	h.mu.Unlock()
}

func (h *testHost) SysCommand(hwnd win.HWND, cmd uint32) {
	h.mu.Lock()
	h.sysCmds = append(h.sysCmds, cmd)
	h.mu.Unlock()
}

func (h *testHost) PostMessage(hwnd win.HWND, msg uint32, wparam, lparam uint32) {
	h.mu.Lock()
	m := postedMsg{hwnd, msg, wparam, lparam}
	h.queue = append(h.queue, m)
	h.posted = append(h.posted, m)
	h.mu.Unlock()
}

func (h *testHost) SendKeyboardInput(in win.KeyboardInput) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys = append(h.keys, in)
}

func (h *testHost) SendMouseInput(in win.MouseInput) {
	h.mu.Lock()
	h.mouse = append(h.mouse, in)
	h.mu.Unlock()
}

func (h *testHost) mouseInputs() []win.MouseInput {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]win.MouseInput(nil), h.mouse...)
}

func (h *testHost) keyInputs() []win.KeyboardInput {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]win.KeyboardInput(nil), h.keys...)
}

func (h *testHost) SetForegroundWindow(hwnd win.HWND) bool { return true }
func (h *testHost) ForegroundWindow() win.HWND             { return 0 }
func (h *testHost) FocusWindow() win.HWND                  { return 0 }
func (h *testHost) WindowFromPoint(pt win.Point) win.HWND  { return 0 }

func (h *testHost) IsWindowVisible(hwnd win.HWND) bool {
	return h.style(hwnd).Has(win.StyleVisible)
}

func (h *testHost) MonitorRect(hwnd win.HWND) win.Rect {
	return win.MakeRect(0, 0, 1920, 1080)
}

func (h *testHost) DisplayChanged() {}

func (h *testHost) Clipboard() win.Clipboard { return h.clip }

func (h *testHost) CursorImage(c win.Cursor) (*win.CursorImage, error) {
	return nil, errors.New("no cursor image")
}

// testClipboard is an in-memory win.Clipboard.
type testClipboard struct {
	mu      sync.Mutex
	opens   int
	empties int
	owned   bool
	formats []win.ClipboardFormat
	data    map[win.ClipboardFormat][]byte
	names   map[string]win.ClipboardFormat
	nextReg win.ClipboardFormat
}

func newTestClipboard() *testClipboard {
	return &testClipboard{
		data:    make(map[win.ClipboardFormat][]byte),
		names:   make(map[string]win.ClipboardFormat),
		nextReg: win.CFRegisteredBase,
	}
}

func (c *testClipboard) Open(owner win.HWND) bool {
	c.mu.Lock()
	c.opens++
	c.mu.Unlock()
	return true
}

func (c *testClipboard) Close() {}

func (c *testClipboard) Empty() {
	c.mu.Lock()
	c.empties++
	c.owned = true
	c.formats = nil
	c.data = make(map[win.ClipboardFormat][]byte)
	c.mu.Unlock()
}

func (c *testClipboard) SetDelayed(format win.ClipboardFormat) {
	c.mu.Lock()
	c.formats = append(c.formats, format)
	c.mu.Unlock()
}

func (c *testClipboard) Set(format win.ClipboardFormat, data []byte) {
	c.mu.Lock()
	c.data[format] = data
	found := false
	for _, f := range c.formats {
		if f == format {
			found = true
			break
		}
	}
	if !found {
		c.formats = append(c.formats, format)
	}
	c.mu.Unlock()
}

func (c *testClipboard) Formats() []win.ClipboardFormat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]win.ClipboardFormat(nil), c.formats...)
}

func (c *testClipboard) Data(format win.ClipboardFormat) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[format]
	return d, ok
}

func (c *testClipboard) RegisterFormat(name string) win.ClipboardFormat {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.names[name]; ok {
		return f
	}
	f := c.nextReg
	c.nextReg++
	c.names[name] = f
	return f
}

func (c *testClipboard) IsOwned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owned
}

func (c *testClipboard) hasFormat(format win.ClipboardFormat) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.formats {
		if f == format {
			return true
		}
	}
	return false
}

func (c *testClipboard) openCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens
}

// prime fills the clipboard with host-originated content that this
// process does not own.
func (c *testClipboard) prime(format win.ClipboardFormat, data []byte) {
	c.mu.Lock()
	c.owned = false
	c.formats = []win.ClipboardFormat{format}
	c.data = map[win.ClipboardFormat][]byte{format: data}
	c.mu.Unlock()
}
