package xdg

import (
	"deedles.dev/waywin/wire"
	"deedles.dev/waywin/wl"
)

// ToplevelState is a state advertised in xdg_toplevel.configure.
type ToplevelState uint32

const (
	ToplevelStateMaximized ToplevelState = 1 + iota
	ToplevelStateFullscreen
	ToplevelStateResizing
	ToplevelStateActivated
)

// Toplevel is an xdg_toplevel role object.
type Toplevel struct {
	// Configure proposes a new size and state set. A size of 0x0
	// leaves the choice to the client.
	Configure func(width, height int32, states []ToplevelState)
	// Close is invoked when the user asks the window to close.
	Close func()

	base
	client *wl.Client
}

func (t *Toplevel) Interface() string { return "xdg_toplevel" }

func (t *Toplevel) MethodName(op uint16) string {
	switch op {
	case 0:
		return "configure"
	case 1:
		return "close"
	case 2:
		return "configure_bounds"
	case 3:
		return "wm_capabilities"
	}
	return "unknown"
}

func (t *Toplevel) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // configure
		width := msg.ReadInt()
		height := msg.ReadInt()
		arr := msg.ReadArray()
		if err := msg.Err(); err != nil {
			return err
		}
		if t.Configure != nil {
			states := make([]ToplevelState, 0, len(arr)/4)
			for i := 0; i+4 <= len(arr); i += 4 {
				states = append(states, ToplevelState(hostUint32(arr[i:i+4])))
			}
			t.Configure(width, height, states)
		}
		return nil

	case 1: // close
		if t.Close != nil {
			t.Close()
		}
		return nil

	case 2: // configure_bounds
		msg.ReadInt()
		msg.ReadInt()
		return msg.Err()

	case 3: // wm_capabilities
		msg.ReadArray()
		return msg.Err()
	}

	return wire.UnknownOpError{Interface: t.Interface(), Op: msg.Op()}
}

func (t *Toplevel) Destroy() {
	msg := wire.NewMessage(t, 0)
	msg.Method = "destroy"
	t.client.Enqueue(msg)
	t.client.DeleteObject(t.ID())
}

// SetParent anchors t above parent. A nil parent detaches it.
func (t *Toplevel) SetParent(parent *Toplevel) {
	msg := wire.NewMessage(t, 1)
	msg.Method = "set_parent"
	var id uint32
	if parent != nil {
		id = parent.ID()
	}
	msg.Args = []any{id}
	msg.WriteUint(id)
	t.client.Enqueue(msg)
}

func (t *Toplevel) SetTitle(title string) {
	msg := wire.NewMessage(t, 2)
	msg.Method = "set_title"
	msg.Args = []any{title}
	msg.WriteString(title)
	t.client.Enqueue(msg)
}

func (t *Toplevel) SetAppID(appID string) {
	msg := wire.NewMessage(t, 3)
	msg.Method = "set_app_id"
	msg.Args = []any{appID}
	msg.WriteString(appID)
	t.client.Enqueue(msg)
}

func (t *Toplevel) SetMaxSize(width, height int32) {
	msg := wire.NewMessage(t, 7)
	msg.Method = "set_max_size"
	msg.Args = []any{width, height}
	msg.WriteInt(width)
	msg.WriteInt(height)
	t.client.Enqueue(msg)
}

func (t *Toplevel) SetMinSize(width, height int32) {
	msg := wire.NewMessage(t, 8)
	msg.Method = "set_min_size"
	msg.Args = []any{width, height}
	msg.WriteInt(width)
	msg.WriteInt(height)
	t.client.Enqueue(msg)
}

func (t *Toplevel) SetMaximized() {
	msg := wire.NewMessage(t, 9)
	msg.Method = "set_maximized"
	t.client.Enqueue(msg)
}

func (t *Toplevel) UnsetMaximized() {
	msg := wire.NewMessage(t, 10)
	msg.Method = "unset_maximized"
	t.client.Enqueue(msg)
}

// SetFullscreen requests fullscreen, optionally on a specific
// output.
func (t *Toplevel) SetFullscreen(output *wl.Output) {
	msg := wire.NewMessage(t, 11)
	msg.Method = "set_fullscreen"
	var id uint32
	if output != nil {
		id = output.ID()
	}
	msg.Args = []any{id}
	msg.WriteUint(id)
	t.client.Enqueue(msg)
}

func (t *Toplevel) UnsetFullscreen() {
	msg := wire.NewMessage(t, 12)
	msg.Method = "unset_fullscreen"
	t.client.Enqueue(msg)
}

func (t *Toplevel) SetMinimized() {
	msg := wire.NewMessage(t, 13)
	msg.Method = "set_minimized"
	t.client.Enqueue(msg)
}

func hostUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
