package xdg

import (
	"deedles.dev/waywin/wire"
	"deedles.dev/waywin/wl"
)

// Surface is an xdg_surface.
type Surface struct {
	// Configure is invoked when the compositor finishes a configure
	// sequence. The serial must be passed to AckConfigure before a
	// buffer matching the new state is committed.
	Configure func(serial uint32)

	base
	client *wl.Client
}

func (s *Surface) Interface() string { return "xdg_surface" }

func (s *Surface) MethodName(op uint16) string {
	if op == 0 {
		return "configure"
	}
	return "unknown"
}

func (s *Surface) Dispatch(msg *wire.MessageBuffer) error {
	if msg.Op() != 0 {
		return wire.UnknownOpError{Interface: s.Interface(), Op: msg.Op()}
	}

	serial := msg.ReadUint()
	if err := msg.Err(); err != nil {
		return err
	}
	if s.Configure != nil {
		s.Configure(serial)
	}
	return nil
}

func (s *Surface) Destroy() {
	msg := wire.NewMessage(s, 0)
	msg.Method = "destroy"
	s.client.Enqueue(msg)
	s.client.DeleteObject(s.ID())
}

func (s *Surface) GetToplevel() *Toplevel {
	t := Toplevel{client: s.client}
	s.client.AddObject(&t)

	msg := wire.NewMessage(s, 1)
	msg.Method = "get_toplevel"
	msg.Args = []any{t.ID()}
	msg.WriteUint(t.ID())
	s.client.Enqueue(msg)

	return &t
}

// SetWindowGeometry declares the rectangle of the surface that the
// compositor should treat as the window, excluding e.g. shadows.
func (s *Surface) SetWindowGeometry(x, y, width, height int32) {
	msg := wire.NewMessage(s, 3)
	msg.Method = "set_window_geometry"
	msg.Args = []any{x, y, width, height}
	msg.WriteInt(x)
	msg.WriteInt(y)
	msg.WriteInt(width)
	msg.WriteInt(height)
	s.client.Enqueue(msg)
}

func (s *Surface) AckConfigure(serial uint32) {
	msg := wire.NewMessage(s, 4)
	msg.Method = "ack_configure"
	msg.Args = []any{serial}
	msg.WriteUint(serial)
	s.client.Enqueue(msg)
}
