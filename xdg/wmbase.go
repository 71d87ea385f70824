// Package xdg provides client proxies for the xdg-shell protocol and
// the xdg-output extension.
package xdg

import (
	"deedles.dev/waywin/wire"
	"deedles.dev/waywin/wl"
)

// WmBase is the xdg_wm_base global.
type WmBase struct {
	base
	client *wl.Client
}

const wmBaseVersion = 3

func IsWmBase(i wl.Interface) bool {
	return i.Is("xdg_wm_base", wmBaseVersion)
}

func BindWmBase(c *wl.Client, name uint32) *WmBase {
	wm := WmBase{client: c}
	c.AddObject(&wm)
	c.Display().GetRegistry().Bind(name, "xdg_wm_base", wmBaseVersion, &wm)
	return &wm
}

func (wm *WmBase) Interface() string { return "xdg_wm_base" }

func (wm *WmBase) MethodName(op uint16) string {
	if op == 0 {
		return "ping"
	}
	return "unknown"
}

func (wm *WmBase) Dispatch(msg *wire.MessageBuffer) error {
	if msg.Op() != 0 {
		return wire.UnknownOpError{Interface: wm.Interface(), Op: msg.Op()}
	}

	serial := msg.ReadUint()
	if err := msg.Err(); err != nil {
		return err
	}
	wm.Pong(serial)
	return nil
}

func (wm *WmBase) Pong(serial uint32) {
	msg := wire.NewMessage(wm, 3)
	msg.Method = "pong"
	msg.Args = []any{serial}
	msg.WriteUint(serial)
	wm.client.Enqueue(msg)
}

// GetXdgSurface assigns s the xdg_surface role scaffolding.
func (wm *WmBase) GetXdgSurface(s *wl.Surface) *Surface {
	xs := Surface{client: wm.client}
	wm.client.AddObject(&xs)

	msg := wire.NewMessage(wm, 2)
	msg.Method = "get_xdg_surface"
	msg.Args = []any{xs.ID(), s.ID()}
	msg.WriteUint(xs.ID())
	msg.WriteUint(s.ID())
	wm.client.Enqueue(msg)

	return &xs
}

type base struct {
	id uint32
}

func (b *base) ID() uint32      { return b.id }
func (b *base) SetID(id uint32) { b.id = id }
func (b *base) Delete()         {}
