// Package wp provides client proxies for stable and unstable
// wayland-protocols extensions beyond xdg-shell: the viewporter and
// the relative pointer.
package wp

import (
	"deedles.dev/waywin/wire"
	"deedles.dev/waywin/wl"
)

// Viewporter is the wp_viewporter global.
type Viewporter struct {
	base
	client *wl.Client
}

func IsViewporter(i wl.Interface) bool {
	return i.Name == "wp_viewporter"
}

func BindViewporter(c *wl.Client, name uint32) *Viewporter {
	v := Viewporter{client: c}
	c.AddObject(&v)
	c.Display().GetRegistry().Bind(name, "wp_viewporter", 1, &v)
	return &v
}

func (v *Viewporter) Interface() string        { return "wp_viewporter" }
func (v *Viewporter) MethodName(uint16) string { return "unknown" }

func (v *Viewporter) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: v.Interface(), Op: msg.Op()}
}

func (v *Viewporter) GetViewport(s *wl.Surface) *Viewport {
	vp := Viewport{client: v.client}
	v.client.AddObject(&vp)

	msg := wire.NewMessage(v, 1)
	msg.Method = "get_viewport"
	msg.Args = []any{vp.ID(), s.ID()}
	msg.WriteUint(vp.ID())
	msg.WriteUint(s.ID())
	v.client.Enqueue(msg)

	return &vp
}

// Viewport scales a surface's buffer to a destination size.
type Viewport struct {
	base
	client *wl.Client
}

func (vp *Viewport) Interface() string        { return "wp_viewport" }
func (vp *Viewport) MethodName(uint16) string { return "unknown" }

func (vp *Viewport) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: vp.Interface(), Op: msg.Op()}
}

func (vp *Viewport) Destroy() {
	msg := wire.NewMessage(vp, 0)
	msg.Method = "destroy"
	vp.client.Enqueue(msg)
	vp.client.DeleteObject(vp.ID())
}

// SetDestination sets the surface size the buffer is scaled to.
// Width and height of -1 remove the scaling.
func (vp *Viewport) SetDestination(width, height int32) {
	msg := wire.NewMessage(vp, 2)
	msg.Method = "set_destination"
	msg.Args = []any{width, height}
	msg.WriteInt(width)
	msg.WriteInt(height)
	vp.client.Enqueue(msg)
}

type base struct {
	id uint32
}

func (b *base) ID() uint32      { return b.id }
func (b *base) SetID(id uint32) { b.id = id }
func (b *base) Delete()         {}
