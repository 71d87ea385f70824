package wl

import "deedles.dev/waywin/wire"

// Subcompositor is the wl_subcompositor global.
type Subcompositor struct {
	base
	client *Client
}

const subcompositorVersion = 1

func IsSubcompositor(i Interface) bool {
	return i.Is("wl_subcompositor", subcompositorVersion)
}

func BindSubcompositor(c *Client, name uint32) *Subcompositor {
	sc := Subcompositor{client: c}
	c.AddObject(&sc)
	c.Display().GetRegistry().Bind(name, "wl_subcompositor", subcompositorVersion, &sc)
	return &sc
}

func (sc *Subcompositor) Interface() string        { return "wl_subcompositor" }
func (sc *Subcompositor) MethodName(uint16) string { return "unknown" }

func (sc *Subcompositor) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: sc.Interface(), Op: msg.Op()}
}

// GetSubsurface gives s the subsurface role with parent as its
// parent surface.
func (sc *Subcompositor) GetSubsurface(s, parent *Surface) *Subsurface {
	sub := Subsurface{client: sc.client}
	sc.client.AddObject(&sub)

	msg := wire.NewMessage(sc, 1)
	msg.Method = "get_subsurface"
	msg.Args = []any{sub.ID(), s.ID(), parent.ID()}
	msg.WriteUint(sub.ID())
	msg.WriteUint(s.ID())
	msg.WriteUint(parent.ID())
	sc.client.Enqueue(msg)

	return &sub
}

// Subsurface is a wl_subsurface role object.
type Subsurface struct {
	base
	client *Client
}

func (ss *Subsurface) Interface() string        { return "wl_subsurface" }
func (ss *Subsurface) MethodName(uint16) string { return "unknown" }

func (ss *Subsurface) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: ss.Interface(), Op: msg.Op()}
}

func (ss *Subsurface) Destroy() {
	msg := wire.NewMessage(ss, 0)
	msg.Method = "destroy"
	ss.client.Enqueue(msg)
	ss.client.DeleteObject(ss.ID())
}

// SetPosition schedules a move of the subsurface relative to the
// parent; it takes effect on the parent's next commit.
func (ss *Subsurface) SetPosition(x, y int32) {
	msg := wire.NewMessage(ss, 1)
	msg.Method = "set_position"
	msg.Args = []any{x, y}
	msg.WriteInt(x)
	msg.WriteInt(y)
	ss.client.Enqueue(msg)
}

func (ss *Subsurface) PlaceAbove(sibling *Surface) {
	msg := wire.NewMessage(ss, 2)
	msg.Method = "place_above"
	msg.Args = []any{sibling.ID()}
	msg.WriteUint(sibling.ID())
	ss.client.Enqueue(msg)
}

func (ss *Subsurface) PlaceBelow(sibling *Surface) {
	msg := wire.NewMessage(ss, 3)
	msg.Method = "place_below"
	msg.Args = []any{sibling.ID()}
	msg.WriteUint(sibling.ID())
	ss.client.Enqueue(msg)
}

func (ss *Subsurface) SetSync() {
	msg := wire.NewMessage(ss, 4)
	msg.Method = "set_sync"
	ss.client.Enqueue(msg)
}

func (ss *Subsurface) SetDesync() {
	msg := wire.NewMessage(ss, 5)
	msg.Method = "set_desync"
	ss.client.Enqueue(msg)
}
