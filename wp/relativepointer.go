package wp

import (
	"deedles.dev/waywin/wire"
	"deedles.dev/waywin/wl"
)

// RelativePointerManager is the zwp_relative_pointer_manager_v1
// global.
type RelativePointerManager struct {
	base
	client *wl.Client
}

func IsRelativePointerManager(i wl.Interface) bool {
	return i.Name == "zwp_relative_pointer_manager_v1"
}

func BindRelativePointerManager(c *wl.Client, name uint32) *RelativePointerManager {
	m := RelativePointerManager{client: c}
	c.AddObject(&m)
	c.Display().GetRegistry().Bind(name, "zwp_relative_pointer_manager_v1", 1, &m)
	return &m
}

func (m *RelativePointerManager) Interface() string        { return "zwp_relative_pointer_manager_v1" }
func (m *RelativePointerManager) MethodName(uint16) string { return "unknown" }

func (m *RelativePointerManager) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: m.Interface(), Op: msg.Op()}
}

func (m *RelativePointerManager) GetRelativePointer(p *wl.Pointer) *RelativePointer {
	rp := RelativePointer{client: m.client}
	m.client.AddObject(&rp)

	msg := wire.NewMessage(m, 1)
	msg.Method = "get_relative_pointer"
	msg.Args = []any{rp.ID(), p.ID()}
	msg.WriteUint(rp.ID())
	msg.WriteUint(p.ID())
	m.client.Enqueue(msg)

	return &rp
}

// RelativePointer is a zwp_relative_pointer_v1 delivering unclipped
// motion deltas.
type RelativePointer struct {
	// RelativeMotion reports a motion delta. The unaccelerated pair
	// carries the raw device motion.
	RelativeMotion func(utime uint64, dx, dy, dxUnaccel, dyUnaccel wire.Fixed)

	base
	client *wl.Client
}

func (rp *RelativePointer) Interface() string { return "zwp_relative_pointer_v1" }

func (rp *RelativePointer) MethodName(op uint16) string {
	if op == 0 {
		return "relative_motion"
	}
	return "unknown"
}

func (rp *RelativePointer) Destroy() {
	msg := wire.NewMessage(rp, 0)
	msg.Method = "destroy"
	rp.client.Enqueue(msg)
	rp.client.DeleteObject(rp.ID())
}

func (rp *RelativePointer) Dispatch(msg *wire.MessageBuffer) error {
	if msg.Op() != 0 {
		return wire.UnknownOpError{Interface: rp.Interface(), Op: msg.Op()}
	}

	hi := msg.ReadUint()
	lo := msg.ReadUint()
	dx := msg.ReadFixed()
	dy := msg.ReadFixed()
	dxU := msg.ReadFixed()
	dyU := msg.ReadFixed()
	if err := msg.Err(); err != nil {
		return err
	}
	if rp.RelativeMotion != nil {
		rp.RelativeMotion(uint64(hi)<<32|uint64(lo), dx, dy, dxU, dyU)
	}
	return nil
}
