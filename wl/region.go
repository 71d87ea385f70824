package wl

import "deedles.dev/waywin/wire"

// Region is a wl_region.
type Region struct {
	base
	client *Client
}

func (r *Region) Interface() string        { return "wl_region" }
func (r *Region) MethodName(uint16) string { return "unknown" }

func (r *Region) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: r.Interface(), Op: msg.Op()}
}

func (r *Region) Destroy() {
	msg := wire.NewMessage(r, 0)
	msg.Method = "destroy"
	r.client.Enqueue(msg)
	r.client.DeleteObject(r.ID())
}

func (r *Region) Add(x, y, width, height int32) {
	msg := wire.NewMessage(r, 1)
	msg.Method = "add"
	msg.Args = []any{x, y, width, height}
	msg.WriteInt(x)
	msg.WriteInt(y)
	msg.WriteInt(width)
	msg.WriteInt(height)
	r.client.Enqueue(msg)
}

func (r *Region) Subtract(x, y, width, height int32) {
	msg := wire.NewMessage(r, 2)
	msg.Method = "subtract"
	msg.Args = []any{x, y, width, height}
	msg.WriteInt(x)
	msg.WriteInt(y)
	msg.WriteInt(width)
	msg.WriteInt(height)
	r.client.Enqueue(msg)
}
