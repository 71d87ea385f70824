package xdg

import (
	"deedles.dev/waywin/wire"
	"deedles.dev/waywin/wl"
)

// OutputManager is the zxdg_output_manager_v1 global.
type OutputManager struct {
	base
	client  *wl.Client
	version uint32
}

const outputManagerVersion = 3

func IsOutputManager(i wl.Interface) bool {
	return i.Name == "zxdg_output_manager_v1"
}

func BindOutputManager(c *wl.Client, name, version uint32) *OutputManager {
	if version > outputManagerVersion {
		version = outputManagerVersion
	}
	m := OutputManager{client: c, version: version}
	c.AddObject(&m)
	c.Display().GetRegistry().Bind(name, "zxdg_output_manager_v1", version, &m)
	return &m
}

func (m *OutputManager) Interface() string        { return "zxdg_output_manager_v1" }
func (m *OutputManager) MethodName(uint16) string { return "unknown" }

// Version is the negotiated protocol version. From version 3 the
// xdg_output done event is replaced by the wl_output one.
func (m *OutputManager) Version() uint32 { return m.version }

func (m *OutputManager) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: m.Interface(), Op: msg.Op()}
}

func (m *OutputManager) GetXdgOutput(out *wl.Output) *Output {
	o := Output{client: m.client}
	m.client.AddObject(&o)

	msg := wire.NewMessage(m, 1)
	msg.Method = "get_xdg_output"
	msg.Args = []any{o.ID(), out.ID()}
	msg.WriteUint(o.ID())
	msg.WriteUint(out.ID())
	m.client.Enqueue(msg)

	return &o
}

// Output is a zxdg_output_v1, carrying the logical geometry of a
// wl_output in the compositor's coordinate space.
type Output struct {
	LogicalPosition func(x, y int32)
	LogicalSize     func(width, height int32)
	Done            func()
	Name            func(string)

	base
	client *wl.Client
}

func (o *Output) Interface() string { return "zxdg_output_v1" }

func (o *Output) MethodName(op uint16) string {
	switch op {
	case 0:
		return "logical_position"
	case 1:
		return "logical_size"
	case 2:
		return "done"
	case 3:
		return "name"
	case 4:
		return "description"
	}
	return "unknown"
}

func (o *Output) Destroy() {
	msg := wire.NewMessage(o, 0)
	msg.Method = "destroy"
	o.client.Enqueue(msg)
	o.client.DeleteObject(o.ID())
}

func (o *Output) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // logical_position
		x := msg.ReadInt()
		y := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if o.LogicalPosition != nil {
			o.LogicalPosition(x, y)
		}
		return nil

	case 1: // logical_size
		width := msg.ReadInt()
		height := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if o.LogicalSize != nil {
			o.LogicalSize(width, height)
		}
		return nil

	case 2: // done
		if o.Done != nil {
			o.Done()
		}
		return nil

	case 3: // name
		name := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		if o.Name != nil {
			o.Name(name)
		}
		return nil

	case 4: // description
		msg.ReadString()
		return msg.Err()
	}

	return wire.UnknownOpError{Interface: o.Interface(), Op: msg.Op()}
}
