package wl

import "deedles.dev/waywin/wire"

// OutputMode is a bitmask describing a display mode.
type OutputMode uint32

const (
	OutputModeCurrent   OutputMode = 1 << iota
	OutputModePreferred
)

// Output is a wl_output global.
type Output struct {
	Geometry    func(x, y, physicalWidth, physicalHeight, subpixel int32, make, model string, transform int32)
	Mode        func(flags OutputMode, width, height, refresh int32)
	Done        func()
	Scale       func(factor int32)
	Name        func(string)
	Description func(string)

	base
	client *Client
}

const outputVersion = 2

func IsOutput(i Interface) bool {
	return i.Is("wl_output", outputVersion)
}

func BindOutput(c *Client, name uint32) *Output {
	out := Output{client: c}
	c.AddObject(&out)
	c.Display().GetRegistry().Bind(name, "wl_output", outputVersion, &out)
	return &out
}

func (o *Output) Interface() string { return "wl_output" }

func (o *Output) MethodName(op uint16) string {
	switch op {
	case 0:
		return "geometry"
	case 1:
		return "mode"
	case 2:
		return "done"
	case 3:
		return "scale"
	case 4:
		return "name"
	case 5:
		return "description"
	}
	return "unknown"
}

func (o *Output) Release() {
	msg := wire.NewMessage(o, 0)
	msg.Method = "release"
	o.client.Enqueue(msg)
	o.client.DeleteObject(o.ID())
}

func (o *Output) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // geometry
		x := msg.ReadInt()
		y := msg.ReadInt()
		pw := msg.ReadInt()
		ph := msg.ReadInt()
		subpixel := msg.ReadInt()
		mk := msg.ReadString()
		model := msg.ReadString()
		transform := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if o.Geometry != nil {
			o.Geometry(x, y, pw, ph, subpixel, mk, model, transform)
		}
		return nil

	case 1: // mode
		flags := msg.ReadUint()
		width := msg.ReadInt()
		height := msg.ReadInt()
		refresh := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if o.Mode != nil {
			o.Mode(OutputMode(flags), width, height, refresh)
		}
		return nil

	case 2: // done
		if o.Done != nil {
			o.Done()
		}
		return nil

	case 3: // scale
		factor := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if o.Scale != nil {
			o.Scale(factor)
		}
		return nil

	case 4: // name
		name := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		if o.Name != nil {
			o.Name(name)
		}
		return nil

	case 5: // description
		desc := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		if o.Description != nil {
			o.Description(desc)
		}
		return nil
	}

	return wire.UnknownOpError{Interface: o.Interface(), Op: msg.Op()}
}
