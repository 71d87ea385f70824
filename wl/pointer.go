package wl

import "deedles.dev/waywin/wire"

// PointerButton is a button code from linux/input-event-codes.h.
type PointerButton uint32

const (
	PointerButtonLeft PointerButton = 0x110 + iota
	PointerButtonRight
	PointerButtonMiddle
	PointerButtonSide
	PointerButtonExtra
	PointerButtonForward
	PointerButtonBack
	PointerButtonTask
)

func (b PointerButton) String() string {
	switch b {
	case PointerButtonLeft:
		return "left"
	case PointerButtonRight:
		return "right"
	case PointerButtonMiddle:
		return "middle"
	case PointerButtonSide:
		return "side"
	case PointerButtonExtra:
		return "extra"
	case PointerButtonForward:
		return "forward"
	case PointerButtonBack:
		return "back"
	case PointerButtonTask:
		return "task"
	}
	return "unknown"
}

type PointerButtonState uint32

const (
	PointerButtonStateReleased PointerButtonState = iota
	PointerButtonStatePressed
)

type PointerAxis uint32

const (
	PointerAxisVerticalScroll PointerAxis = iota
	PointerAxisHorizontalScroll
)

// Pointer is a wl_pointer.
type Pointer struct {
	Enter        func(serial uint32, s *Surface, x, y wire.Fixed)
	Leave        func(serial uint32, s *Surface)
	Motion       func(time uint32, x, y wire.Fixed)
	Button       func(serial, time uint32, button PointerButton, state PointerButtonState)
	Axis         func(time uint32, axis PointerAxis, value wire.Fixed)
	Frame        func()
	AxisDiscrete func(axis PointerAxis, discrete int32)

	base
	client *Client
}

func (p *Pointer) Interface() string { return "wl_pointer" }

func (p *Pointer) MethodName(op uint16) string {
	switch op {
	case 0:
		return "enter"
	case 1:
		return "leave"
	case 2:
		return "motion"
	case 3:
		return "button"
	case 4:
		return "axis"
	case 5:
		return "frame"
	case 6:
		return "axis_source"
	case 7:
		return "axis_stop"
	case 8:
		return "axis_discrete"
	}
	return "unknown"
}

// SetCursor attaches a cursor surface with the given hotspot for the
// pointer focus identified by serial. A nil surface hides the
// cursor.
func (p *Pointer) SetCursor(serial uint32, s *Surface, hotspotX, hotspotY int32) {
	msg := wire.NewMessage(p, 0)
	msg.Method = "set_cursor"
	var id uint32
	if s != nil {
		id = s.ID()
	}
	msg.Args = []any{serial, id, hotspotX, hotspotY}
	msg.WriteUint(serial)
	msg.WriteUint(id)
	msg.WriteInt(hotspotX)
	msg.WriteInt(hotspotY)
	p.client.Enqueue(msg)
}

func (p *Pointer) Release() {
	msg := wire.NewMessage(p, 1)
	msg.Method = "release"
	p.client.Enqueue(msg)
	p.client.DeleteObject(p.ID())
}

func (p *Pointer) surface(id uint32) *Surface {
	s, _ := p.client.GetObject(id).(*Surface)
	return s
}

func (p *Pointer) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // enter
		serial := msg.ReadUint()
		surface := msg.ReadUint()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Enter != nil {
			p.Enter(serial, p.surface(surface), x, y)
		}
		return nil

	case 1: // leave
		serial := msg.ReadUint()
		surface := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Leave != nil {
			p.Leave(serial, p.surface(surface))
		}
		return nil

	case 2: // motion
		time := msg.ReadUint()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Motion != nil {
			p.Motion(time, x, y)
		}
		return nil

	case 3: // button
		serial := msg.ReadUint()
		time := msg.ReadUint()
		button := msg.ReadUint()
		state := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Button != nil {
			p.Button(serial, time, PointerButton(button), PointerButtonState(state))
		}
		return nil

	case 4: // axis
		time := msg.ReadUint()
		axis := msg.ReadUint()
		value := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Axis != nil {
			p.Axis(time, PointerAxis(axis), value)
		}
		return nil

	case 5: // frame
		if p.Frame != nil {
			p.Frame()
		}
		return nil

	case 6: // axis_source
		msg.ReadUint()
		return msg.Err()

	case 7: // axis_stop
		msg.ReadUint()
		msg.ReadUint()
		return msg.Err()

	case 8: // axis_discrete
		axis := msg.ReadUint()
		discrete := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.AxisDiscrete != nil {
			p.AxisDiscrete(PointerAxis(axis), discrete)
		}
		return nil
	}

	return wire.UnknownOpError{Interface: p.Interface(), Op: msg.Op()}
}
