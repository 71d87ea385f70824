package wl

import "deedles.dev/waywin/wire"

// SeatCapability is a bitmask of the input devices a seat offers.
type SeatCapability uint32

const (
	SeatCapabilityPointer  SeatCapability = 1 << iota
	SeatCapabilityKeyboard
	SeatCapabilityTouch
)

// Seat is the wl_seat global.
type Seat struct {
	Capabilities func(SeatCapability)
	Name         func(string)

	base
	client *Client
}

const seatVersion = 5

func IsSeat(i Interface) bool {
	return i.Is("wl_seat", seatVersion)
}

func BindSeat(c *Client, name uint32) *Seat {
	seat := Seat{client: c}
	c.AddObject(&seat)
	c.Display().GetRegistry().Bind(name, "wl_seat", seatVersion, &seat)
	return &seat
}

func (s *Seat) Interface() string { return "wl_seat" }

func (s *Seat) MethodName(op uint16) string {
	switch op {
	case 0:
		return "capabilities"
	case 1:
		return "name"
	}
	return "unknown"
}

func (s *Seat) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // capabilities
		caps := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if s.Capabilities != nil {
			s.Capabilities(SeatCapability(caps))
		}
		return nil

	case 1: // name
		name := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		if s.Name != nil {
			s.Name(name)
		}
		return nil
	}

	return wire.UnknownOpError{Interface: s.Interface(), Op: msg.Op()}
}

func (s *Seat) GetPointer() *Pointer {
	p := Pointer{client: s.client}
	s.client.AddObject(&p)

	msg := wire.NewMessage(s, 0)
	msg.Method = "get_pointer"
	msg.Args = []any{p.ID()}
	msg.WriteUint(p.ID())
	s.client.Enqueue(msg)

	return &p
}

func (s *Seat) GetKeyboard() *Keyboard {
	k := Keyboard{client: s.client}
	s.client.AddObject(&k)

	msg := wire.NewMessage(s, 1)
	msg.Method = "get_keyboard"
	msg.Args = []any{k.ID()}
	msg.WriteUint(k.ID())
	s.client.Enqueue(msg)

	return &k
}

func (s *Seat) Release() {
	msg := wire.NewMessage(s, 3)
	msg.Method = "release"
	s.client.Enqueue(msg)
	s.client.DeleteObject(s.ID())
}
