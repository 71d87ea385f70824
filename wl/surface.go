package wl

import "deedles.dev/waywin/wire"

// Surface is a wl_surface.
type Surface struct {
	// Enter and Leave report which outputs the surface overlaps.
	Enter func(output *Output)
	Leave func(output *Output)

	base
	client *Client
}

func (s *Surface) Interface() string { return "wl_surface" }

func (s *Surface) MethodName(op uint16) string {
	switch op {
	case 0:
		return "enter"
	case 1:
		return "leave"
	case 2:
		return "preferred_buffer_scale"
	case 3:
		return "preferred_buffer_transform"
	}
	return "unknown"
}

func (s *Surface) Destroy() {
	msg := wire.NewMessage(s, 0)
	msg.Method = "destroy"
	s.client.Enqueue(msg)
	s.client.DeleteObject(s.ID())
}

// Attach sets the buffer that the next commit applies. A nil buffer
// unmaps the surface.
func (s *Surface) Attach(buf *Buffer, x, y int32) {
	msg := wire.NewMessage(s, 1)
	msg.Method = "attach"
	var id uint32
	if buf != nil {
		id = buf.ID()
	}
	msg.Args = []any{id, x, y}
	msg.WriteUint(id)
	msg.WriteInt(x)
	msg.WriteInt(y)
	s.client.Enqueue(msg)
}

func (s *Surface) Damage(x, y, width, height int32) {
	msg := wire.NewMessage(s, 2)
	msg.Method = "damage"
	msg.Args = []any{x, y, width, height}
	msg.WriteInt(x)
	msg.WriteInt(y)
	msg.WriteInt(width)
	msg.WriteInt(height)
	s.client.Enqueue(msg)
}

func (s *Surface) Frame(cb *Callback) {
	msg := wire.NewMessage(s, 3)
	msg.Method = "frame"
	msg.Args = []any{cb.ID()}
	msg.WriteUint(cb.ID())
	s.client.Enqueue(msg)
}

func (s *Surface) SetOpaqueRegion(r *Region) {
	msg := wire.NewMessage(s, 4)
	msg.Method = "set_opaque_region"
	msg.WriteObject(objOrNil(r))
	s.client.Enqueue(msg)
}

func (s *Surface) SetInputRegion(r *Region) {
	msg := wire.NewMessage(s, 5)
	msg.Method = "set_input_region"
	msg.WriteObject(objOrNil(r))
	s.client.Enqueue(msg)
}

func (s *Surface) Commit() {
	msg := wire.NewMessage(s, 6)
	msg.Method = "commit"
	s.client.Enqueue(msg)
}

func (s *Surface) SetBufferScale(scale int32) {
	msg := wire.NewMessage(s, 8)
	msg.Method = "set_buffer_scale"
	msg.Args = []any{scale}
	msg.WriteInt(scale)
	s.client.Enqueue(msg)
}

func (s *Surface) DamageBuffer(x, y, width, height int32) {
	msg := wire.NewMessage(s, 9)
	msg.Method = "damage_buffer"
	msg.Args = []any{x, y, width, height}
	msg.WriteInt(x)
	msg.WriteInt(y)
	msg.WriteInt(width)
	msg.WriteInt(height)
	s.client.Enqueue(msg)
}

func (s *Surface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0, 1: // enter, leave
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		out, _ := s.client.GetObject(id).(*Output)
		if out == nil {
			return nil
		}
		if msg.Op() == 0 && s.Enter != nil {
			s.Enter(out)
		}
		if msg.Op() == 1 && s.Leave != nil {
			s.Leave(out)
		}
		return nil

	case 2, 3: // preferred_buffer_scale, preferred_buffer_transform
		msg.ReadInt()
		return msg.Err()
	}

	return wire.UnknownOpError{Interface: s.Interface(), Op: msg.Op()}
}

func objOrNil(r *Region) wire.Object {
	if r == nil {
		return nil
	}
	return r
}
