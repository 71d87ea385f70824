package wl

import "deedles.dev/waywin/wire"

// Callback is a wl_callback.
type Callback struct {
	Done func(data uint32)

	base
	client *Client
}

func (cb *Callback) Interface() string { return "wl_callback" }

func (cb *Callback) MethodName(op uint16) string {
	if op == 0 {
		return "done"
	}
	return "unknown"
}

func (cb *Callback) Dispatch(msg *wire.MessageBuffer) error {
	if msg.Op() != 0 {
		return wire.UnknownOpError{Interface: cb.Interface(), Op: msg.Op()}
	}

	data := msg.ReadUint()
	if err := msg.Err(); err != nil {
		return err
	}
	if cb.Done != nil {
		cb.Done(data)
	}
	return nil
}
