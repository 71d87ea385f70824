package wl

import "deedles.dev/waywin/wire"

// Display is the wl_display singleton.
type Display struct {
	// Error is invoked when the compositor reports a fatal protocol
	// error.
	Error func(objectID, code uint32, message string)

	base
	client   *Client
	registry *Registry
}

func (d *Display) Interface() string { return "wl_display" }

func (d *Display) MethodName(op uint16) string {
	switch op {
	case 0:
		return "error"
	case 1:
		return "delete_id"
	}
	return "unknown"
}

func (d *Display) Sync(cb *Callback) *wire.MessageBuilder {
	msg := wire.NewMessage(d, 0)
	msg.Method = "sync"
	msg.Args = []any{cb.ID()}
	msg.WriteUint(cb.ID())
	return msg
}

// GetRegistry returns the registry singleton, binding it on first
// use.
func (d *Display) GetRegistry() *Registry {
	if d.registry != nil {
		return d.registry
	}

	registry := Registry{
		client:  d.client,
		globals: make(map[uint32]Interface),
	}
	d.client.AddObject(&registry)

	msg := wire.NewMessage(d, 1)
	msg.Method = "get_registry"
	msg.Args = []any{registry.ID()}
	msg.WriteUint(registry.ID())
	d.client.Enqueue(msg)

	d.registry = &registry
	return &registry
}

func (d *Display) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // error
		objectID := msg.ReadUint()
		code := msg.ReadUint()
		message := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}
		if d.Error != nil {
			d.Error(objectID, code, message)
		}
		return nil

	case 1: // delete_id
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		d.client.DeleteObject(id)
		return nil
	}

	return wire.UnknownOpError{Interface: d.Interface(), Op: msg.Op()}
}
