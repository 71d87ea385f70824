package wl

import (
	"golang.org/x/exp/maps"

	"deedles.dev/waywin/wire"
)

// Registry is the wl_registry singleton.
type Registry struct {
	// Global is invoked as the compositor advertises globals.
	Global func(name uint32, inter Interface)
	// GlobalRemove is invoked when a global disappears, e.g. an
	// output being unplugged.
	GlobalRemove func(name uint32)

	base
	client  *Client
	globals map[uint32]Interface
}

func (r *Registry) Interface() string { return "wl_registry" }

func (r *Registry) MethodName(op uint16) string {
	switch op {
	case 0:
		return "global"
	case 1:
		return "global_remove"
	}
	return "unknown"
}

// Globals returns a copy of the currently advertised globals, keyed
// by registry name.
func (r *Registry) Globals() map[uint32]Interface {
	return maps.Clone(r.globals)
}

// Bind binds the global identified by name to obj, which must
// already have been added to the client.
func (r *Registry) Bind(name uint32, inter string, version uint32, obj wire.Object) {
	msg := wire.NewMessage(r, 0)
	msg.Method = "bind"
	msg.Args = []any{name, inter, version, obj.ID()}
	msg.WriteUint(name)
	msg.WriteNewID(wire.NewID{Interface: inter, Version: version, ID: obj.ID()})
	r.client.Enqueue(msg)
}

func (r *Registry) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case 0: // global
		name := msg.ReadUint()
		inter := msg.ReadString()
		version := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		i := Interface{Name: inter, Version: version}
		r.globals[name] = i
		if r.Global != nil {
			r.Global(name, i)
		}
		return nil

	case 1: // global_remove
		name := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		delete(r.globals, name)
		if r.GlobalRemove != nil {
			r.GlobalRemove(name)
		}
		return nil
	}

	return wire.UnknownOpError{Interface: r.Interface(), Op: msg.Op()}
}
