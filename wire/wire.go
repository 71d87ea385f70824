// Package wire implements the client side of the Wayland wire
// format: message framing, argument marshalling, and file descriptor
// passing over the compositor socket.
package wire

// Object is a protocol object bound to an ID on a connection. Proxy
// types in the wl, xdg, and wp packages implement it.
type Object interface {
	// ID returns the object's ID on the connection, or 0 if the
	// object has not been added to one yet.
	ID() uint32

	// SetID assigns the object's ID. It is called once, by the
	// connection's object store.
	SetID(id uint32)

	// Dispatch performs the operation requested by the event in the
	// buffer.
	Dispatch(msg *MessageBuffer) error

	// Delete is called when the server confirms that the object's ID
	// has been released.
	Delete()

	// Interface returns the name of the object's protocol interface,
	// e.g. "wl_surface".
	Interface() string

	// MethodName returns the name of the event with the given opcode.
	// It is used only for debug tracing.
	MethodName(op uint16) string
}

// NewID is the wire representation of a new_id argument for
// interfaces that are not known statically, i.e. wl_registry.bind.
type NewID struct {
	Interface string
	Version   uint32
	ID        uint32
}

func padding(length uint32) uint32 {
	return (4 - (length & 3)) & 3
}
