package wl

// base carries the object ID bookkeeping shared by all proxies.
type base struct {
	id uint32
}

func (b *base) ID() uint32      { return b.id }
func (b *base) SetID(id uint32) { b.id = id }
func (b *base) Delete()         {}

// Interface describes a global advertised by the registry.
type Interface struct {
	Name    string
	Version uint32
}

// Is reports whether i is a version of the named interface no older
// than version.
func (i Interface) Is(name string, version uint32) bool {
	return i.Name == name && i.Version >= version
}
