package wl

import "deedles.dev/waywin/wire"

// Compositor is the wl_compositor global.
type Compositor struct {
	base
	client *Client
}

const compositorVersion = 4

func IsCompositor(i Interface) bool {
	return i.Is("wl_compositor", compositorVersion)
}

func BindCompositor(c *Client, name uint32) *Compositor {
	compositor := Compositor{client: c}
	c.AddObject(&compositor)
	c.Display().GetRegistry().Bind(name, "wl_compositor", compositorVersion, &compositor)
	return &compositor
}

func (c *Compositor) Interface() string          { return "wl_compositor" }
func (c *Compositor) MethodName(uint16) string   { return "unknown" }
func (c *Compositor) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: c.Interface(), Op: msg.Op()}
}

func (c *Compositor) CreateSurface() *Surface {
	s := Surface{client: c.client}
	c.client.AddObject(&s)

	msg := wire.NewMessage(c, 0)
	msg.Method = "create_surface"
	msg.Args = []any{s.ID()}
	msg.WriteUint(s.ID())
	c.client.Enqueue(msg)

	return &s
}

func (c *Compositor) CreateRegion() *Region {
	r := Region{client: c.client}
	c.client.AddObject(&r)

	msg := wire.NewMessage(c, 1)
	msg.Method = "create_region"
	msg.Args = []any{r.ID()}
	msg.WriteUint(r.ID())
	c.client.Enqueue(msg)

	return &r
}
