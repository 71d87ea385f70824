package wl

import (
	"os"

	"deedles.dev/waywin/wire"
)

// ShmFormat is a wl_shm pixel format.
type ShmFormat uint32

const (
	ShmFormatArgb8888 ShmFormat = 0
	ShmFormatXrgb8888 ShmFormat = 1
)

func (f ShmFormat) String() string {
	switch f {
	case ShmFormatArgb8888:
		return "ARGB8888"
	case ShmFormatXrgb8888:
		return "XRGB8888"
	}
	return "unknown"
}

// Shm is the wl_shm global.
type Shm struct {
	// Format is invoked once per pixel format the compositor
	// supports.
	Format func(ShmFormat)

	base
	client *Client
}

const shmVersion = 1

func IsShm(i Interface) bool {
	return i.Is("wl_shm", shmVersion)
}

func BindShm(c *Client, name uint32) *Shm {
	shm := Shm{client: c}
	c.AddObject(&shm)
	c.Display().GetRegistry().Bind(name, "wl_shm", shmVersion, &shm)
	return &shm
}

func (s *Shm) Interface() string { return "wl_shm" }

func (s *Shm) MethodName(op uint16) string {
	if op == 0 {
		return "format"
	}
	return "unknown"
}

func (s *Shm) Dispatch(msg *wire.MessageBuffer) error {
	if msg.Op() != 0 {
		return wire.UnknownOpError{Interface: s.Interface(), Op: msg.Op()}
	}

	format := msg.ReadUint()
	if err := msg.Err(); err != nil {
		return err
	}
	if s.Format != nil {
		s.Format(ShmFormat(format))
	}
	return nil
}

// CreatePool shares file's memory with the compositor.
func (s *Shm) CreatePool(file *os.File, size int32) *ShmPool {
	pool := ShmPool{client: s.client}
	s.client.AddObject(&pool)

	msg := wire.NewMessage(s, 0)
	msg.Method = "create_pool"
	msg.Args = []any{pool.ID(), file, size}
	msg.WriteUint(pool.ID())
	msg.WriteFile(file)
	msg.WriteInt(size)
	s.client.Enqueue(msg)

	return &pool
}

// ShmPool is a wl_shm_pool.
type ShmPool struct {
	base
	client *Client
}

func (p *ShmPool) Interface() string        { return "wl_shm_pool" }
func (p *ShmPool) MethodName(uint16) string { return "unknown" }

func (p *ShmPool) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: p.Interface(), Op: msg.Op()}
}

func (p *ShmPool) CreateBuffer(offset, width, height, stride int32, format ShmFormat) *Buffer {
	buf := Buffer{client: p.client}
	p.client.AddObject(&buf)

	msg := wire.NewMessage(p, 0)
	msg.Method = "create_buffer"
	msg.Args = []any{buf.ID(), offset, width, height, stride, format}
	msg.WriteUint(buf.ID())
	msg.WriteInt(offset)
	msg.WriteInt(width)
	msg.WriteInt(height)
	msg.WriteInt(stride)
	msg.WriteUint(uint32(format))
	p.client.Enqueue(msg)

	return &buf
}

func (p *ShmPool) Destroy() {
	msg := wire.NewMessage(p, 1)
	msg.Method = "destroy"
	p.client.Enqueue(msg)
	p.client.DeleteObject(p.ID())
}

func (p *ShmPool) Resize(size int32) {
	msg := wire.NewMessage(p, 2)
	msg.Method = "resize"
	msg.Args = []any{size}
	msg.WriteInt(size)
	p.client.Enqueue(msg)
}

// Buffer is a wl_buffer.
type Buffer struct {
	// Release is invoked when the compositor no longer reads from
	// the buffer. It may run on the queue the buffer was attached
	// to, which the session keeps separate from window event queues
	// so re-use is never blocked behind a busy thread.
	Release func()

	base
	client *Client
}

func (b *Buffer) Interface() string { return "wl_buffer" }

func (b *Buffer) MethodName(op uint16) string {
	if op == 0 {
		return "release"
	}
	return "unknown"
}

func (b *Buffer) Dispatch(msg *wire.MessageBuffer) error {
	if msg.Op() != 0 {
		return wire.UnknownOpError{Interface: b.Interface(), Op: msg.Op()}
	}
	if b.Release != nil {
		b.Release()
	}
	return nil
}

func (b *Buffer) Destroy() {
	msg := wire.NewMessage(b, 0)
	msg.Method = "destroy"
	b.client.Enqueue(msg)
	b.client.DeleteObject(b.ID())
}
