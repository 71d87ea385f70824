// Package wl provides client proxies for the core Wayland protocol.
//
// Proxies report events through exported function fields, which are
// invoked on whichever goroutine flushes the event queue that the
// proxy is attached to. Requests are queued and sent on the next
// Flush.
package wl

import (
	"errors"
	"net"
	"sync"

	"deedles.dev/waywin/internal/cq"
	"deedles.dev/waywin/internal/debug"
	"deedles.dev/waywin/internal/ev"
	"deedles.dev/waywin/internal/objstore"
	"deedles.dev/waywin/wire"
)

// Client is a connection to a Wayland compositor and the set of
// protocol objects bound on it.
//
// Exactly one goroutine, started by NewClient, reads the socket. Each
// decoded event is appended to the event queue that its target object
// was attached to, and is not acted upon until that queue is flushed.
type Client struct {
	done   chan struct{}
	close  sync.Once
	conn   *wire.Conn
	store  *objstore.Store
	writes *cq.Queue[func() error]
	writeM sync.Mutex

	queueM  sync.Mutex
	queues  map[uint32]*ev.Queue
	def     *ev.Queue
	onWake  func(q *ev.Queue)
	display *Display
}

// Dial connects to the compositor selected by the environment.
func Dial() (*Client, error) {
	c, err := wire.Dial()
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

func NewClient(conn *wire.Conn) *Client {
	c := Client{
		done:   make(chan struct{}),
		conn:   conn,
		store:  objstore.New(1),
		writes: cq.New[func() error](),
		queues: make(map[uint32]*ev.Queue),
		def:    ev.NewQueue(),
	}

	display := Display{client: &c}
	c.AddObject(&display)
	c.display = &display

	go c.listen()

	return &c
}

func (c *Client) listen() {
	for {
		msg, err := wire.ReadMessage(c.conn)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}

			select {
			case <-c.done:
				return
			case c.def.Add() <- func() error { return err }:
				c.wake(c.def)
				continue
			}
		}

		q := c.queueFor(msg.Sender())
		select {
		case <-c.done:
			return
		case q.Add() <- func() error { return c.dispatch(msg) }:
			c.wake(q)
		}
	}
}

func (c *Client) wake(q *ev.Queue) {
	c.queueM.Lock()
	f := c.onWake
	c.queueM.Unlock()
	if f != nil {
		f(q)
	}
}

// OnWake registers f to be called from the reader goroutine whenever
// an event has been appended to q. It is used to tickle the wakeup
// pipes of sleeping thread sessions.
func (c *Client) OnWake(f func(q *ev.Queue)) {
	c.queueM.Lock()
	defer c.queueM.Unlock()
	c.onWake = f
}

func (c *Client) dispatch(msg *wire.MessageBuffer) error {
	obj := c.store.Get(msg.Sender())
	if obj == nil {
		// The server may still emit events for an object that was
		// just destroyed on our side. Drop them.
		return nil
	}

	err := obj.Dispatch(msg)
	debug.Printf("%v", msg.Debug(obj))
	return err
}

// Display returns the wl_display singleton.
func (c *Client) Display() *Display {
	return c.display
}

// DefaultQueue returns the queue that events are delivered to unless
// their object was attached elsewhere.
func (c *Client) DefaultQueue() *ev.Queue {
	return c.def
}

// NewQueue creates an additional event queue. Objects are moved onto
// it with AttachQueue.
func (c *Client) NewQueue() *ev.Queue {
	return ev.NewQueue()
}

func (c *Client) Close() error {
	c.close.Do(func() { close(c.done) })
	c.writes.Stop()
	return c.conn.Close()
}

// AddObject registers obj with the connection, assigns it an ID, and
// attaches it to the default event queue.
func (c *Client) AddObject(obj wire.Object) {
	c.store.Add(obj)
}

// AttachQueue routes future events for obj to q.
func (c *Client) AttachQueue(obj wire.Object, q *ev.Queue) {
	c.queueM.Lock()
	defer c.queueM.Unlock()
	c.queues[obj.ID()] = q
}

func (c *Client) queueFor(id uint32) *ev.Queue {
	c.queueM.Lock()
	defer c.queueM.Unlock()
	if q, ok := c.queues[id]; ok {
		return q
	}
	return c.def
}

// GetObject returns the object bound to id, or nil.
func (c *Client) GetObject(id uint32) wire.Object {
	return c.store.Get(id)
}

// DeleteObject removes the object bound to id.
func (c *Client) DeleteObject(id uint32) {
	c.queueM.Lock()
	delete(c.queues, id)
	c.queueM.Unlock()
	c.store.Delete(id)
}

// Enqueue queues msg to be sent on the next Flush.
func (c *Client) Enqueue(msg *wire.MessageBuilder) {
	select {
	case <-c.done:
	case c.writes.Add() <- func() error {
		debug.Printf(" -> %v", msg)
		return msg.Build(c.conn)
	}:
	}
}

// Flush writes all queued requests to the compositor.
func (c *Client) Flush() error {
	c.writeM.Lock()
	defer c.writeM.Unlock()

	select {
	case queue := <-c.writes.Get():
		var errs []error
		for _, w := range queue {
			if err := w(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	default:
		return nil
	}
}

// RoundTrip flushes queued requests and then processes events from q
// until the compositor confirms that everything queued before the
// call has been handled. If q is nil the default queue is used.
func (c *Client) RoundTrip(q *ev.Queue) error {
	if q == nil {
		q = c.def
	}

	done := make(chan struct{})
	cb := Callback{client: c, Done: func(uint32) { close(done) }}
	c.AddObject(&cb)
	c.AttachQueue(&cb, q)
	c.Enqueue(c.display.Sync(&cb))

	var errs []error
	for {
		err := c.Flush()
		if err != nil {
			errs = append(errs, err)
		}

		select {
		case <-done:
			return errors.Join(errs...)

		case events := <-q.Get():
			if err := events.Flush(); err != nil {
				errs = append(errs, err)
			}

		case <-c.done:
			errs = append(errs, net.ErrClosed)
			return errors.Join(errs...)
		}
	}
}

// Sync asks the compositor to invoke done once all previous requests
// have been processed. done runs on whatever goroutine flushes the
// default queue.
func (c *Client) Sync(done func()) {
	cb := Callback{client: c, Done: func(uint32) { done() }}
	c.AddObject(&cb)
	c.Enqueue(c.display.Sync(&cb))
}
