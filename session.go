// Package waywin maps a Win32-style window tree onto a Wayland
// compositor session. The host windowing system drives it through
// per-window calls (create, destroy, position changes, show/hide,
// regions, layered attributes, cursor) and it drives the host back
// through the win.Host interface: compositor configures become window
// position changes, compositor input becomes synthesized host input,
// and compositor selections become host clipboard contents.
package waywin

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"deedles.dev/waywin/internal/ev"
	"deedles.dev/waywin/internal/logger"
	"deedles.dev/waywin/win"
	"deedles.dev/waywin/wl"
	"deedles.dev/waywin/wp"
	"deedles.dev/waywin/xdg"
)

// Last-input-type tags used by the popup parent heuristic.
const (
	inputNone int32 = iota
	inputMouse
	inputKeyboard
)

// Session is the process-wide connection to the compositor. It owns
// the output inventory, the input devices, the clipboard bridge, and
// the table of every window any thread has created. Thread sessions
// created with Thread share it.
type Session struct {
	host win.Host
	opts *Options

	client   *wl.Client
	registry *wl.Registry

	compositor    *wl.Compositor
	subcompositor *wl.Subcompositor
	shm           *wl.Shm
	wmBase        *xdg.WmBase
	seat          *wl.Seat
	ddm           *wl.DataDeviceManager
	viewporter    *wp.Viewporter
	relManager    *wp.RelativePointerManager
	outputManager *xdg.OutputManager

	// releaseQueue receives only wl_buffer release events so that a
	// thread blocked in its own dispatch cannot starve buffer
	// recycling.
	releaseQueue *ev.Queue

	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	outputs  map[uint32]*Output
	windows  map[win.HWND]*Window
	surfaces map[uint32]*Surface

	formatsM sync.Mutex
	formats  map[wl.ShmFormat]bool

	threadsM sync.Mutex
	threads  map[*ev.Queue]*ThreadSession

	keyboard  *Keyboard
	pointer   *Pointer
	clipboard *Clipboard

	lastInput atomic.Int32
}

// NewSession connects to the compositor named by the environment and
// binds every global the backend knows how to use. host receives all
// compositor-driven callbacks. A nil opts loads the config file.
func NewSession(host win.Host, opts *Options) (*Session, error) {
	client, err := wl.Dial()
	if err != nil {
		return nil, fmt.Errorf("connect to compositor: %w", err)
	}
	return newSession(host, opts, client)
}

// newSession finishes session setup over an established connection.
func newSession(host win.Host, opts *Options, client *wl.Client) (*Session, error) {
	if opts == nil {
		opts = LoadOptions("")
	}

	s := &Session{
		host:     host,
		opts:     opts,
		client:   client,
		done:     make(chan struct{}),
		outputs:  make(map[uint32]*Output),
		windows:  make(map[win.HWND]*Window),
		surfaces: make(map[uint32]*Surface),
		formats:  make(map[wl.ShmFormat]bool),
		threads:  make(map[*ev.Queue]*ThreadSession),
	}
	s.releaseQueue = client.NewQueue()
	client.OnWake(s.onWake)

	s.registry = client.Display().GetRegistry()
	s.registry.Global = s.global
	s.registry.GlobalRemove = s.globalRemove

	// First trip announces the globals, second delivers the initial
	// bursts from everything bound in the first: shm formats, seat
	// capabilities, output geometry.
	for range 2 {
		if err := client.RoundTrip(nil); err != nil {
			client.Close()
			return nil, fmt.Errorf("initial round trip: %w", err)
		}
	}

	if s.compositor == nil || s.shm == nil || s.wmBase == nil {
		client.Close()
		return nil, fmt.Errorf("compositor lacks a required global")
	}

	s.clipboard = newClipboard(s)
	if err := client.Flush(); err != nil {
		client.Close()
		return nil, fmt.Errorf("flush setup: %w", err)
	}

	go s.pumpDefault()
	go s.pumpReleases()
	return s, nil
}

// global binds each advertised global the backend uses. Unknown
// interfaces are left alone.
func (s *Session) global(name uint32, inter wl.Interface) {
	switch {
	case wl.IsCompositor(inter):
		s.compositor = wl.BindCompositor(s.client, name)
	case wl.IsSubcompositor(inter):
		s.subcompositor = wl.BindSubcompositor(s.client, name)
	case wl.IsShm(inter):
		s.shm = wl.BindShm(s.client, name)
		s.shm.Format = s.shmFormat
	case xdg.IsWmBase(inter):
		s.wmBase = xdg.BindWmBase(s.client, name)
	case wl.IsSeat(inter):
		s.seat = wl.BindSeat(s.client, name)
		s.seat.Capabilities = s.seatCapabilities
	case wl.IsDataDeviceManager(inter):
		s.ddm = wl.BindDataDeviceManager(s.client, name)
	case wp.IsViewporter(inter) && !s.opts.NoViewporter:
		s.viewporter = wp.BindViewporter(s.client, name)
	case wp.IsRelativePointerManager(inter) && !s.opts.NoRelativePointer:
		s.relManager = wp.BindRelativePointerManager(s.client, name)
	case xdg.IsOutputManager(inter):
		s.outputManager = xdg.BindOutputManager(s.client, name, min(inter.Version, 3))
		s.bindPendingLogicalOutputs()
	case wl.IsOutput(inter):
		s.addOutput(name)
	}
}

func (s *Session) globalRemove(name uint32) {
	s.removeOutput(name)
}

func (s *Session) shmFormat(f wl.ShmFormat) {
	s.formatsM.Lock()
	s.formats[f] = true
	s.formatsM.Unlock()
}

// SupportsFormat reports whether the compositor accepts SHM buffers
// in the given format. ARGB8888 and XRGB8888 are mandatory in the
// protocol but misbehaving nested compositors exist.
func (s *Session) SupportsFormat(f wl.ShmFormat) bool {
	s.formatsM.Lock()
	defer s.formatsM.Unlock()
	return s.formats[f]
}

func (s *Session) seatCapabilities(caps wl.SeatCapability) {
	if caps&wl.SeatCapabilityKeyboard != 0 && s.keyboard == nil {
		s.keyboard = newKeyboard(s, s.seat.GetKeyboard())
	}
	if caps&wl.SeatCapabilityPointer != 0 && s.pointer == nil {
		s.pointer = newPointer(s, s.seat.GetPointer())
	}
	if caps&wl.SeatCapabilityKeyboard == 0 && s.keyboard != nil {
		s.keyboard.release()
		s.keyboard = nil
	}
	if caps&wl.SeatCapabilityPointer == 0 && s.pointer != nil {
		s.pointer.release()
		s.pointer = nil
	}
}

// Host returns the embedding windowing system.
func (s *Session) Host() win.Host { return s.host }

// Clipboard returns the clipboard bridge.
func (s *Session) Clipboard() *Clipboard { return s.clipboard }

func (s *Session) noteInput(kind int32) {
	s.lastInput.Store(kind)
}

// pumpDefault flushes the default event queue. Registry, output,
// seat, and clipboard events all run here.
func (s *Session) pumpDefault() {
	q := s.client.DefaultQueue()
	for {
		select {
		case <-s.done:
			return
		case events := <-q.Get():
			if err := events.Flush(); err != nil {
				logger.Warnf("dispatch events: %v", err)
			}
			if err := s.client.Flush(); err != nil {
				logger.Warnf("flush requests: %v", err)
			}
		}
	}
}

// pumpReleases flushes buffer release events on their own goroutine.
func (s *Session) pumpReleases() {
	for {
		select {
		case <-s.done:
			return
		case events := <-s.releaseQueue.Get():
			if err := events.Flush(); err != nil {
				logger.Warnf("dispatch buffer releases: %v", err)
			}
		}
	}
}

// onWake runs on the reader goroutine after events were appended to
// q. Thread session queues are woken through their pipes; the
// default and release queues have dedicated goroutines blocked on
// their channels and need no wake.
func (s *Session) onWake(q *ev.Queue) {
	s.threadsM.Lock()
	ts := s.threads[q]
	s.threadsM.Unlock()
	if ts != nil {
		ts.notify()
	}
}

// wakeQueue delivers a wakeup for externally enqueued work, e.g.
// scheduled tasks.
func (s *Session) wakeQueue(q *ev.Queue) {
	if q == nil || q == s.client.DefaultQueue() || q == s.releaseQueue {
		return
	}
	s.onWake(q)
}

func (s *Session) registerSurface(surf *Surface) {
	s.mu.Lock()
	s.surfaces[surf.wl.ID()] = surf
	s.mu.Unlock()
}

func (s *Session) unregisterSurface(surf *Surface) {
	s.mu.Lock()
	delete(s.surfaces, surf.wl.ID())
	s.mu.Unlock()
}

// surfaceFor resolves an event-carried wl_surface back to the
// backend surface, or nil for surfaces this backend does not own
// (e.g. the cursor surface).
func (s *Session) surfaceFor(ws *wl.Surface) *Surface {
	if ws == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surfaces[ws.ID()]
}

// Window returns the record for hwnd, or nil.
func (s *Session) Window(hwnd win.HWND) *Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windows[hwnd]
}

// RoundTrip blocks until the compositor has processed every request
// sent so far.
func (s *Session) RoundTrip() error { return s.roundTrip() }

// roundTrip performs a synchronous round trip on a private queue so
// it can be used from any goroutine without fighting the default
// queue's pump.
func (s *Session) roundTrip() error {
	q := s.client.NewQueue()
	defer q.Stop()
	return s.client.RoundTrip(q)
}

// Flush writes all queued requests to the compositor.
func (s *Session) Flush() error { return s.client.Flush() }

// Close tears the session down. Thread sessions observe end of
// stream on their wakeup pipes.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		windows := make([]*Window, 0, len(s.windows))
		for _, w := range s.windows {
			windows = append(windows, w)
		}
		s.mu.Unlock()
		for _, w := range windows {
			w.Destroy()
		}

		if s.clipboard != nil {
			s.clipboard.close()
		}
		if s.keyboard != nil {
			s.keyboard.release()
		}
		if s.pointer != nil {
			s.pointer.release()
		}

		close(s.done)
		err = s.client.Close()

		s.threadsM.Lock()
		threads := make([]*ThreadSession, 0, len(s.threads))
		for _, ts := range s.threads {
			threads = append(threads, ts)
		}
		s.threadsM.Unlock()
		for _, ts := range threads {
			ts.closePipes()
		}
	})
	return err
}

// Task is a scheduled callback that can be cancelled before it runs.
type Task struct {
	timer     *time.Timer
	cancelled atomic.Bool
}

// Cancel prevents the task from running if it has not started yet.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancelled.Store(true)
	t.timer.Stop()
}

// schedule runs f on q after d. If q is nil the default queue is
// used. The returned task's Cancel is safe to call concurrently with
// expiry; a cancelled task never runs f.
func (s *Session) schedule(q *ev.Queue, d time.Duration, f func()) *Task {
	if q == nil {
		q = s.client.DefaultQueue()
	}
	t := &Task{}
	t.timer = time.AfterFunc(d, func() {
		if t.cancelled.Load() {
			return
		}
		select {
		case <-s.done:
		case q.Add() <- func() error {
			if !t.cancelled.Load() {
				f()
			}
			return nil
		}:
			s.wakeQueue(q)
		}
	})
	return t
}
