package waywin

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"deedles.dev/waywin/internal/ev"
	"deedles.dev/waywin/internal/logger"
	"deedles.dev/waywin/win"
)

// ThreadSession is the per-thread view of a Session. Windows created
// through it deliver their compositor events to this session's queue,
// and the owning thread is woken through a pipe that it can combine
// with its host message wait. One thread session per OS thread,
// created on first use and closed on thread exit.
type ThreadSession struct {
	s     *Session
	queue *ev.Queue

	// r is the wakeup handle exposed to the host's message wait; w
	// is written from the reader goroutine.
	r, w *os.File
}

// Thread creates a thread session sharing s's connection.
func (s *Session) Thread() (*ThreadSession, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create wakeup pipe: %w", err)
	}
	for _, f := range []*os.File{r, w} {
		if err := unix.SetNonblock(int(f.Fd()), true); err != nil {
			r.Close()
			w.Close()
			return nil, fmt.Errorf("create wakeup pipe: %w", err)
		}
	}

	ts := &ThreadSession{
		s:     s,
		queue: s.client.NewQueue(),
		r:     r,
		w:     w,
	}
	s.threadsM.Lock()
	s.threads[ts.queue] = ts
	s.threadsM.Unlock()
	return ts, nil
}

// Session returns the process session this thread session shares.
func (ts *ThreadSession) Session() *Session { return ts.s }

// WakeFile returns the read end of the wakeup pipe. The owning
// thread polls it alongside its host message queue; a readable byte
// means Dispatch has work, end of stream means the session is gone.
func (ts *ThreadSession) WakeFile() *os.File { return ts.r }

// notify is called from the reader goroutine. A full pipe already
// wakes the thread, so EAGAIN is fine.
func (ts *ThreadSession) notify() {
	_, err := ts.w.Write([]byte{0})
	if err != nil && !isWouldBlock(err) {
		logger.Debugf("wake thread: %v", err)
	}
}

func isWouldBlock(err error) bool {
	for {
		switch e := err.(type) {
		case *os.PathError:
			err = e.Err
		case unix.Errno:
			return e == unix.EAGAIN
		default:
			return false
		}
	}
}

// Dispatch drains the wakeup pipe and runs every event currently
// queued for this thread. It never blocks.
func (ts *ThreadSession) Dispatch() error {
	var drain [64]byte
	for {
		if _, err := ts.r.Read(drain[:]); err != nil {
			break
		}
	}

	var errs []error
	for {
		select {
		case events := <-ts.queue.Get():
			if err := events.Flush(); err != nil {
				errs = append(errs, err)
			}
		default:
			if len(errs) != 0 {
				return fmt.Errorf("dispatch thread events: %w", errs[0])
			}
			return ts.s.client.Flush()
		}
	}
}

// Flush writes queued requests to the compositor.
func (ts *ThreadSession) Flush() error { return ts.s.client.Flush() }

// CreateWindow registers a window record owned by this thread. rect
// is the window rectangle, clientRect the client area, both in host
// screen coordinates. No compositor presence is created until the
// first WindowPosChanged reports the window visible.
func (ts *ThreadSession) CreateWindow(hwnd, parent win.HWND, rect, clientRect win.Rect, style win.Style) *Window {
	w := &Window{
		ts:         ts,
		hwnd:       hwnd,
		parent:     parent,
		rect:       rect,
		clientRect: clientRect,
		style:      style,
		restore:    rect,
		alpha:      255,
	}
	ts.s.mu.Lock()
	ts.s.windows[hwnd] = w
	ts.s.mu.Unlock()
	return w
}

// Close tears the thread session down. Windows it still owns are
// destroyed first.
func (ts *ThreadSession) Close() {
	s := ts.s
	s.mu.Lock()
	var owned []*Window
	for _, w := range s.windows {
		if w.ts == ts {
			owned = append(owned, w)
		}
	}
	s.mu.Unlock()
	for _, w := range owned {
		w.Destroy()
	}

	s.threadsM.Lock()
	delete(s.threads, ts.queue)
	s.threadsM.Unlock()
	ts.queue.Stop()
	ts.closePipes()
}

func (ts *ThreadSession) closePipes() {
	ts.w.Close()
	ts.r.Close()
}

// schedule runs f on this thread's queue after d.
func (ts *ThreadSession) schedule(d time.Duration, f func()) *Task {
	return ts.s.schedule(ts.queue, d, f)
}
