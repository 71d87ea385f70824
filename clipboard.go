package waywin

import (
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"deedles.dev/waywin/internal/logger"
	"deedles.dev/waywin/win"
	"deedles.dev/waywin/wl"
)

// Clipboard bridges the compositor selection and the host clipboard.
// Incoming selections are advertised on the host with delayed
// rendering; host-originated clipboard changes become outgoing data
// sources. A hidden host window owns both directions and feeds its
// messages through WindowProc.
type Clipboard struct {
	s  *Session
	dd *wl.DataDevice

	byMime   map[string]*clipboardFormat
	byFormat map[win.ClipboardFormat]*clipboardFormat

	mu         sync.Mutex
	hwnd       win.HWND
	offer      *wl.DataOffer
	offerMimes []string
	pending    map[*wl.DataOffer]*[]string
	source     *wl.DataSource
	sourceFmt  map[string]win.ClipboardFormat
}

func newClipboard(s *Session) *Clipboard {
	c := &Clipboard{
		s:        s,
		byMime:   make(map[string]*clipboardFormat),
		byFormat: make(map[win.ClipboardFormat]*clipboardFormat),
		pending:  make(map[*wl.DataOffer]*[]string),
	}

	clip := s.host.Clipboard()
	for _, f := range clipboardFormats {
		if f.format == 0 {
			f.format = clip.RegisterFormat(f.name)
		}
		c.byMime[f.mime] = f
		c.byFormat[f.format] = f
	}

	if s.ddm != nil && s.seat != nil {
		c.dd = s.ddm.GetDataDevice(s.seat)
		c.dd.DataOffer = c.dataOffer
		c.dd.Selection = c.selection
	}
	return c
}

func (c *Clipboard) close() {
	c.mu.Lock()
	offer := c.offer
	c.offer = nil
	src := c.source
	c.source = nil
	c.mu.Unlock()

	if offer != nil {
		offer.Destroy()
	}
	if src != nil {
		src.Destroy()
	}
	if c.dd != nil {
		c.dd.Release()
	}
}

// SetWindow registers the hidden window that owns clipboard
// operations on the host side.
func (c *Clipboard) SetWindow(hwnd win.HWND) {
	c.mu.Lock()
	c.hwnd = hwnd
	c.mu.Unlock()
}

// WindowProc handles the hidden window's clipboard notifications. It
// reports whether the message was consumed.
func (c *Clipboard) WindowProc(msg uint32, wparam, lparam uint32) bool {
	switch msg {
	case win.MsgClipboardUpdate:
		c.hostChanged()
	case win.MsgRenderFormat:
		c.render(win.ClipboardFormat(wparam))
	case win.MsgDestroyClipboard:
		c.lostOwnership()
	default:
		return false
	}
	return true
}

func (c *Clipboard) dataOffer(offer *wl.DataOffer) {
	mimes := new([]string)
	offer.Offer = func(mime string) {
		*mimes = append(*mimes, normalizeMime(mime))
	}
	c.mu.Lock()
	c.pending[offer] = mimes
	c.mu.Unlock()
}

func (c *Clipboard) selection(offer *wl.DataOffer) {
	c.mu.Lock()
	old := c.offer
	c.offer = nil
	c.offerMimes = nil

	var mimes []string
	if offer != nil {
		if p := c.pending[offer]; p != nil {
			mimes = *p
		}
		delete(c.pending, offer)
	}
	c.mu.Unlock()

	if old != nil {
		old.Destroy()
	}
	if offer == nil {
		return
	}

	// A tagged offer is our own selection coming back around.
	for _, m := range mimes {
		if m == tagMime {
			offer.Destroy()
			return
		}
	}

	c.mu.Lock()
	c.offer = offer
	c.offerMimes = mimes
	hwnd := c.hwnd
	c.mu.Unlock()

	c.advertise(hwnd, mimes)
}

// advertise empties the host clipboard and registers a delayed
// placeholder for every MIME type the format table can import.
func (c *Clipboard) advertise(hwnd win.HWND, mimes []string) {
	clip := c.s.host.Clipboard()
	if !clip.Open(hwnd) {
		logger.Warnf("clipboard busy, dropping selection update")
		return
	}
	defer clip.Close()

	clip.Empty()
	seen := make(map[win.ClipboardFormat]bool)
	for _, m := range mimes {
		f, ok := c.byMime[m]
		if !ok || seen[f.format] {
			continue
		}
		seen[f.format] = true
		clip.SetDelayed(f.format)
	}
}

// render satisfies a delayed-rendering request by pulling the data
// out of the stored offer. Failures render empty data so the host
// request always completes.
func (c *Clipboard) render(format win.ClipboardFormat) {
	clip := c.s.host.Clipboard()
	f, ok := c.byFormat[format]
	if !ok {
		clip.Set(format, nil)
		return
	}

	c.mu.Lock()
	offer := c.offer
	mimes := c.offerMimes
	c.mu.Unlock()

	var mime string
	for _, m := range mimes {
		if m == f.mime {
			mime = m
			break
		}
	}
	if offer == nil || mime == "" {
		clip.Set(format, nil)
		return
	}

	raw := c.receive(offer, mime)
	data := raw
	if f.importer != nil {
		data = f.importer(raw)
	}
	clip.Set(format, data)
}

// receive reads an offer payload through a pipe with a bounded poll.
// Any error or timeout yields zero bytes.
func (c *Clipboard) receive(offer *wl.DataOffer, mime string) []byte {
	r, w, err := os.Pipe()
	if err != nil {
		logger.Warnf("clipboard pipe: %v", err)
		return nil
	}
	defer r.Close()

	offer.Receive(mime, w)
	w.Close()
	if err := c.s.client.Flush(); err != nil {
		return nil
	}

	timeout := int(c.s.opts.ReceiveTimeout.Milliseconds())
	var buf []byte
	chunk := make([]byte, 4096)
	for {
		fds := []unix.PollFd{{Fd: int32(r.Fd()), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, timeout)
		if err == unix.EINTR {
			continue
		}
		if err != nil || n == 0 {
			logger.Debugf("clipboard receive %q: poll %v", mime, err)
			return nil
		}

		got, err := r.Read(chunk)
		if got > 0 {
			buf = append(buf, chunk[:got]...)
		}
		if errors.Is(err, io.EOF) || (err == nil && got == 0) {
			return buf
		}
		if err != nil {
			return nil
		}
	}
}

// hostChanged reacts to a host clipboard update by publishing a new
// selection, unless the update was our own import.
func (c *Clipboard) hostChanged() {
	s := c.s
	clip := s.host.Clipboard()
	if clip.IsOwned() || c.dd == nil {
		return
	}

	formats := clip.Formats()
	src := s.ddm.CreateDataSource()
	offered := make(map[string]win.ClipboardFormat)
	for _, format := range formats {
		f, ok := c.byFormat[format]
		if !ok {
			continue
		}
		if _, dup := offered[f.mime]; dup {
			continue
		}
		offered[f.mime] = format
		src.Offer(f.mime)
	}
	src.Offer(tagMime)

	src.Send = c.sourceSend
	src.Cancelled = func() { c.sourceCancelled(src) }

	c.mu.Lock()
	old := c.source
	c.source = src
	c.sourceFmt = offered
	c.mu.Unlock()
	if old != nil {
		old.Destroy()
	}

	c.dd.SetSelection(src, c.selectionSerial())
	s.client.Flush()
}

// selectionSerial picks the serial for set_selection, preferring the
// keyboard.
func (c *Clipboard) selectionSerial() uint32 {
	s := c.s
	if k := s.keyboard; k != nil {
		if serial := k.serial(); serial != 0 {
			return serial
		}
	}
	if p := s.pointer; p != nil {
		return p.serial()
	}
	return 0
}

func (c *Clipboard) sourceSend(mime string, w *os.File) {
	defer w.Close()
	if mime == tagMime {
		return
	}

	c.mu.Lock()
	format, ok := c.sourceFmt[normalizeMime(mime)]
	c.mu.Unlock()
	if !ok {
		return
	}

	f := c.byFormat[format]
	data, ok := c.s.host.Clipboard().Data(format)
	if !ok {
		return
	}
	if f != nil && f.exporter != nil {
		data = f.exporter(data)
	}
	if _, err := w.Write(data); err != nil {
		logger.Debugf("clipboard send %q: %v", mime, err)
	}
}

func (c *Clipboard) sourceCancelled(src *wl.DataSource) {
	c.mu.Lock()
	if c.source == src {
		c.source = nil
		c.sourceFmt = nil
	}
	c.mu.Unlock()
	src.Destroy()
}

// lostOwnership is the host telling us somebody else emptied the
// clipboard. The outgoing selection, if any, is withdrawn.
func (c *Clipboard) lostOwnership() {
	c.mu.Lock()
	src := c.source
	c.source = nil
	c.sourceFmt = nil
	c.mu.Unlock()
	if src != nil {
		src.Destroy()
	}
}
