package waywin

import (
	"fmt"
	"slices"

	"deedles.dev/waywin/internal/logger"
	"deedles.dev/waywin/win"
	"deedles.dev/waywin/wl"
	"deedles.dev/waywin/xdg"
)

// Mode is a display mode reported to the host. Virtual modes are
// synthesized from the reference table below and exist only on the
// host side.
type Mode struct {
	Width, Height int32
	Bits          int32 // bits per pel
	Refresh       int32 // mHz
	Native        bool
}

// virtualModeSizes is the reference table of emulated resolutions,
// expanded in 8/16/32 bit variants and clamped to the largest native
// mode.
var virtualModeSizes = [][2]int32{
	{640, 480}, {800, 600}, {1024, 768}, {1152, 864},
	{1280, 720}, {1280, 800}, {1280, 960}, {1280, 1024},
	{1366, 768}, {1440, 900}, {1600, 900}, {1600, 1200},
	{1680, 1050}, {1920, 1080}, {1920, 1200}, {2560, 1440},
	{2560, 1600}, {3840, 2160},
}

const virtualRefresh = 60000

// Output is one compositor output together with the mode list shown
// to the host.
type Output struct {
	s    *Session
	name uint32

	wl      *wl.Output
	logical *xdg.Output

	pending outputState

	// Applied state, guarded by the session lock.
	DisplayName string
	Logical     win.Rect  // compositor-space rectangle
	Physical    win.Point // physical pixel origin
	Scale       int32
	Modes       []Mode
	Current     *Mode // current native mode
	Selected    *Mode // host-side selected (emulated) mode
	ready       bool
}

type outputState struct {
	x, y       int32
	scale      int32
	name       string
	modes      []Mode
	current    int
	logX, logY int32
	logW, logH int32
	hasLogical bool
}

// addOutput is called from the reader for each advertised wl_output.
func (s *Session) addOutput(name uint32) {
	o := &Output{
		s:       s,
		name:    name,
		wl:      wl.BindOutput(s.client, name),
		pending: outputState{current: -1, scale: 1},
	}

	o.wl.Geometry = func(x, y, _, _, _ int32, _, _ string, _ int32) {
		o.pending.x, o.pending.y = x, y
	}
	o.wl.Mode = func(flags wl.OutputMode, width, height, refresh int32) {
		m := Mode{Width: width, Height: height, Bits: 32, Refresh: refresh, Native: true}
		o.pending.modes = append(o.pending.modes, m)
		if flags&wl.OutputModeCurrent != 0 {
			o.pending.current = len(o.pending.modes) - 1
		}
	}
	o.wl.Scale = func(factor int32) { o.pending.scale = factor }
	o.wl.Name = func(name string) {
		if o.pending.name == "" {
			o.pending.name = name
		}
	}
	o.wl.Done = func() {
		if !o.logicalDoneAuthoritative() {
			o.apply()
		}
	}

	s.mu.Lock()
	s.outputs[name] = o
	s.mu.Unlock()

	if s.outputManager != nil {
		o.bindLogical()
	}
}

// bindPendingLogicalOutputs attaches logical outputs to outputs that
// were advertised before the manager global.
func (s *Session) bindPendingLogicalOutputs() {
	s.mu.Lock()
	outputs := make([]*Output, 0, len(s.outputs))
	for _, o := range s.outputs {
		if o.logical == nil {
			outputs = append(outputs, o)
		}
	}
	s.mu.Unlock()
	for _, o := range outputs {
		o.bindLogical()
	}
}

func (o *Output) bindLogical() {
	o.logical = o.s.outputManager.GetXdgOutput(o.wl)
	o.logical.LogicalPosition = func(x, y int32) {
		o.pending.logX, o.pending.logY = x, y
		o.pending.hasLogical = true
	}
	o.logical.LogicalSize = func(width, height int32) {
		o.pending.logW, o.pending.logH = width, height
		o.pending.hasLogical = true
	}
	o.logical.Name = func(name string) { o.pending.name = name }
	o.logical.Done = func() {
		if o.logicalDoneAuthoritative() {
			o.apply()
		}
	}
}

func (o *Output) logicalDoneAuthoritative() bool {
	return o.logical != nil && o.s.outputManager.Version() >= 3
}

func (s *Session) removeOutput(name uint32) {
	s.mu.Lock()
	o := s.outputs[name]
	delete(s.outputs, name)
	if o != nil {
		s.updatePhysicalCoords()
	}
	s.mu.Unlock()
	if o == nil {
		return
	}
	if o.logical != nil {
		o.logical.Destroy()
	}
	o.wl.Release()
	s.host.DisplayChanged()
}

// apply promotes accumulated events into the host-visible state.
// Runs on the reader's default queue.
func (o *Output) apply() {
	p := &o.pending
	if len(p.modes) == 0 {
		logger.Warnf("output %d finished without a mode, dropping", o.name)
		return
	}

	modes := slices.Clone(p.modes)
	var current Mode
	if p.current >= 0 {
		current = modes[p.current]
	} else {
		current = modes[0]
	}
	modes = appendVirtualModes(modes)
	sortModes(modes)

	s := o.s
	s.mu.Lock()
	o.DisplayName = p.name
	if o.DisplayName == "" {
		o.DisplayName = fmt.Sprintf("wl_output-%d", o.name)
	}
	o.Scale = max(p.scale, 1)
	if p.hasLogical {
		o.Logical = win.MakeRect(p.logX, p.logY, p.logW, p.logH)
	} else {
		o.Logical = win.MakeRect(p.x, p.y, current.Width/o.Scale, current.Height/o.Scale)
	}
	o.Modes = modes
	o.Current = findMode(modes, current)
	if o.Selected == nil {
		o.Selected = o.Current
	}
	o.ready = true
	s.updatePhysicalCoords()
	s.mu.Unlock()

	p.modes = nil
	p.current = -1

	s.host.DisplayChanged()
}

func appendVirtualModes(modes []Mode) []Mode {
	var maxW, maxH int32
	for _, m := range modes {
		maxW = max(maxW, m.Width)
		maxH = max(maxH, m.Height)
	}
	// Every native mode gets 8 and 16 bpp companions, so resolutions
	// absent from the reference table still enumerate at every depth.
	for _, nm := range slices.Clip(modes) {
		for _, bits := range []int32{8, 16} {
			m := Mode{Width: nm.Width, Height: nm.Height, Bits: bits, Refresh: nm.Refresh}
			if findMode(modes, m) == nil {
				modes = append(modes, m)
			}
		}
	}
	for _, size := range virtualModeSizes {
		if size[0] > maxW || size[1] > maxH {
			continue
		}
		for _, bits := range []int32{8, 16, 32} {
			m := Mode{Width: size[0], Height: size[1], Bits: bits, Refresh: virtualRefresh}
			if findMode(modes, m) == nil {
				modes = append(modes, m)
			}
		}
	}
	return modes
}

func sortModes(modes []Mode) {
	slices.SortStableFunc(modes, func(a, b Mode) int {
		if a.Width != b.Width {
			return int(a.Width - b.Width)
		}
		if a.Height != b.Height {
			return int(a.Height - b.Height)
		}
		if a.Bits != b.Bits {
			return int(a.Bits - b.Bits)
		}
		return int(a.Refresh - b.Refresh)
	})
}

func findMode(modes []Mode, want Mode) *Mode {
	for i := range modes {
		m := &modes[i]
		if m.Width == want.Width && m.Height == want.Height && m.Bits == want.Bits && m.Refresh == want.Refresh {
			return m
		}
	}
	return nil
}

// updatePhysicalCoords assigns each output a physical pixel origin.
// Logical coordinates preserve adjacency in compositor space; the
// physical origin substitutes the current mode's pixel size for the
// logical size so adjacent outputs stay adjacent in pixels even
// under non-uniform scale. Called with the session lock held.
func (s *Session) updatePhysicalCoords() {
	outputs := make([]*Output, 0, len(s.outputs))
	for _, o := range s.outputs {
		if o.ready {
			outputs = append(outputs, o)
		}
	}
	slices.SortFunc(outputs, func(a, b *Output) int { return int(a.name) - int(b.name) })

	for _, o := range outputs {
		o.Physical = win.Point{X: o.Logical.Left, Y: o.Logical.Top}
	}

	// Shifts propagate transitively, so iterate until stable.
	for range outputs {
		changed := false
		for _, a := range outputs {
			for _, b := range outputs {
				if a == b || a.Current == nil {
					continue
				}
				if b.Logical.Left == a.Logical.Right && b.Physical.X != a.Physical.X+a.Current.Width {
					b.Physical.X = a.Physical.X + a.Current.Width
					changed = true
				}
				if b.Logical.Top == a.Logical.Bottom && b.Physical.Y != a.Physical.Y+a.Current.Height {
					b.Physical.Y = a.Physical.Y + a.Current.Height
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
}

// Outputs returns the ready outputs in registry order.
func (s *Session) Outputs() []*Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	outputs := make([]*Output, 0, len(s.outputs))
	for _, o := range s.outputs {
		if o.ready {
			outputs = append(outputs, o)
		}
	}
	slices.SortFunc(outputs, func(a, b *Output) int { return int(a.name) - int(b.name) })
	return outputs
}

// primaryOutput returns the output whose logical origin is (0,0), or
// any ready output.
func (s *Session) primaryOutput() *Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	var fallback *Output
	for _, o := range s.outputs {
		if !o.ready {
			continue
		}
		if o.Logical.Left == 0 && o.Logical.Top == 0 {
			return o
		}
		if fallback == nil || o.name < fallback.name {
			fallback = o
		}
	}
	return fallback
}

// SelectMode records the host-side emulated mode for the output. The
// compositor keeps running the native mode; scaling bridges the gap.
func (o *Output) SelectMode(m Mode) bool {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	found := findMode(o.Modes, m)
	if found == nil {
		return false
	}
	o.Selected = found
	return true
}
