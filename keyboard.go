package waywin

import (
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"deedles.dev/waywin/internal/logger"
	"deedles.dev/waywin/internal/xkb"
	"deedles.dev/waywin/shm"
	"deedles.dev/waywin/win"
	"deedles.dev/waywin/wl"
)

type vkeyEntry struct {
	vkey     win.VKey
	scan     uint16
	extended bool
}

// funcKeys maps function-key and multimedia keysyms to fixed vkeys.
// Layout detection never touches these; they are position
// independent.
var funcKeys = map[xkb.Keysym]vkeyEntry{
	xkb.SymEscape:     {win.VKEscape, 0x01, false},
	xkb.SymBackSpace:  {win.VKBack, 0x0E, false},
	xkb.SymTab:        {win.VKTab, 0x0F, false},
	xkb.SymISOLeftTab: {win.VKTab, 0x0F, false},
	xkb.SymReturn:     {win.VKReturn, 0x1C, false},
	xkb.SymPause:      {win.VKPause, 0x45, false},
	xkb.SymBreak:      {win.VKCancel, 0x46, true},
	xkb.SymScrollLock: {win.VKScroll, 0x46, false},
	xkb.SymSysReq:     {win.VKSnapshot, 0x54, false},
	xkb.SymCapsLock:   {win.VKCapital, 0x3A, false},
	xkb.SymNumLock:    {win.VKNumlock, 0x45, true},

	xkb.SymShiftL:         {win.VKLShift, 0x2A, false},
	xkb.SymShiftR:         {win.VKRShift, 0x36, false},
	xkb.SymControlL:       {win.VKLControl, 0x1D, false},
	xkb.SymControlR:       {win.VKRControl, 0x1D, true},
	xkb.SymAltL:           {win.VKLMenu, 0x38, false},
	xkb.SymAltR:           {win.VKRMenu, 0x38, true},
	xkb.SymMetaL:          {win.VKLMenu, 0x38, false},
	xkb.SymMetaR:          {win.VKRMenu, 0x38, true},
	xkb.SymISOLevel3Shift: {win.VKRMenu, 0x38, true},
	xkb.SymSuperL:         {win.VKLWin, 0x5B, true},
	xkb.SymSuperR:         {win.VKRWin, 0x5C, true},
	xkb.SymMenu:           {win.VKApps, 0x5D, true},

	xkb.SymHome:   {win.VKHome, 0x47, true},
	xkb.SymUp:     {win.VKUp, 0x48, true},
	xkb.SymPrior:  {win.VKPrior, 0x49, true},
	xkb.SymLeft:   {win.VKLeft, 0x4B, true},
	xkb.SymRight:  {win.VKRight, 0x4D, true},
	xkb.SymEnd:    {win.VKEnd, 0x4F, true},
	xkb.SymDown:   {win.VKDown, 0x50, true},
	xkb.SymNext:   {win.VKNext, 0x51, true},
	xkb.SymInsert: {win.VKInsert, 0x52, true},
	xkb.SymDelete: {win.VKDelete, 0x53, true},

	xkb.SymKPEnter:     {win.VKReturn, 0x1C, true},
	xkb.SymKPDivide:    {win.VKDivide, 0x35, true},
	xkb.SymKPMultiply:  {win.VKMultiply, 0x37, false},
	xkb.SymKPSubtract:  {win.VKSubtract, 0x4A, false},
	xkb.SymKPAdd:       {win.VKAdd, 0x4E, false},
	xkb.SymKPSeparator: {win.VKSeparator, 0x53, false},
	xkb.SymKPDecimal:   {win.VKDecimal, 0x53, false},
	xkb.SymKPDelete:    {win.VKDelete, 0x53, false},
	xkb.SymKPInsert:    {win.VKInsert, 0x52, false},
	xkb.SymKP0:         {win.VKNumpad0, 0x52, false},
	xkb.SymKP0 + 1:     {win.VKNumpad1, 0x4F, false},
	xkb.SymKP0 + 2:     {win.VKNumpad2, 0x50, false},
	xkb.SymKP0 + 3:     {win.VKNumpad3, 0x51, false},
	xkb.SymKP0 + 4:     {win.VKNumpad4, 0x4B, false},
	xkb.SymKP0 + 5:     {win.VKNumpad5, 0x4C, false},
	xkb.SymKP0 + 6:     {win.VKNumpad6, 0x4D, false},
	xkb.SymKP0 + 7:     {win.VKNumpad7, 0x47, false},
	xkb.SymKP0 + 8:     {win.VKNumpad8, 0x48, false},
	xkb.SymKP9:         {win.VKNumpad9, 0x49, false},
	xkb.SymKPEnd:       {win.VKEnd, 0x4F, false},
	xkb.SymKPDown:      {win.VKDown, 0x50, false},
	xkb.SymKPNext:      {win.VKNext, 0x51, false},
	xkb.SymKPLeft:      {win.VKLeft, 0x4B, false},
	xkb.SymKPBegin:     {win.VKClear, 0x4C, false},
	xkb.SymKPRight:     {win.VKRight, 0x4D, false},
	xkb.SymKPHome:      {win.VKHome, 0x47, false},
	xkb.SymKPUp:        {win.VKUp, 0x48, false},
	xkb.SymKPPrior:     {win.VKPrior, 0x49, false},

	xkb.SymXF86AudioLowerVolume: {win.VKVolumeDown, 0, true},
	xkb.SymXF86AudioRaiseVolume: {win.VKVolumeUp, 0, true},
	xkb.SymXF86AudioMute:        {win.VKVolumeMute, 0, true},
	xkb.SymXF86AudioPlay:        {win.VKMediaPlay, 0, true},
	xkb.SymXF86AudioStop:        {win.VKMediaStop, 0, true},
	xkb.SymXF86AudioPrev:        {win.VKMediaPrev, 0, true},
	xkb.SymXF86AudioNext:        {win.VKMediaNext, 0, true},
	xkb.SymXF86HomePage:         {win.VKBrowserHome, 0, true},
	xkb.SymXF86Mail:             {win.VKLaunchMail, 0, true},
	xkb.SymXF86Search:           {win.VKBrowserSearch, 0, true},
	xkb.SymXF86Back:             {win.VKBrowserBack, 0, true},
	xkb.SymXF86Forward:          {win.VKBrowserForward, 0, true},
	xkb.SymXF86Stop:             {win.VKBrowserStop, 0, true},
	xkb.SymXF86Refresh:          {win.VKBrowserRefresh, 0, true},
}

// numpadSwap exchanges navigation vkeys for numeric ones while num
// lock is effective. Only non-extended (keypad) keys qualify.
var numpadSwap = map[win.VKey]win.VKey{
	win.VKInsert: win.VKNumpad0,
	win.VKEnd:    win.VKNumpad1,
	win.VKDown:   win.VKNumpad2,
	win.VKNext:   win.VKNumpad3,
	win.VKLeft:   win.VKNumpad4,
	win.VKClear:  win.VKNumpad5,
	win.VKRight:  win.VKNumpad6,
	win.VKHome:   win.VKNumpad7,
	win.VKUp:     win.VKNumpad8,
	win.VKPrior:  win.VKNumpad9,
	win.VKDelete: win.VKDecimal,
}

// modifierVKeys never auto-repeat.
var modifierVKeys = map[win.VKey]bool{
	win.VKShift: true, win.VKLShift: true, win.VKRShift: true,
	win.VKControl: true, win.VKLControl: true, win.VKRControl: true,
	win.VKMenu: true, win.VKLMenu: true, win.VKRMenu: true,
	win.VKCapital: true, win.VKNumlock: true, win.VKScroll: true,
	win.VKLWin: true, win.VKRWin: true,
}

// Keyboard tracks the seat keyboard: the active keymap, the detected
// reference layout, the translation tables, focus, modifiers, and
// the repeat timer.
type Keyboard struct {
	s  *Session
	wl *wl.Keyboard

	mu       sync.Mutex
	layout   *referenceLayout
	vkeys    [256]win.VKey
	scans    [256]uint16
	extended [256]bool

	focus       *Surface
	enterSerial uint32
	lastSerial  uint32
	mods        uint32

	repeatDelay    time.Duration
	repeatInterval time.Duration
	pressed        uint32
	repeatTask     *Task
	fgTask         *Task
}

func newKeyboard(s *Session, kb *wl.Keyboard) *Keyboard {
	k := &Keyboard{s: s, wl: kb}
	kb.Keymap = k.keymapEvent
	kb.Enter = k.enter
	kb.Leave = k.leave
	kb.Key = k.key
	kb.Modifiers = k.modifiers
	kb.RepeatInfo = k.repeatInfo
	return k
}

func (k *Keyboard) release() {
	k.mu.Lock()
	k.repeatTask.Cancel()
	k.fgTask.Cancel()
	focus := k.focus
	k.focus = nil
	k.mu.Unlock()
	if focus != nil {
		focus.unref()
	}
	k.wl.Release()
}

// Layout returns the name of the detected reference layout.
func (k *Keyboard) Layout() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.layout == nil {
		return ""
	}
	return k.layout.name
}

func (k *Keyboard) focusHWND() win.HWND {
	k.mu.Lock()
	focus := k.focus
	k.mu.Unlock()
	if focus == nil {
		return 0
	}
	return focus.HWND()
}

func (k *Keyboard) serial() uint32 {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.lastSerial != 0 {
		return k.lastSerial
	}
	return k.enterSerial
}

// keymapEvent mmaps, parses, and installs a compositor keymap,
// replacing any previous state.
func (k *Keyboard) keymapEvent(format wl.KeyboardKeymapFormat, file *os.File, size uint32) {
	defer file.Close()
	if format != wl.KeyboardKeymapFormatXkbV1 {
		logger.Warnf("unsupported keymap format %d", format)
		return
	}

	mem, err := shm.MapShared(file, int(size), unix.PROT_READ)
	if err != nil {
		logger.Warnf("map keymap: %v", err)
		return
	}
	data := make([]byte, len(mem))
	copy(data, mem)
	mem.Unmap()
	for len(data) > 0 && data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}

	km, err := xkb.Parse(data)
	if err != nil {
		logger.Warnf("parse keymap: %v", err)
		return
	}

	k.install(km)
}

func (k *Keyboard) install(km *xkb.Keymap) {
	table := collectSyms(km)
	layout := detectLayout(&table)
	vkeys, scans, extended := buildKeyTables(&table, layout)

	k.mu.Lock()
	k.layout = layout
	k.vkeys = vkeys
	k.scans = scans
	k.extended = extended
	k.mu.Unlock()

	logger.Infof("detected keyboard layout %q", layout.name)
}

// buildKeyTables assigns a vkey and scancode to every keycode. Fixed
// mappings for function and multimedia syms come first; everything
// else matches against the reference layout, preferring unused keys
// so duplicate symbol sequences keep distinct vkeys.
func buildKeyTables(table *[256][]xkb.Keysym, layout *referenceLayout) (vkeys [256]win.VKey, scans [256]uint16, extended [256]bool) {
	used := make([]bool, len(layout.keys))
	for code := 8; code < 256; code++ {
		syms := table[code]
		if len(syms) == 0 {
			continue
		}
		sym := syms[0]

		if sym == ' ' {
			vkeys[code] = win.VKSpace
			scans[code] = 0x39
			continue
		}
		if e, ok := funcKeys[sym]; ok {
			vkeys[code] = e.vkey
			scans[code] = e.scan
			extended[code] = e.extended
			continue
		}
		if sym.IsFunction() {
			if sym >= xkb.SymF1 && sym <= xkb.SymF24 {
				n := uint16(sym - xkb.SymF1)
				vkeys[code] = win.VKF1 + win.VKey(n)
				scans[code] = fkeyScan(n)
			}
			continue
		}
		if sym.IsMultimedia() {
			continue
		}

		idx, _ := findRefKey(layout, used, syms, true)
		if idx < 0 {
			idx, _ = findRefKey(layout, nil, syms, false)
		}
		if idx < 0 {
			continue
		}
		if idx < len(used) {
			used[idx] = true
		}
		vkeys[code] = layout.keys[idx].vkey
		scans[code] = layout.keys[idx].scan
	}
	return vkeys, scans, extended
}

func fkeyScan(n uint16) uint16 {
	switch {
	case n < 10: // F1..F10
		return 0x3B + n
	case n == 10:
		return 0x57
	case n == 11:
		return 0x58
	default: // F13..F24
		return 0x64 + n - 12
	}
}

func (k *Keyboard) modifiers(serial, depressed, latched, locked, group uint32) {
	k.mu.Lock()
	k.mods = depressed | latched | locked
	k.mu.Unlock()
}

func (k *Keyboard) repeatInfo(rate, delay int32) {
	k.mu.Lock()
	if rate > 0 {
		k.repeatInterval = time.Second / time.Duration(rate)
	} else {
		k.repeatInterval = 0
	}
	k.repeatDelay = time.Duration(delay) * time.Millisecond
	k.mu.Unlock()
}

func (k *Keyboard) enter(serial uint32, ws *wl.Surface, keys []byte) {
	s := k.s
	surf := s.surfaceFor(ws)
	if surf == nil {
		return
	}
	surf.ref()

	k.mu.Lock()
	k.fgTask.Cancel()
	k.fgTask = nil
	old := k.focus
	k.focus = surf
	k.enterSerial = serial
	k.mu.Unlock()
	if old != nil {
		old.unref()
	}

	hwnd := surf.HWND()
	if hwnd == 0 {
		return
	}

	// A visible window that never mapped is probably a fullscreen
	// app mid-startup; a transient popup must not yank foreground
	// away from it.
	if fg := s.host.ForegroundWindow(); fg != 0 && fg != hwnd {
		if w := s.Window(fg); w != nil && s.host.IsWindowVisible(fg) {
			if fs := w.Surface(); fs == nil || !fs.EverMapped() {
				return
			}
		}
	}
	s.host.SetForegroundWindow(hwnd)
}

func (k *Keyboard) leave(serial uint32, ws *wl.Surface) {
	s := k.s
	surf := s.surfaceFor(ws)

	k.mu.Lock()
	k.repeatTask.Cancel()
	k.repeatTask = nil
	if surf == nil || k.focus != surf {
		k.mu.Unlock()
		return
	}
	old := k.focus
	k.focus = nil
	hwnd := old.HWND()

	// Revoke foreground only if no enter follows shortly; focus
	// hopping between two of our own surfaces must not flicker.
	k.fgTask.Cancel()
	k.fgTask = s.schedule(nil, s.opts.ForegroundGrace, func() {
		k.mu.Lock()
		stillGone := k.focus == nil
		k.mu.Unlock()
		if stillGone && s.host.ForegroundWindow() == hwnd {
			s.host.SetForegroundWindow(0)
		}
	})
	k.mu.Unlock()

	old.unref()
}

func (k *Keyboard) key(serial, t, keycode uint32, state wl.KeyState) {
	k.s.noteInput(inputKeyboard)

	code := keycode + 8
	if code > 255 {
		return
	}
	down := state == wl.KeyStatePressed

	k.mu.Lock()
	k.lastSerial = serial
	vkey := k.vkeys[code]
	if down && !modifierVKeys[vkey] && k.repeatInterval > 0 {
		k.armRepeatLocked(code, t)
	}
	if !down && code == k.pressed {
		k.repeatTask.Cancel()
		k.repeatTask = nil
		k.pressed = 0
	}
	k.mu.Unlock()

	k.emit(code, t, down)
}

// emit translates code and delivers a host keyboard event.
func (k *Keyboard) emit(code, t uint32, down bool) {
	k.mu.Lock()
	vkey := k.vkeys[code]
	scan := k.scans[code]
	ext := k.extended[code]
	numLock := k.mods&xkb.ModNum != 0
	ctrl := k.mods&xkb.ModControl != 0
	k.mu.Unlock()

	if vkey == 0 {
		return
	}
	if numLock && !ext && scan >= 0x47 && scan <= 0x53 {
		if swapped, ok := numpadSwap[vkey]; ok {
			vkey = swapped
		}
	}
	if ctrl && vkey == win.VKPause {
		vkey = win.VKCancel
	}

	var flags uint32
	if ext {
		flags |= win.KeyEventExtended
	}
	if !down {
		flags |= win.KeyEventUp
	}
	k.s.host.SendKeyboardInput(win.KeyboardInput{
		VKey:  vkey,
		Scan:  scan & 0xFF,
		Flags: flags,
		Time:  t,
	})
}

// armRepeatLocked starts the auto-repeat timer for code. The first
// repeat fires after the delay, later ones after the interval.
func (k *Keyboard) armRepeatLocked(code, t uint32) {
	k.repeatTask.Cancel()
	k.pressed = code
	start := time.Now()
	k.repeatTask = k.s.schedule(nil, k.repeatDelay, func() { k.repeat(code, t, start) })
}

// repeat synthesizes one repeated key-down. Timestamps advance from
// the original press so hosts see monotonic event times.
func (k *Keyboard) repeat(code, t uint32, start time.Time) {
	k.mu.Lock()
	if k.pressed != code || k.focus == nil || k.repeatInterval <= 0 {
		k.mu.Unlock()
		return
	}
	k.repeatTask = k.s.schedule(nil, k.repeatInterval, func() { k.repeat(code, t, start) })
	k.mu.Unlock()

	k.emit(code, t+uint32(time.Since(start).Milliseconds()), true)
}
