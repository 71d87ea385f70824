package waywin

import (
	"deedles.dev/waywin/internal/xkb"
	"deedles.dev/waywin/win"
)

// refKey is one physical key in a reference layout: the symbols it
// produces per shift level, the virtual key it maps to, and its PC
// scancode. Keys are listed in physical order, top-left to
// bottom-right, so keycode order bonuses during scoring favor
// layouts whose key walk matches the physical rows.
type refKey struct {
	scan uint16
	vkey win.VKey
	syms []xkb.Keysym
}

type referenceLayout struct {
	name string
	keys []refKey
}

func key(scan uint16, vk win.VKey, names ...string) refKey {
	syms := make([]xkb.Keysym, len(names))
	for i, n := range names {
		syms[i] = xkb.SymFromName(n)
	}
	return refKey{scan: scan, vkey: vk, syms: syms}
}

func letter(scan uint16, c byte, low string) refKey {
	up := string(c)
	return key(scan, win.VKey(c), low, up)
}

// referenceLayouts is the built-in layout table. Order matters: the
// first entry wins scoring ties and is the fallback when nothing
// matches at all.
var referenceLayouts = []referenceLayout{
	{name: "us", keys: usKeys},
	{name: "fr", keys: frKeys},
	{name: "de", keys: deKeys},
	{name: "uk", keys: ukKeys},
}

var usKeys = []refKey{
	key(0x29, win.VKOEM3, "grave", "asciitilde"),
	key(0x02, '1', "1", "exclam"),
	key(0x03, '2', "2", "at"),
	key(0x04, '3', "3", "numbersign"),
	key(0x05, '4', "4", "dollar"),
	key(0x06, '5', "5", "percent"),
	key(0x07, '6', "6", "asciicircum"),
	key(0x08, '7', "7", "ampersand"),
	key(0x09, '8', "8", "asterisk"),
	key(0x0A, '9', "9", "parenleft"),
	key(0x0B, '0', "0", "parenright"),
	key(0x0C, win.VKOEMMinus, "minus", "underscore"),
	key(0x0D, win.VKOEMPlus, "equal", "plus"),
	letter(0x10, 'Q', "q"),
	letter(0x11, 'W', "w"),
	letter(0x12, 'E', "e"),
	letter(0x13, 'R', "r"),
	letter(0x14, 'T', "t"),
	letter(0x15, 'Y', "y"),
	letter(0x16, 'U', "u"),
	letter(0x17, 'I', "i"),
	letter(0x18, 'O', "o"),
	letter(0x19, 'P', "p"),
	key(0x1A, win.VKOEM4, "bracketleft", "braceleft"),
	key(0x1B, win.VKOEM6, "bracketright", "braceright"),
	letter(0x1E, 'A', "a"),
	letter(0x1F, 'S', "s"),
	letter(0x20, 'D', "d"),
	letter(0x21, 'F', "f"),
	letter(0x22, 'G', "g"),
	letter(0x23, 'H', "h"),
	letter(0x24, 'J', "j"),
	letter(0x25, 'K', "k"),
	letter(0x26, 'L', "l"),
	key(0x27, win.VKOEM1, "semicolon", "colon"),
	key(0x28, win.VKOEM7, "apostrophe", "quotedbl"),
	key(0x2B, win.VKOEM5, "backslash", "bar"),
	letter(0x2C, 'Z', "z"),
	letter(0x2D, 'X', "x"),
	letter(0x2E, 'C', "c"),
	letter(0x2F, 'V', "v"),
	letter(0x30, 'B', "b"),
	letter(0x31, 'N', "n"),
	letter(0x32, 'M', "m"),
	key(0x33, win.VKOEMComma, "comma", "less"),
	key(0x34, win.VKOEMPeriod, "period", "greater"),
	key(0x35, win.VKOEM2, "slash", "question"),
	key(0x56, win.VKOEM102, "less", "greater"),
}

var frKeys = []refKey{
	key(0x29, win.VKOEM7, "twosuperior"),
	key(0x02, '1', "ampersand", "1"),
	key(0x03, '2', "eacute", "2", "asciitilde"),
	key(0x04, '3', "quotedbl", "3", "numbersign"),
	key(0x05, '4', "apostrophe", "4", "braceleft"),
	key(0x06, '5', "parenleft", "5", "bracketleft"),
	key(0x07, '6', "minus", "6", "bar"),
	key(0x08, '7', "egrave", "7", "grave"),
	key(0x09, '8', "underscore", "8", "backslash"),
	key(0x0A, '9', "ccedilla", "9", "asciicircum"),
	key(0x0B, '0', "agrave", "0", "at"),
	key(0x0C, win.VKOEM4, "parenright", "degree", "bracketright"),
	key(0x0D, win.VKOEMPlus, "equal", "plus", "braceright"),
	letter(0x10, 'A', "a"),
	letter(0x11, 'Z', "z"),
	letter(0x12, 'E', "e"),
	letter(0x13, 'R', "r"),
	letter(0x14, 'T', "t"),
	letter(0x15, 'Y', "y"),
	letter(0x16, 'U', "u"),
	letter(0x17, 'I', "i"),
	letter(0x18, 'O', "o"),
	letter(0x19, 'P', "p"),
	key(0x1A, win.VKOEM6, "dead_circumflex", "dead_diaeresis"),
	key(0x1B, win.VKOEM1, "dollar", "sterling", "currency"),
	letter(0x1E, 'Q', "q"),
	letter(0x1F, 'S', "s"),
	letter(0x20, 'D', "d"),
	letter(0x21, 'F', "f"),
	letter(0x22, 'G', "g"),
	letter(0x23, 'H', "h"),
	letter(0x24, 'J', "j"),
	letter(0x25, 'K', "k"),
	letter(0x26, 'L', "l"),
	letter(0x27, 'M', "m"),
	key(0x28, win.VKOEM3, "ugrave", "percent"),
	key(0x2B, win.VKOEM5, "asterisk", "mu"),
	letter(0x2C, 'W', "w"),
	letter(0x2D, 'X', "x"),
	letter(0x2E, 'C', "c"),
	letter(0x2F, 'V', "v"),
	letter(0x30, 'B', "b"),
	letter(0x31, 'N', "n"),
	key(0x32, win.VKOEMComma, "comma", "question"),
	key(0x33, win.VKOEMPeriod, "semicolon", "period"),
	key(0x34, win.VKOEM2, "colon", "slash"),
	key(0x35, win.VKOEM8, "exclam", "section"),
	key(0x56, win.VKOEM102, "less", "greater"),
}

var deKeys = []refKey{
	key(0x29, win.VKOEM5, "asciicircum", "degree"),
	key(0x02, '1', "1", "exclam"),
	key(0x03, '2', "2", "quotedbl"),
	key(0x04, '3', "3", "section"),
	key(0x05, '4', "4", "dollar"),
	key(0x06, '5', "5", "percent"),
	key(0x07, '6', "6", "ampersand"),
	key(0x08, '7', "7", "slash", "braceleft"),
	key(0x09, '8', "8", "parenleft", "bracketleft"),
	key(0x0A, '9', "9", "parenright", "bracketright"),
	key(0x0B, '0', "0", "equal", "braceright"),
	key(0x0C, win.VKOEMMinus, "ssharp", "question", "backslash"),
	key(0x0D, win.VKOEM6, "dead_acute", "dead_grave"),
	letter(0x10, 'Q', "q"),
	letter(0x11, 'W', "w"),
	letter(0x12, 'E', "e"),
	letter(0x13, 'R', "r"),
	letter(0x14, 'T', "t"),
	letter(0x15, 'Z', "z"),
	letter(0x16, 'U', "u"),
	letter(0x17, 'I', "i"),
	letter(0x18, 'O', "o"),
	letter(0x19, 'P', "p"),
	key(0x1A, win.VKOEM1, "udiaeresis"),
	key(0x1B, win.VKOEMPlus, "plus", "asterisk", "asciitilde"),
	letter(0x1E, 'A', "a"),
	letter(0x1F, 'S', "s"),
	letter(0x20, 'D', "d"),
	letter(0x21, 'F', "f"),
	letter(0x22, 'G', "g"),
	letter(0x23, 'H', "h"),
	letter(0x24, 'J', "j"),
	letter(0x25, 'K', "k"),
	letter(0x26, 'L', "l"),
	key(0x27, win.VKOEM3, "odiaeresis"),
	key(0x28, win.VKOEM7, "adiaeresis"),
	key(0x2B, win.VKOEM2, "numbersign", "apostrophe"),
	letter(0x2C, 'Y', "y"),
	letter(0x2D, 'X', "x"),
	letter(0x2E, 'C', "c"),
	letter(0x2F, 'V', "v"),
	letter(0x30, 'B', "b"),
	letter(0x31, 'N', "n"),
	letter(0x32, 'M', "m"),
	key(0x33, win.VKOEMComma, "comma", "semicolon"),
	key(0x34, win.VKOEMPeriod, "period", "colon"),
	key(0x35, win.VKOEMMinus, "minus", "underscore"),
	key(0x56, win.VKOEM102, "less", "greater"),
}

var ukKeys = []refKey{
	key(0x29, win.VKOEM3, "grave", "notsign"),
	key(0x02, '1', "1", "exclam"),
	key(0x03, '2', "2", "quotedbl"),
	key(0x04, '3', "3", "sterling"),
	key(0x05, '4', "4", "dollar"),
	key(0x06, '5', "5", "percent"),
	key(0x07, '6', "6", "asciicircum"),
	key(0x08, '7', "7", "ampersand"),
	key(0x09, '8', "8", "asterisk"),
	key(0x0A, '9', "9", "parenleft"),
	key(0x0B, '0', "0", "parenright"),
	key(0x0C, win.VKOEMMinus, "minus", "underscore"),
	key(0x0D, win.VKOEMPlus, "equal", "plus"),
	letter(0x10, 'Q', "q"),
	letter(0x11, 'W', "w"),
	letter(0x12, 'E', "e"),
	letter(0x13, 'R', "r"),
	letter(0x14, 'T', "t"),
	letter(0x15, 'Y', "y"),
	letter(0x16, 'U', "u"),
	letter(0x17, 'I', "i"),
	letter(0x18, 'O', "o"),
	letter(0x19, 'P', "p"),
	key(0x1A, win.VKOEM4, "bracketleft", "braceleft"),
	key(0x1B, win.VKOEM6, "bracketright", "braceright"),
	letter(0x1E, 'A', "a"),
	letter(0x1F, 'S', "s"),
	letter(0x20, 'D', "d"),
	letter(0x21, 'F', "f"),
	letter(0x22, 'G', "g"),
	letter(0x23, 'H', "h"),
	letter(0x24, 'J', "j"),
	letter(0x25, 'K', "k"),
	letter(0x26, 'L', "l"),
	key(0x27, win.VKOEM1, "semicolon", "colon"),
	key(0x28, win.VKOEM7, "apostrophe", "at"),
	key(0x2B, win.VKOEM5, "numbersign", "asciitilde"),
	letter(0x2C, 'Z', "z"),
	letter(0x2D, 'X', "x"),
	letter(0x2E, 'C', "c"),
	letter(0x2F, 'V', "v"),
	letter(0x30, 'B', "b"),
	letter(0x31, 'N', "n"),
	letter(0x32, 'M', "m"),
	key(0x33, win.VKOEMComma, "comma", "less"),
	key(0x34, win.VKOEMPeriod, "period", "greater"),
	key(0x35, win.VKOEM2, "slash", "question"),
	key(0x56, win.VKOEM102, "backslash", "bar"),
}

// symTableLevels caps how many shift levels feed detection.
const symTableLevels = 4

// collectSyms builds the per-keycode symbol table driving layout
// detection and vkey assignment.
func collectSyms(km *xkb.Keymap) (table [256][]xkb.Keysym) {
	for code := uint32(8); code < 256; code++ {
		syms := km.Syms(code)
		if len(syms) == 0 {
			continue
		}
		n := min(len(syms), symTableLevels)
		out := make([]xkb.Keysym, 0, n)
		for _, sym := range syms[:n] {
			if sym == xkb.NoSymbol {
				break
			}
			out = append(out, sym)
		}
		table[code] = out
	}
	return table
}

// prefixMatch reports how many symbols match between a reference key
// and a keycode's symbol sequence. Zero means no match; the shorter
// sequence must be a prefix of the longer.
func prefixMatch(ref, got []xkb.Keysym) int {
	n := min(len(ref), len(got))
	if n == 0 {
		return 0
	}
	for i := range n {
		if ref[i] != got[i] {
			return 0
		}
	}
	return n
}

// scoreLayout walks the keycodes in order, matching each against the
// first unused reference key whose symbols prefix-match. A matched
// symbol is worth 100; keeping the reference key order in step with
// the keycode order is worth one more.
func scoreLayout(table *[256][]xkb.Keysym, layout *referenceLayout) int {
	used := make([]bool, len(layout.keys))
	score := 0
	prev := -1
	for code := 8; code < 256; code++ {
		syms := table[code]
		if len(syms) == 0 || syms[0].IsFunction() || syms[0].IsMultimedia() {
			continue
		}
		idx, n := findRefKey(layout, used, syms, true)
		if idx < 0 {
			continue
		}
		used[idx] = true
		score += 100 * n
		if idx > prev {
			score++
		}
		prev = idx
	}
	return score
}

// findRefKey returns the first reference key prefix-matching syms.
// With onlyUnused set, keys already claimed this pass are skipped;
// the vkey builder uses that bias so duplicate symbol sequences land
// on distinct vkeys.
func findRefKey(layout *referenceLayout, used []bool, syms []xkb.Keysym, onlyUnused bool) (idx, matched int) {
	for i, k := range layout.keys {
		if onlyUnused && used[i] {
			continue
		}
		if n := prefixMatch(k.syms, syms); n > 0 {
			return i, n
		}
	}
	return -1, 0
}

// detectLayout scores every reference layout and returns the best.
// Ties keep the earlier entry; an all-zero board falls back to the
// first layout.
func detectLayout(table *[256][]xkb.Keysym) *referenceLayout {
	best := &referenceLayouts[0]
	bestScore := 0
	for i := range referenceLayouts {
		l := &referenceLayouts[i]
		if score := scoreLayout(table, l); score > bestScore {
			best, bestScore = l, score
		}
	}
	return best
}
