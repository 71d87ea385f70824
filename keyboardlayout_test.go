package waywin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deedles.dev/waywin/internal/xkb"
	"deedles.dev/waywin/win"
)

func syms(names ...string) []xkb.Keysym {
	out := make([]xkb.Keysym, len(names))
	for i, n := range names {
		out[i] = xkb.SymFromName(n)
	}
	return out
}

// frTable builds a symbol table the way an evdev fr keymap binds its
// codes: evdev keycodes plus 8, AZERTY letter positions.
func frTable() [256][]xkb.Keysym {
	var table [256][]xkb.Keysym
	table[9] = syms("Escape")
	table[49] = syms("twosuperior")
	table[10] = syms("ampersand", "1")
	table[11] = syms("eacute", "2", "asciitilde")
	table[12] = syms("quotedbl", "3", "numbersign")
	table[13] = syms("apostrophe", "4", "braceleft")
	table[14] = syms("parenleft", "5", "bracketleft")
	table[24] = syms("a", "A")
	table[25] = syms("z", "Z")
	table[26] = syms("e", "E")
	table[27] = syms("r", "R")
	table[38] = syms("q", "Q")
	table[39] = syms("s", "S")
	table[47] = syms("m", "M")
	table[48] = syms("ugrave", "percent")
	table[52] = syms("w", "W")
	table[58] = syms("comma", "question")
	table[59] = syms("semicolon", "period")
	table[65] = syms("space")
	return table
}

func usTable() [256][]xkb.Keysym {
	var table [256][]xkb.Keysym
	table[10] = syms("1", "exclam")
	table[11] = syms("2", "at")
	table[24] = syms("q", "Q")
	table[25] = syms("w", "W")
	table[38] = syms("a", "A")
	table[52] = syms("z", "Z")
	table[47] = syms("semicolon", "colon")
	return table
}

func TestDetectLayout(t *testing.T) {
	t.Run("french", func(t *testing.T) {
		table := frTable()
		assert.Equal(t, "fr", detectLayout(&table).name)
	})

	t.Run("us", func(t *testing.T) {
		table := usTable()
		assert.Equal(t, "us", detectLayout(&table).name)
	})

	t.Run("empty falls back to first", func(t *testing.T) {
		var table [256][]xkb.Keysym
		assert.Equal(t, "us", detectLayout(&table).name)
	})

	t.Run("tie keeps earlier entry", func(t *testing.T) {
		// A bare letter shared by us and uk at the same position
		// scores both identically; us is listed first.
		var table [256][]xkb.Keysym
		table[26] = syms("e", "E")
		table[27] = syms("r", "R")
		assert.Equal(t, "us", detectLayout(&table).name)
	})
}

func TestBuildKeyTables(t *testing.T) {
	table := frTable()
	layout := detectLayout(&table)
	require.Equal(t, "fr", layout.name)

	vkeys, scans, extended := buildKeyTables(&table, layout)

	// The key at evdev Q position produces 'a' on AZERTY and must
	// report the host 'A' virtual key with the physical Q scancode.
	assert.Equal(t, win.VKey('A'), vkeys[24])
	assert.Equal(t, uint16(0x10), scans[24])
	assert.False(t, extended[24])

	assert.Equal(t, win.VKey('Z'), vkeys[25])
	assert.Equal(t, win.VKey('Q'), vkeys[38])
	assert.Equal(t, win.VKey('M'), vkeys[47])

	assert.Equal(t, win.VKEscape, vkeys[9])
	assert.Equal(t, uint16(0x01), scans[9])

	assert.Equal(t, win.VKSpace, vkeys[65])
	assert.Equal(t, uint16(0x39), scans[65])
}

func TestBuildKeyTablesFunctionKeys(t *testing.T) {
	var table [256][]xkb.Keysym
	table[67] = syms("F1")
	table[96] = syms("F12")
	table[110] = syms("Home")
	table[104] = syms("KP_Enter")
	table[77] = syms("Num_Lock")
	table[121] = syms("XF86AudioMute")

	layout := detectLayout(&table)
	vkeys, scans, extended := buildKeyTables(&table, layout)

	assert.Equal(t, win.VKF1, vkeys[67])
	assert.Equal(t, uint16(0x3B), scans[67])
	assert.Equal(t, win.VKF12, vkeys[96])
	assert.Equal(t, uint16(0x58), scans[96])

	assert.Equal(t, win.VKHome, vkeys[110])
	assert.True(t, extended[110])

	assert.Equal(t, win.VKReturn, vkeys[104])
	assert.True(t, extended[104])

	assert.Equal(t, win.VKNumlock, vkeys[77])
	assert.True(t, extended[77])

	// Multimedia keys map by virtual key alone.
	assert.Equal(t, win.VKVolumeMute, vkeys[121])
	assert.Equal(t, uint16(0), scans[121])
	assert.True(t, extended[121])
}

func TestDuplicateSymsKeepDistinctKeys(t *testing.T) {
	// Two physical keys producing the same symbols must not collapse
	// onto one reference key.
	var table [256][]xkb.Keysym
	table[24] = syms("q", "Q")
	table[30] = syms("q", "Q")

	layout := detectLayout(&table)
	require.Equal(t, "us", layout.name)

	vkeys, _, _ := buildKeyTables(&table, layout)
	assert.Equal(t, win.VKey('Q'), vkeys[24])
	assert.Equal(t, win.VKey('Q'), vkeys[30])
}
