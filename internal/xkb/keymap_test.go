package xkb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeymap = `xkb_keymap {
	xkb_keycodes "evdev_aliases(qwerty)" {
		minimum = 8;
		maximum = 255;
		<ESC> = 9;
		<AE01> = 10;
		<AD01> = 24;
		<AB01> = 38;
		alias <AC01> = <AB01>;
	};
	xkb_types "complete" {
		virtual_modifiers NumLock;
		type "ONE_LEVEL" {
			modifiers = none;
			level_name[Level1] = "Any";
		};
	};
	xkb_compatibility "complete" {
		interpret Any+AnyOf(all) {
			action = SetMods(modifiers=modMapMods,clearLocks);
		};
	};
	xkb_symbols "pc+fr+inet(evdev)" {
		name[group1]="French";
		key <ESC> { [ Escape ] };
		key <AE01> { [ ampersand, 1 ] };
		key <AD01> { [ a, A ] };
		key <AC01> { [ w, W ] };
	};
};`

func TestParse(t *testing.T) {
	km, err := Parse([]byte(testKeymap))
	require.NoError(t, err)

	assert.Equal(t, "French", km.GroupName())

	lo, hi := km.Range()
	assert.Equal(t, uint32(9), lo)
	assert.Equal(t, uint32(38), hi)

	assert.Equal(t, []Keysym{SymEscape}, km.Syms(9))
	assert.Equal(t, []Keysym{'&', '1'}, km.Syms(10))
	assert.Equal(t, []Keysym{'a', 'A'}, km.Syms(24))

	// <AC01> resolves through the alias to <AB01>.
	assert.Equal(t, []Keysym{'w', 'W'}, km.Syms(38))

	assert.Nil(t, km.Syms(200))
}

func TestSymLevelFallback(t *testing.T) {
	km, err := Parse([]byte(testKeymap))
	require.NoError(t, err)

	assert.Equal(t, Keysym('A'), km.Sym(24, 1))
	assert.Equal(t, Keysym('a'), km.Sym(24, 0))
	assert.Equal(t, Keysym('a'), km.Sym(24, 3), "unbound level falls back to level 0")
	assert.Equal(t, NoSymbol, km.Sym(200, 0))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("not a keymap"))
	assert.Error(t, err)

	_, err = Parse([]byte(`xkb_keymap { xkb_keycodes "x" { <A> = 9; }; };`))
	assert.Error(t, err, "keymap without symbols is useless")
}

func TestSymFromName(t *testing.T) {
	for name, want := range map[string]Keysym{
		"a":         'a',
		"A":         'A',
		"0":         '0',
		"ampersand": '&',
		"eacute":    0xE9,
		"Escape":    SymEscape,
		"BackSpace": SymBackSpace,
		"KP_Enter":  SymKPEnter,
		"F1":        SymF1,
		"F24":       SymF24,
		"U20AC":     0x01000000 | 0x20AC,
		"U0041":     'A',
		"NoSymbol":  NoSymbol,
		"bogus":     NoSymbol,
	} {
		assert.Equal(t, want, SymFromName(name), "name %q", name)
	}
}

func TestIsModifier(t *testing.T) {
	assert.True(t, SymShiftL.IsModifier())
	assert.True(t, SymControlR.IsModifier())
	assert.True(t, SymNumLock.IsModifier())
	assert.True(t, SymISOLevel3Shift.IsModifier())
	assert.False(t, Keysym('a').IsModifier())
	assert.False(t, SymReturn.IsModifier())
}
