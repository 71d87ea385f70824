package xkb

// Keysym is an X keysym value as used by xkb keymaps.
type Keysym uint32

const (
	NoSymbol Keysym = 0

	// Function-key namespace.
	SymBackSpace  Keysym = 0xFF08
	SymTab        Keysym = 0xFF09
	SymReturn     Keysym = 0xFF0D
	SymPause      Keysym = 0xFF13
	SymScrollLock Keysym = 0xFF14
	SymSysReq     Keysym = 0xFF15
	SymEscape     Keysym = 0xFF1B
	SymHome       Keysym = 0xFF50
	SymLeft       Keysym = 0xFF51
	SymUp         Keysym = 0xFF52
	SymRight      Keysym = 0xFF53
	SymDown       Keysym = 0xFF54
	SymPrior      Keysym = 0xFF55
	SymNext       Keysym = 0xFF56
	SymEnd        Keysym = 0xFF57
	SymInsert     Keysym = 0xFF63
	SymMenu       Keysym = 0xFF67
	SymBreak      Keysym = 0xFF6B
	SymNumLock    Keysym = 0xFF7F
	SymKPEnter    Keysym = 0xFF8D
	SymKPHome     Keysym = 0xFF95
	SymKPLeft     Keysym = 0xFF96
	SymKPUp       Keysym = 0xFF97
	SymKPRight    Keysym = 0xFF98
	SymKPDown     Keysym = 0xFF99
	SymKPPrior    Keysym = 0xFF9A
	SymKPNext     Keysym = 0xFF9B
	SymKPEnd      Keysym = 0xFF9C
	SymKPBegin    Keysym = 0xFF9D
	SymKPInsert   Keysym = 0xFF9E
	SymKPDelete   Keysym = 0xFF9F
	SymKPMultiply Keysym = 0xFFAA
	SymKPAdd      Keysym = 0xFFAB
	SymKPSeparator Keysym = 0xFFAC
	SymKPSubtract Keysym = 0xFFAD
	SymKPDecimal  Keysym = 0xFFAE
	SymKPDivide   Keysym = 0xFFAF
	SymKP0        Keysym = 0xFFB0
	SymKP9        Keysym = 0xFFB9
	SymF1         Keysym = 0xFFBE
	SymF24        Keysym = 0xFFD5
	SymShiftL     Keysym = 0xFFE1
	SymShiftR     Keysym = 0xFFE2
	SymControlL   Keysym = 0xFFE3
	SymControlR   Keysym = 0xFFE4
	SymCapsLock   Keysym = 0xFFE5
	SymMetaL      Keysym = 0xFFE7
	SymMetaR      Keysym = 0xFFE8
	SymAltL       Keysym = 0xFFE9
	SymAltR       Keysym = 0xFFEA
	SymSuperL     Keysym = 0xFFEB
	SymSuperR     Keysym = 0xFFEC
	SymDelete     Keysym = 0xFFFF

	SymISOLevel3Shift Keysym = 0xFE03
	SymISOLeftTab     Keysym = 0xFE20

	// XFree86 multimedia namespace.
	SymXF86AudioLowerVolume Keysym = 0x1008FF11
	SymXF86AudioMute        Keysym = 0x1008FF12
	SymXF86AudioRaiseVolume Keysym = 0x1008FF13
	SymXF86AudioPlay        Keysym = 0x1008FF14
	SymXF86AudioStop        Keysym = 0x1008FF15
	SymXF86AudioPrev        Keysym = 0x1008FF16
	SymXF86AudioNext        Keysym = 0x1008FF17
	SymXF86HomePage         Keysym = 0x1008FF18
	SymXF86Mail             Keysym = 0x1008FF19
	SymXF86Search           Keysym = 0x1008FF1B
	SymXF86Back             Keysym = 0x1008FF26
	SymXF86Forward          Keysym = 0x1008FF27
	SymXF86Stop             Keysym = 0x1008FF28
	SymXF86Refresh          Keysym = 0x1008FF29
)

// IsFunction reports whether sym lives in the function-key
// namespace.
func (sym Keysym) IsFunction() bool {
	return sym >= 0xFF00 && sym <= 0xFFFF
}

// IsMultimedia reports whether sym lives in the XFree86 multimedia
// namespace.
func (sym Keysym) IsMultimedia() bool {
	return sym >= 0x1008FF00 && sym <= 0x1008FFFF
}

// IsModifier reports whether sym is a modifier key.
func (sym Keysym) IsModifier() bool {
	switch {
	case sym >= SymShiftL && sym <= SymSuperR && sym != 0xFFE6:
		return true
	case sym == SymNumLock, sym == SymScrollLock, sym == SymISOLevel3Shift:
		return true
	}
	return false
}

// symNames maps the keysym names that appear in server keymaps to
// values. ASCII and Latin-1 symbols equal their codepoints and are
// handled separately.
var symNames = map[string]Keysym{
	"space": 0x20, "exclam": 0x21, "quotedbl": 0x22, "numbersign": 0x23,
	"dollar": 0x24, "percent": 0x25, "ampersand": 0x26, "apostrophe": 0x27,
	"parenleft": 0x28, "parenright": 0x29, "asterisk": 0x2A, "plus": 0x2B,
	"comma": 0x2C, "minus": 0x2D, "period": 0x2E, "slash": 0x2F,
	"colon": 0x3A, "semicolon": 0x3B, "less": 0x3C, "equal": 0x3D,
	"greater": 0x3E, "question": 0x3F, "at": 0x40,
	"bracketleft": 0x5B, "backslash": 0x5C, "bracketright": 0x5D,
	"asciicircum": 0x5E, "underscore": 0x5F, "grave": 0x60,
	"braceleft": 0x7B, "bar": 0x7C, "braceright": 0x7D, "asciitilde": 0x7E,

	"nobreakspace": 0xA0, "exclamdown": 0xA1, "sterling": 0xA3,
	"currency": 0xA4, "section": 0xA7, "diaeresis": 0xA8, "notsign": 0xAC,
	"degree": 0xB0,
	"twosuperior": 0xB2, "mu": 0xB5, "masculine": 0xBA, "questiondown": 0xBF,
	"ssharp": 0xDF, "agrave": 0xE0, "adiaeresis": 0xE4, "aring": 0xE5,
	"ae": 0xE6, "ccedilla": 0xE7, "egrave": 0xE8, "eacute": 0xE9,
	"igrave": 0xEC, "ntilde": 0xF1, "ograve": 0xF2, "odiaeresis": 0xF6,
	"oslash": 0xF8, "ugrave": 0xF9, "udiaeresis": 0xFC,

	"BackSpace": SymBackSpace, "Tab": SymTab, "Return": SymReturn,
	"Pause": SymPause, "Scroll_Lock": SymScrollLock, "Sys_Req": SymSysReq,
	"Escape": SymEscape, "Home": SymHome, "Left": SymLeft, "Up": SymUp,
	"Right": SymRight, "Down": SymDown, "Prior": SymPrior, "Page_Up": SymPrior,
	"Next": SymNext, "Page_Down": SymNext, "End": SymEnd, "Insert": SymInsert,
	"Menu": SymMenu, "Break": SymBreak, "Num_Lock": SymNumLock,
	"KP_Enter": SymKPEnter, "KP_Home": SymKPHome, "KP_Left": SymKPLeft,
	"KP_Up": SymKPUp, "KP_Right": SymKPRight, "KP_Down": SymKPDown,
	"KP_Prior": SymKPPrior, "KP_Page_Up": SymKPPrior, "KP_Next": SymKPNext,
	"KP_Page_Down": SymKPNext, "KP_End": SymKPEnd, "KP_Begin": SymKPBegin,
	"KP_Insert": SymKPInsert, "KP_Delete": SymKPDelete,
	"KP_Multiply": SymKPMultiply, "KP_Add": SymKPAdd,
	"KP_Separator": SymKPSeparator, "KP_Subtract": SymKPSubtract,
	"KP_Decimal": SymKPDecimal, "KP_Divide": SymKPDivide,
	"KP_0": SymKP0, "KP_1": SymKP0 + 1, "KP_2": SymKP0 + 2,
	"KP_3": SymKP0 + 3, "KP_4": SymKP0 + 4, "KP_5": SymKP0 + 5,
	"KP_6": SymKP0 + 6, "KP_7": SymKP0 + 7, "KP_8": SymKP0 + 8,
	"KP_9": SymKP9,
	"F1": SymF1, "F2": SymF1 + 1, "F3": SymF1 + 2, "F4": SymF1 + 3,
	"F5": SymF1 + 4, "F6": SymF1 + 5, "F7": SymF1 + 6, "F8": SymF1 + 7,
	"F9": SymF1 + 8, "F10": SymF1 + 9, "F11": SymF1 + 10, "F12": SymF1 + 11,
	"F13": SymF1 + 12, "F14": SymF1 + 13, "F15": SymF1 + 14,
	"F16": SymF1 + 15, "F17": SymF1 + 16, "F18": SymF1 + 17,
	"F19": SymF1 + 18, "F20": SymF1 + 19, "F21": SymF1 + 20,
	"F22": SymF1 + 21, "F23": SymF1 + 22, "F24": SymF24,
	"Shift_L": SymShiftL, "Shift_R": SymShiftR,
	"Control_L": SymControlL, "Control_R": SymControlR,
	"Caps_Lock": SymCapsLock, "Meta_L": SymMetaL, "Meta_R": SymMetaR,
	"Alt_L": SymAltL, "Alt_R": SymAltR,
	"Super_L": SymSuperL, "Super_R": SymSuperR, "Delete": SymDelete,
	"ISO_Level3_Shift": SymISOLevel3Shift, "ISO_Left_Tab": SymISOLeftTab,
	"VoidSymbol": 0xFFFFFF, "NoSymbol": 0,

	"dead_grave": 0xFE50, "dead_acute": 0xFE51, "dead_circumflex": 0xFE52,
	"dead_tilde": 0xFE53, "dead_diaeresis": 0xFE57, "dead_abovering": 0xFE58,

	"XF86AudioLowerVolume": SymXF86AudioLowerVolume,
	"XF86AudioMute":        SymXF86AudioMute,
	"XF86AudioRaiseVolume": SymXF86AudioRaiseVolume,
	"XF86AudioPlay":        SymXF86AudioPlay,
	"XF86AudioStop":        SymXF86AudioStop,
	"XF86AudioPrev":        SymXF86AudioPrev,
	"XF86AudioNext":        SymXF86AudioNext,
	"XF86HomePage":         SymXF86HomePage,
	"XF86Mail":             SymXF86Mail,
	"XF86Search":           SymXF86Search,
	"XF86Back":             SymXF86Back,
	"XF86Forward":          SymXF86Forward,
	"XF86Stop":             SymXF86Stop,
	"XF86Refresh":          SymXF86Refresh,
}

// SymFromName resolves a keysym name as spelled in an xkb_v1 keymap.
func SymFromName(name string) Keysym {
	if sym, ok := symNames[name]; ok {
		return sym
	}
	if len(name) == 1 {
		c := name[0]
		if c >= 0x20 && c <= 0x7E {
			return Keysym(c)
		}
	}
	// Unicode spellings like U20AC.
	if len(name) > 1 && name[0] == 'U' {
		var v uint32
		for _, c := range name[1:] {
			switch {
			case c >= '0' && c <= '9':
				v = v<<4 | uint32(c-'0')
			case c >= 'a' && c <= 'f':
				v = v<<4 | uint32(c-'a'+10)
			case c >= 'A' && c <= 'F':
				v = v<<4 | uint32(c-'A'+10)
			default:
				return NoSymbol
			}
		}
		if v < 0x100 {
			return Keysym(v)
		}
		return Keysym(0x01000000 | v)
	}
	return NoSymbol
}
