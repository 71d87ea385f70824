package win

// Style is the host window style bitmask.
type Style uint32

const (
	StyleMaximizeBox Style = 0x00010000
	StyleMinimizeBox Style = 0x00020000
	StyleSysMenu     Style = 0x00080000
	StyleBorder      Style = 0x00800000
	StyleDlgFrame    Style = 0x00400000
	StyleVisible     Style = 0x10000000
	StyleMinimize    Style = 0x20000000
	StyleChild       Style = 0x40000000
	StyleMaximize    Style = 0x01000000
	StylePopup       Style = 0x80000000

	// StyleCaption is the combination the host uses for a titled
	// window.
	StyleCaption Style = StyleBorder | StyleDlgFrame
)

func (s Style) Has(bits Style) bool { return s&bits == bits }

// SysCommand values forwarded to the host during interactive
// resizes.
const (
	SysCommandSize      uint32 = 0xF000
	SysCommandMove      uint32 = 0xF010
	SysCommandMaximize  uint32 = 0xF030
	SysCommandClose     uint32 = 0xF060
	SysCommandRestore   uint32 = 0xF120
)

// Host window messages the backend synthesizes or handles. The
// clipboard window procedure receives the clipboard group.
const (
	MsgDisplayChange    uint32 = 0x007E
	MsgRenderFormat     uint32 = 0x0305
	MsgDestroyClipboard uint32 = 0x0307
	MsgClipboardUpdate  uint32 = 0x031D
	MsgEnterSizeMove    uint32 = 0x0231
	MsgExitSizeMove     uint32 = 0x0232
)

// Internal backend messages, delivered through the host message
// stream to the thread that owns the target window. Values sit in
// the host's private message range.
const (
	MsgWaylandConfigure uint32 = 0x80001000 + iota
	MsgWaylandSetCursor
	MsgWaylandQuerySurfaceMapped
	MsgWaylandBroadcastDisplayChange
	MsgWaylandPointerConfinementUpdate
	MsgWaylandStateUpdate
)
