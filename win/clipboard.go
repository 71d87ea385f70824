package win

// ClipboardFormat is a host clipboard format identifier. Values
// below 0xC000 are the standard formats; registered formats live
// above.
type ClipboardFormat uint32

const (
	CFText        ClipboardFormat = 1
	CFBitmap      ClipboardFormat = 2
	CFDIB         ClipboardFormat = 8
	CFUnicodeText ClipboardFormat = 13
	CFDIBV5       ClipboardFormat = 17

	// CFRegisteredBase is the first identifier handed out for
	// registered formats.
	CFRegisteredBase ClipboardFormat = 0xC000
)

// Clipboard is the host clipboard as seen by the backend. All
// methods are called with the clipboard conceptually open; Open
// reports false when another window holds it.
type Clipboard interface {
	Open(owner HWND) bool
	Close()

	// Empty clears the clipboard and makes owner the new owner.
	Empty()

	// SetDelayed advertises format without providing data yet; the
	// host will come back with a render request when somebody asks.
	SetDelayed(format ClipboardFormat)

	// Set stores rendered data for format.
	Set(format ClipboardFormat, data []byte)

	// Formats enumerates the currently advertised formats.
	Formats() []ClipboardFormat

	// Data returns the rendered data for format, if any.
	Data(format ClipboardFormat) ([]byte, bool)

	// RegisterFormat returns the identifier for a named format,
	// registering it on first use.
	RegisterFormat(name string) ClipboardFormat

	// IsOwned reports whether this process owns the current
	// clipboard contents.
	IsOwned() bool
}
