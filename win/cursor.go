package win

// Cursor is an opaque host cursor handle.
type Cursor uintptr

// InvalidCursor is a sentinel distinct from every real handle and
// from the nil cursor.
const InvalidCursor Cursor = ^Cursor(0)

// CursorImage is the pixel content of a host cursor. Color cursors
// carry ARGB pixels; monochrome ones carry the classic AND/XOR mask
// pair, one bit per pixel, rows padded to whole bytes.
type CursorImage struct {
	Width, Height     int32
	HotspotX, HotspotY int32

	Color bool

	// ARGB holds 32-bit pixels, row-major, when Color is set. If
	// HasAlpha is false the alpha channel is undefined and must be
	// synthesized from the AND mask.
	ARGB     []uint32
	HasAlpha bool

	// AndMask and XorMask are set for monochrome cursors, and
	// AndMask may accompany a color cursor without alpha.
	AndMask []byte
	XorMask []byte
}
