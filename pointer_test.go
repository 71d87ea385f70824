package waywin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deedles.dev/waywin/win"
	"deedles.dev/waywin/wire"
)

func pixelAt(pix []byte, width, x, y int) [4]byte {
	i := (y*width + x) * 4
	return [4]byte{pix[i], pix[i+1], pix[i+2], pix[i+3]}
}

func TestRenderCursorMonochrome(t *testing.T) {
	// One 8x1 row exercising all four mask combinations:
	// bit 0: AND=1 XOR=0  transparent
	// bit 1: AND=0 XOR=1  white
	// bit 2: AND=1 XOR=1  opaque black (screen-invert approximated)
	// bit 3: AND=0 XOR=0  opaque black
	img := &win.CursorImage{
		Width:   8,
		Height:  1,
		AndMask: []byte{0b1010_0000},
		XorMask: []byte{0b0110_0000},
	}

	pix := renderCursor(img)
	require.Len(t, pix, 8*4)

	transparent := [4]byte{0, 0, 0, 0}
	white := [4]byte{0xFF, 0xFF, 0xFF, 0xFF}
	black := [4]byte{0, 0, 0, 0xFF}

	assert.Equal(t, transparent, pixelAt(pix, 8, 0, 0))
	assert.Equal(t, white, pixelAt(pix, 8, 1, 0))
	assert.Equal(t, black, pixelAt(pix, 8, 2, 0))
	assert.Equal(t, black, pixelAt(pix, 8, 3, 0))
}

func TestRenderCursorColor(t *testing.T) {
	img := &win.CursorImage{
		Width:    2,
		Height:   1,
		Color:    true,
		HasAlpha: true,
		ARGB: []uint32{
			0xFFFF0000, // opaque red
			0x80FF0000, // half-transparent red
		},
	}

	pix := renderCursor(img)
	require.Len(t, pix, 2*4)

	// Buffer bytes are premultiplied BGRA.
	assert.Equal(t, [4]byte{0, 0, 0xFF, 0xFF}, pixelAt(pix, 2, 0, 0))
	assert.Equal(t, [4]byte{0, 0, 0x80, 0x80}, pixelAt(pix, 2, 1, 0))
}

func TestRenderCursorColorWithoutAlpha(t *testing.T) {
	// Alpha comes from the AND mask when the color data has none.
	img := &win.CursorImage{
		Width:   2,
		Height:  1,
		Color:   true,
		ARGB:    []uint32{0x00123456, 0x00123456},
		AndMask: []byte{0b1000_0000},
	}

	pix := renderCursor(img)
	require.Len(t, pix, 2*4)

	assert.Equal(t, byte(0), pix[3], "masked pixel is transparent")
	assert.Equal(t, [4]byte{0x56, 0x34, 0x12, 0xFF}, pixelAt(pix, 2, 1, 0))
}

func TestRenderCursorRejectsEmpty(t *testing.T) {
	assert.Nil(t, renderCursor(&win.CursorImage{}))
	assert.Nil(t, renderCursor(&win.CursorImage{Width: 4, Height: 4, Color: true}))
}

func TestPointerFrameAccumulation(t *testing.T) {
	p := &Pointer{}

	p.axisDiscrete(0, 1)
	p.axis(0, 0, -2560) // continuous value for the same axis is ignored
	p.mu.Lock()
	assert.Equal(t, int32(-win.WheelDelta), p.frame.wheel[0])
	p.mu.Unlock()

	p.axisDiscrete(0, 1)
	p.mu.Lock()
	assert.Equal(t, int32(-2*win.WheelDelta), p.frame.wheel[0])
	p.frame = pointerFrame{}
	p.mu.Unlock()

	// Continuous-only scroll converts ten units to one detent.
	p.axis(0, 0, 2560) // 10.0 in 24.8 fixed point
	p.mu.Lock()
	assert.Equal(t, int32(-win.WheelDelta), p.frame.wheel[0])
	p.mu.Unlock()
}

func TestRelativeMotionScale(t *testing.T) {
	_, host, s, ts := newTestSession(t)

	surf := newSurface(ts, 0)
	surf.output = &Output{Scale: 2}
	p := &Pointer{s: s}
	p.focus = surf

	// Deltas arrive in surface coordinates; a scale-2 output doubles
	// them, matching the absolute motion path.
	p.relativeMotion(16_000, wire.FixedInt(5), wire.FixedInt(-3), wire.FixedInt(5), wire.FixedInt(-3))

	in := host.mouseInputs()
	require.Len(t, in, 1)
	assert.Equal(t, int32(10), in[0].X)
	assert.Equal(t, int32(-6), in[0].Y)
	assert.Equal(t, uint32(16), in[0].Time)
}

func TestCursorBufferDropWhileBusy(t *testing.T) {
	fc, _, s, _ := newTestSession(t)

	buf, err := newCursorBuffer(s, 4, 4, make([]byte, 64))
	require.NoError(t, err)

	// The compositor still holds the buffer, so the drop defers to
	// the release event.
	buf.dropWhenReleased()
	require.NoError(t, s.Flush())
	assert.Zero(t, fc.countRequests("wl_buffer", "destroy"))

	buf.released()
	require.NoError(t, s.Flush())
	fc.waitRequest(t, "wl_buffer", "destroy")
}

func TestCursorBufferDropAfterRelease(t *testing.T) {
	fc, _, s, _ := newTestSession(t)

	buf, err := newCursorBuffer(s, 4, 4, make([]byte, 64))
	require.NoError(t, err)

	buf.released()
	buf.dropWhenReleased()
	require.NoError(t, s.Flush())
	fc.waitRequest(t, "wl_buffer", "destroy")
}
