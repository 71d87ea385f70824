package waywin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deedles.dev/waywin/win"
)

func TestKeyRepeatTimestampsAdvance(t *testing.T) {
	_, host, s, ts := newTestSession(t)

	const code = 36 // Return, after the evdev offset

	surf := newSurface(ts, 1)
	k := &Keyboard{s: s}
	k.vkeys[code] = win.VKReturn
	k.scans[code] = 0x1C
	k.focus = surf
	k.pressed = code
	k.repeatInterval = time.Hour

	// Two repeats of a key pressed 50ms ago must both stamp later
	// than the press, and the second later than the first.
	press := time.Now().Add(-50 * time.Millisecond)
	k.repeat(code, 1000, press)
	time.Sleep(5 * time.Millisecond)
	k.repeat(code, 1000, press)

	in := host.keyInputs()
	require.Len(t, in, 2)
	assert.Equal(t, win.VKReturn, in[0].VKey)
	assert.Greater(t, in[0].Time, uint32(1000))
	assert.Greater(t, in[1].Time, in[0].Time)
}
