package waywin

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendVirtualModes(t *testing.T) {
	native := []Mode{
		{Width: 1920, Height: 1080, Bits: 32, Refresh: 60000, Native: true},
		{Width: 1280, Height: 720, Bits: 32, Refresh: 60000, Native: true},
	}

	modes := appendVirtualModes(slices.Clone(native))

	t.Run("clamped to largest native size", func(t *testing.T) {
		for _, m := range modes {
			assert.LessOrEqual(t, m.Width, int32(1920))
			assert.LessOrEqual(t, m.Height, int32(1080))
		}
		assert.Nil(t, findMode(modes, Mode{Width: 2560, Height: 1440, Bits: 32, Refresh: 60000}))
	})

	t.Run("depth variants", func(t *testing.T) {
		for _, bits := range []int32{8, 16, 32} {
			m := findMode(modes, Mode{Width: 640, Height: 480, Bits: bits, Refresh: 60000})
			require.NotNil(t, m, "%d bpp", bits)
			assert.False(t, m.Native)
		}
	})

	t.Run("native-only resolutions get depth variants", func(t *testing.T) {
		odd := appendVirtualModes([]Mode{
			{Width: 1360, Height: 768, Bits: 32, Refresh: 59790, Native: true},
		})
		for _, bits := range []int32{8, 16} {
			m := findMode(odd, Mode{Width: 1360, Height: 768, Bits: bits, Refresh: 59790})
			require.NotNil(t, m, "%d bpp", bits)
			assert.False(t, m.Native)
		}
	})

	t.Run("native modes not duplicated", func(t *testing.T) {
		n := 0
		for _, m := range modes {
			if m.Width == 1920 && m.Height == 1080 && m.Bits == 32 && m.Refresh == 60000 {
				n++
			}
		}
		assert.Equal(t, 1, n)
		assert.True(t, findMode(modes, Mode{Width: 1920, Height: 1080, Bits: 32, Refresh: 60000}).Native)
	})
}

func TestSortModes(t *testing.T) {
	modes := []Mode{
		{Width: 1920, Height: 1080, Bits: 32, Refresh: 60000},
		{Width: 640, Height: 480, Bits: 32, Refresh: 60000},
		{Width: 640, Height: 480, Bits: 8, Refresh: 60000},
		{Width: 1024, Height: 768, Bits: 32, Refresh: 75000},
		{Width: 1024, Height: 768, Bits: 32, Refresh: 60000},
		{Width: 640, Height: 480, Bits: 16, Refresh: 60000},
	}
	sortModes(modes)

	assert.True(t, slices.IsSortedFunc(modes, func(a, b Mode) int {
		if a.Width != b.Width {
			return int(a.Width - b.Width)
		}
		if a.Height != b.Height {
			return int(a.Height - b.Height)
		}
		if a.Bits != b.Bits {
			return int(a.Bits - b.Bits)
		}
		return int(a.Refresh - b.Refresh)
	}))
	assert.Equal(t, Mode{Width: 640, Height: 480, Bits: 8, Refresh: 60000}, modes[0])
	assert.Equal(t, Mode{Width: 1920, Height: 1080, Bits: 32, Refresh: 60000}, modes[len(modes)-1])
}
