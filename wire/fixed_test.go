package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	assert.Equal(t, Fixed(0x100), FixedInt(1))
	assert.Equal(t, 5, FixedInt(5).Int())
	assert.Equal(t, 0, FixedInt(5).Frac())

	assert.Equal(t, Fixed(0x180), FixedFloat(1.5))
	assert.Equal(t, 1.5, Fixed(0x180).Float())
	assert.Equal(t, 0x80, Fixed(0x180).Frac())

	assert.Equal(t, -2.5, FixedFloat(-2.5).Float())
	assert.Equal(t, -1, Fixed(-0x100).Int())
}
