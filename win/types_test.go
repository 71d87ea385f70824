package win

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntersect(t *testing.T) {
	a := MakeRect(0, 0, 100, 100)
	b := MakeRect(50, 50, 100, 100)

	assert.Equal(t, Rect{Left: 50, Top: 50, Right: 100, Bottom: 100}, a.Intersect(b))
	assert.Equal(t, Rect{}, a.Intersect(MakeRect(200, 200, 10, 10)))
	assert.True(t, a.Intersect(MakeRect(100, 0, 10, 10)).Empty(), "edge-adjacent rects do not overlap")
}

func TestRectUnion(t *testing.T) {
	a := MakeRect(0, 0, 10, 10)
	b := MakeRect(20, 20, 10, 10)

	assert.Equal(t, Rect{Left: 0, Top: 0, Right: 30, Bottom: 30}, a.Union(b))
	assert.Equal(t, a, a.Union(Rect{}))
	assert.Equal(t, a, Rect{}.Union(a))
}

func TestRectContains(t *testing.T) {
	r := MakeRect(10, 10, 10, 10)
	assert.True(t, r.Contains(Point{X: 10, Y: 10}))
	assert.True(t, r.Contains(Point{X: 19, Y: 19}))
	assert.False(t, r.Contains(Point{X: 20, Y: 10}), "right edge is exclusive")
	assert.False(t, r.Contains(Point{X: 9, Y: 10}))
}

func TestRegionIntersectRect(t *testing.T) {
	rgn := Region{
		MakeRect(0, 0, 100, 50),
		MakeRect(0, 50, 50, 50),
	}
	clip := MakeRect(25, 25, 100, 100)

	out := rgn.IntersectRect(clip)
	assert.Equal(t, Region{
		Rect{Left: 25, Top: 25, Right: 100, Bottom: 50},
		Rect{Left: 25, Top: 50, Right: 50, Bottom: 100},
	}, out)

	assert.Empty(t, rgn.IntersectRect(MakeRect(500, 500, 10, 10)))
}

func TestRegionIntersectRegion(t *testing.T) {
	a := Region{MakeRect(0, 0, 100, 100)}
	b := Region{MakeRect(50, 0, 100, 50), MakeRect(0, 90, 10, 20)}

	out := a.IntersectRegion(b)
	assert.Equal(t, Region{
		Rect{Left: 50, Top: 0, Right: 100, Bottom: 50},
		Rect{Left: 0, Top: 90, Right: 10, Bottom: 100},
	}, out)
}

func TestRegionBounds(t *testing.T) {
	rgn := Region{
		MakeRect(10, 10, 10, 10),
		MakeRect(50, 5, 10, 10),
	}
	assert.Equal(t, Rect{Left: 10, Top: 5, Right: 60, Bottom: 20}, rgn.Bounds())
	assert.True(t, Region{}.Bounds().Empty())
	assert.True(t, Region{}.Empty())
	assert.False(t, rgn.Empty())
}
