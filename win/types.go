// Package win defines the host-side windowing vocabulary that the
// backend consumes and produces: window handles, rectangles, styles,
// input events, and clipboard formats, plus the Host interface
// through which the backend talks back to the embedding windowing
// system.
package win

import "fmt"

// HWND is an opaque host window handle.
type HWND uint32

// Point is a position in host screen coordinates.
type Point struct {
	X, Y int32
}

// Rect is a rectangle in host coordinates. Right and Bottom are
// exclusive.
type Rect struct {
	Left, Top, Right, Bottom int32
}

func MakeRect(x, y, width, height int32) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

func (r Rect) Width() int32  { return r.Right - r.Left }
func (r Rect) Height() int32 { return r.Bottom - r.Top }

func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.Left && pt.X < r.Right && pt.Y >= r.Top && pt.Y < r.Bottom
}

func (r Rect) Intersect(o Rect) Rect {
	if o.Left > r.Left {
		r.Left = o.Left
	}
	if o.Top > r.Top {
		r.Top = o.Top
	}
	if o.Right < r.Right {
		r.Right = o.Right
	}
	if o.Bottom < r.Bottom {
		r.Bottom = o.Bottom
	}
	if r.Empty() {
		return Rect{}
	}
	return r
}

func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	if o.Left < r.Left {
		r.Left = o.Left
	}
	if o.Top < r.Top {
		r.Top = o.Top
	}
	if o.Right > r.Right {
		r.Right = o.Right
	}
	if o.Bottom > r.Bottom {
		r.Bottom = o.Bottom
	}
	return r
}

func (r Rect) Offset(dx, dy int32) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%v,%v)-(%v,%v)", r.Left, r.Top, r.Right, r.Bottom)
}

// Region is a set of non-overlapping rectangles, the host analogue
// of an HRGN.
type Region []Rect

// Bounds returns the union of the region's rectangles.
func (rgn Region) Bounds() Rect {
	var b Rect
	for _, r := range rgn {
		b = b.Union(r)
	}
	return b
}

func (rgn Region) Empty() bool {
	for _, r := range rgn {
		if !r.Empty() {
			return false
		}
	}
	return true
}

func (rgn Region) Contains(pt Point) bool {
	for _, r := range rgn {
		if r.Contains(pt) {
			return true
		}
	}
	return false
}

// IntersectRect clips the region to r.
func (rgn Region) IntersectRect(r Rect) Region {
	out := make(Region, 0, len(rgn))
	for _, rr := range rgn {
		if c := rr.Intersect(r); !c.Empty() {
			out = append(out, c)
		}
	}
	return out
}

// IntersectRegion intersects two regions pairwise.
func (rgn Region) IntersectRegion(o Region) Region {
	var out Region
	for _, a := range rgn {
		for _, b := range o {
			if c := a.Intersect(b); !c.Empty() {
				out = append(out, c)
			}
		}
	}
	return out
}
