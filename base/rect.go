package base

import "fmt"

// Rect is a rectangle with inclusive minimum and exclusive maximum bounds.
type Rect struct {
	MinX uint32
	MinY uint32
	MaxX uint32
	MaxY uint32
}

func MakeRect(minX, minY, maxX, maxY uint32) Rect {
	return Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

func (r Rect) Empty() bool {
	return r.MinX >= r.MaxX || r.MinY >= r.MaxY
}

func (r Rect) Width() uint32 {
	if r.MaxX <= r.MinX {
		return 0
	}

	return r.MaxX - r.MinX
}

func (r Rect) Height() uint32 {
	if r.MaxY <= r.MinY {
		return 0
	}

	return r.MaxY - r.MinY
}

// Intersect returns the largest rectangle contained by both r and s. The
// result is the zero Rect when they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	if r.MinX < s.MinX {
		r.MinX = s.MinX
	}

	if r.MinY < s.MinY {
		r.MinY = s.MinY
	}

	if r.MaxX > s.MaxX {
		r.MaxX = s.MaxX
	}

	if r.MaxY > s.MaxY {
		r.MaxY = s.MaxY
	}

	if r.Empty() {
		return Rect{}
	}

	return r
}

// Equals treats all empty rectangles as equal.
func (r Rect) Equals(s Rect) bool {
	if r.Empty() && s.Empty() {
		return true
	}

	return r == s
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d, %d)-(%d, %d)", r.MinX, r.MinY, r.MaxX, r.MaxY)
}
