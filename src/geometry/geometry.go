package geometry

// Point is a position in absolute screen pixels.
type Point struct {
	X int
	Y int
}

// Rect is an axis-aligned rectangle in absolute screen pixels. Width and
// Height are extents, so the covered pixel columns are [X, X+Width).
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RectFromCorners builds the normalized rectangle spanned by two drag
// corners, in any order.
func RectFromCorners(a, b Point) Rect {
	x0, x1 := a.X, b.X
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := a.Y, b.Y
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Area returns Width*Height. A drag that never left its anchor row or column
// has area zero.
func (r Rect) Area() int { return r.Width * r.Height }

// Right returns the X coordinate of the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether p lies in the rectangle, edges inclusive. A press
// released exactly on the border still counts as inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// ClampPoint moves p to the nearest point inside the rectangle, edges
// inclusive.
func (r Rect) ClampPoint(p Point) Point {
	if p.X < r.X {
		p.X = r.X
	} else if p.X > r.Right() {
		p.X = r.Right()
	}
	if p.Y < r.Y {
		p.Y = r.Y
	} else if p.Y > r.Bottom() {
		p.Y = r.Bottom()
	}
	return p
}

// Intersect returns the overlap of two rectangles, or the zero Rect when
// they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := maxInt(r.X, o.X)
	y0 := maxInt(r.Y, o.Y)
	x1 := minInt(r.Right(), o.Right())
	y1 := minInt(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
