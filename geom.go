package sticker

// Vec2 is a 2D vector used for positions, offsets, and sizes throughout the
// API. All coordinates are canvas-absolute unless noted otherwise: relative
// to the scrollable content, independent of viewport scroll and zoom.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Origin returns the rectangle's top-left corner.
func (r Rect) Origin() Vec2 {
	return Vec2{r.X, r.Y}
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Context scopes sticker visibility. Every sticker belongs to exactly one
// (ViewMode, ProjectID) pair; list and hit queries are always
// context-filtered.
type Context struct {
	ViewMode  string `json:"viewMode"`
	ProjectID string `json:"projectId"`
}
