// Package geom provides the minimal 2D math used by the scene model:
// world-space vectors, integer grid points, and axis-aligned rectangles.
package geom

import "math"

// Vec2 is a point or size in world space. Y grows upward.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// DistanceTo returns the euclidean distance between v and o.
func (v Vec2) DistanceTo(o Vec2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Point is an integer cell coordinate or footprint inside a grid room.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// IsZero reports whether p is the zero point.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Rect is an axis-aligned world-space rectangle described by its center
// and size, matching how interaction zones are authored.
type Rect struct {
	Center Vec2 `json:"center"`
	Size   Vec2 `json:"size"`
}

// Contains reports whether p falls inside r. Boundary points on the
// min edge are inside, on the max edge outside.
func (r Rect) Contains(p Vec2) bool {
	halfW := r.Size.X / 2
	halfH := r.Size.Y / 2
	return p.X >= r.Center.X-halfW && p.X < r.Center.X+halfW &&
		p.Y >= r.Center.Y-halfH && p.Y < r.Center.Y+halfH
}

// IsZero reports whether r has no size.
func (r Rect) IsZero() bool {
	return r.Size.X == 0 && r.Size.Y == 0
}
