package noise

import "math"

// Vec2 is a point or displacement in the continuous noise plane.
type Vec2 struct {
	X, Y float64
}

// Cell indexes the unit square [X, X+1) x [Y, Y+1).
type Cell struct {
	X, Y int32
}

// V returns Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Floor returns the cell containing v. Only defined while both components
// lie in [-2^31, 2^31); beyond that the int32 conversion result is
// platform dependent.
func (v Vec2) Floor() Cell {
	return Cell{int32(math.Floor(v.X)), int32(math.Floor(v.Y))}
}

// Frac returns v's position inside its cell, each component in [0,1)
// for finite input.
func (v Vec2) Frac() Vec2 {
	return Vec2{v.X - math.Floor(v.X), v.Y - math.Floor(v.Y)}
}

// Add offsets the cell by delta cells.
func (c Cell) Add(dx, dy int32) Cell {
	return Cell{c.X + dx, c.Y + dy}
}

// Origin returns the cell's lower-left corner in world space.
func (c Cell) Origin() Vec2 {
	return Vec2{float64(c.X), float64(c.Y)}
}
