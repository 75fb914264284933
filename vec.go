package fishpond

import "math"

// A Vec2 is a simple 2D vector. It is used both for points and directions.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns u+v.
func (u Vec2) Add(v Vec2) Vec2 {
	return Vec2{u.X + v.X, u.Y + v.Y}
}

// Sub returns u-v.
func (u Vec2) Sub(v Vec2) Vec2 {
	return Vec2{u.X - v.X, u.Y - v.Y}
}

// Scale returns u scaled by k.
func (u Vec2) Scale(k float64) Vec2 {
	return Vec2{u.X * k, u.Y * k}
}

// Div returns u divided by k. k must not be zero.
func (u Vec2) Div(k float64) Vec2 {
	return Vec2{u.X / k, u.Y / k}
}

// Dot returns the dot product of u and v.
func (u Vec2) Dot(v Vec2) float64 {
	return u.X*v.X + u.Y*v.Y
}

// Cross returns the z component of the cross product of u and v.
func (u Vec2) Cross(v Vec2) float64 {
	return u.X*v.Y - u.Y*v.X
}

// Len returns the Euclidean norm of u.
func (u Vec2) Len() float64 {
	return math.Hypot(u.X, u.Y)
}

// Dist returns the distance between points u and v.
func (u Vec2) Dist(v Vec2) float64 {
	return math.Hypot(u.X-v.X, u.Y-v.Y)
}

// Normalize returns the unit vector with the direction of u.
// The zero vector is returned unchanged.
func (u Vec2) Normalize() Vec2 {
	n := u.Len()
	if n == 0 {
		return u
	}
	return u.Div(n)
}

// Rotate returns u rotated counterclockwise by θ radians.
func (u Vec2) Rotate(θ float64) Vec2 {
	sin, cos := math.Sincos(θ)
	return Vec2{u.X*cos - u.Y*sin, u.X*sin + u.Y*cos}
}

// Angle returns the signed angle in (-π, π] that turns u onto v.
func (u Vec2) Angle(v Vec2) float64 {
	return math.Atan2(u.Cross(v), u.Dot(v))
}
