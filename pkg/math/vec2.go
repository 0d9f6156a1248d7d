// Package math provides float32 vector types shared by terrain generation and streaming.
package math

import "github.com/chewxy/math32"

// Vec2 is a 2D vector on the ground plane (X, Z).
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Div returns v / scalar.
func (v Vec2) Div(s float32) Vec2 {
	return Vec2{v.X / s, v.Y / s}
}

// Floor returns v with both components rounded down.
func (v Vec2) Floor() Vec2 {
	return Vec2{math32.Floor(v.X), math32.Floor(v.Y)}
}

// Heading returns the unit vector at angle rad from +X towards +Z.
func Heading(rad float32) Vec2 {
	return Vec2{math32.Cos(rad), math32.Sin(rad)}
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}
