package main

import "fmt"

// Integer is the set of integer types EnsureOdd accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// EnsureOdd rounds an even n up to the next odd value.
// Every grid width passes through here so that a center pixel exists.
func EnsureOdd[T Integer](n T) T {
	if n%2 == 0 {
		return n + 1
	}
	return n
}

// clamp limits v to [lo, hi]. The caller must guarantee lo <= hi.
func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Point is a position in root window coordinates.
type Point struct {
	X, Y int
}

// Rect is a capture request or an actual capture in root window coordinates.
// Width and Height are never negative.
type Rect struct {
	X, Y          int
	Width, Height int
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect clips r to bounds. The result is empty when they do not overlap.
func (r Rect) Intersect(bounds Rect) Rect {
	x0 := clamp(r.X, bounds.X, bounds.X+bounds.Width)
	y0 := clamp(r.Y, bounds.Y, bounds.Y+bounds.Height)
	x1 := clamp(r.X+r.Width, bounds.X, bounds.X+bounds.Width)
	y1 := clamp(r.Y+r.Height, bounds.Y, bounds.Y+bounds.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// RectAround returns the size×size square whose center pixel is p.
func RectAround(p Point, size int) Rect {
	return Rect{
		X:      p.X - size/2,
		Y:      p.Y - size/2,
		Width:  size,
		Height: size,
	}
}
