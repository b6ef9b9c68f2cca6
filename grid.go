package main

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrGridShape is returned when a buffer cannot back a square grid.
var ErrGridShape = errors.New("grid data must be a square")

// PixelGrid is a read-only square view over a flat buffer.
// The first coordinate selects the row: index(x, y) = x*width + y.
// Any width is accepted here. RenderMagnifier rejects even widths, since
// it needs a center pixel.
type PixelGrid[T any] struct {
	data  []T
	width int
}

// NewPixelGrid wraps data as a width×width grid.
func NewPixelGrid[T any](data []T, width int) (PixelGrid[T], error) {
	if err := checkSquare(len(data), width); err != nil {
		return PixelGrid[T]{}, err
	}
	return PixelGrid[T]{data: data, width: width}, nil
}

func (g PixelGrid[T]) Width() int { return g.width }

func (g PixelGrid[T]) Len() int { return len(g.data) }

// At returns the value at (x, y). It panics when the point is outside the grid.
func (g PixelGrid[T]) At(x, y int) T {
	return g.data[index(x, y, g.width)]
}

// MutablePixelGrid is the writable counterpart of PixelGrid.
type MutablePixelGrid[T any] struct {
	data  []T
	width int
}

// NewMutablePixelGrid wraps data as a writable width×width grid.
func NewMutablePixelGrid[T any](data []T, width int) (*MutablePixelGrid[T], error) {
	if err := checkSquare(len(data), width); err != nil {
		return nil, err
	}
	return &MutablePixelGrid[T]{data: data, width: width}, nil
}

// NewMutablePixelGridRaw adapts a buffer owned by the display layer.
//
// The caller must guarantee that ptr points to at least width*width valid,
// properly aligned elements that stay alive and are not accessed elsewhere
// while the grid is in use.
func NewMutablePixelGridRaw[T any](ptr *T, width int) *MutablePixelGrid[T] {
	if ptr == nil || width <= 0 {
		panic("pixelpick: raw grid needs a buffer and a positive width")
	}
	return &MutablePixelGrid[T]{data: unsafe.Slice(ptr, width*width), width: width}
}

func (g *MutablePixelGrid[T]) Width() int { return g.width }

func (g *MutablePixelGrid[T]) Len() int { return len(g.data) }

// At returns the value at (x, y). It panics when the point is outside the grid.
func (g *MutablePixelGrid[T]) At(x, y int) T {
	return g.data[index(x, y, g.width)]
}

// Set stores v at (x, y). It panics when the point is outside the grid.
func (g *MutablePixelGrid[T]) Set(x, y int, v T) {
	g.data[index(x, y, g.width)] = v
}

func checkSquare(n, width int) error {
	if width <= 0 || n != width*width {
		return fmt.Errorf("%w: %d values for width %d", ErrGridShape, n, width)
	}
	return nil
}

// index bounds-checks each axis so that an out-of-range column never
// silently lands in the neighbouring row.
func index(x, y, width int) int {
	if x < 0 || x >= width || y < 0 || y >= width {
		panic(fmt.Sprintf("pixelpick: point (%d, %d) outside %dx%d grid", x, y, width, width))
	}
	return x*width + y
}
