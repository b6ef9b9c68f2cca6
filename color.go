package main

import "fmt"

// ARGB holds an 8-bit color sample with alpha.
//
// Packed, it matches the premultiplied ARGB32 layout the X RENDER
// extension expects for cursor images. Screen samples are always opaque,
// so premultiplied and straight alpha are the same value.
type ARGB struct {
	A, R, G, B uint8
}

var (
	Transparent = ARGB{}
	White       = ARGB{A: 0xff, R: 0xff, G: 0xff, B: 0xff}
)

// Opaque returns a fully opaque color.
func Opaque(r, g, b uint8) ARGB {
	return ARGB{A: 0xff, R: r, G: g, B: b}
}

// Pack returns the color as a 32-bit cursor pixel.
func (c ARGB) Pack() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// UnpackARGB is the inverse of ARGB.Pack.
func UnpackARGB(p uint32) ARGB {
	return ARGB{
		A: uint8(p >> 24),
		R: uint8(p >> 16),
		G: uint8(p >> 8),
		B: uint8(p),
	}
}

func (c ARGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
