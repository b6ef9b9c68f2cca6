package main

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned for geometry that cannot produce a preview.
var ErrInvalidConfiguration = errors.New("invalid configuration")

const (
	borderWidth = 1

	// maxPreviewSize keeps the cursor image within the 16 bit sizes and
	// offsets of the X protocol and a few megabytes of memory.
	maxPreviewSize = 1023
)

var (
	gridColor      = ARGB{A: 0xff, R: 0x55, G: 0x55, B: 0x55}
	highlightColor = White
	borderColor    = White
)

// MagnifierConfig describes the preview cursor.
type MagnifierConfig struct {
	// PreviewSize is the odd pixel width of the cursor image.
	PreviewSize int
	// Scale is how much smaller the captured square is than the preview.
	Scale int
}

// Validate rejects configurations that would produce degenerate geometry.
func (c MagnifierConfig) Validate() error {
	switch {
	case c.PreviewSize <= 0 || c.PreviewSize%2 == 0:
		return fmt.Errorf("%w: preview size %d must be odd and positive", ErrInvalidConfiguration, c.PreviewSize)
	case c.PreviewSize > maxPreviewSize:
		return fmt.Errorf("%w: preview size %d exceeds %d", ErrInvalidConfiguration, c.PreviewSize, maxPreviewSize)
	case c.PreviewSize < 2*(borderWidth+1)+1:
		return fmt.Errorf("%w: preview size %d leaves no room inside the border", ErrInvalidConfiguration, c.PreviewSize)
	case c.Scale < 2:
		return fmt.Errorf("%w: scale %d must be at least 2", ErrInvalidConfiguration, c.Scale)
	case c.Scale > c.PreviewSize:
		return fmt.Errorf("%w: scale %d exceeds preview size %d", ErrInvalidConfiguration, c.Scale, c.PreviewSize)
	case c.PixelSize(c.SourceWidth()) < 3:
		return fmt.Errorf("%w: scale %d is too small for a %d pixel preview", ErrInvalidConfiguration, c.Scale, c.PreviewSize)
	}
	return nil
}

// SourceWidth is the side of the screen square captured around the pointer.
func (c MagnifierConfig) SourceWidth() int {
	return EnsureOdd(c.PreviewSize / c.Scale)
}

// PixelSize is the number of cursor pixels drawn per screen pixel.
func (c MagnifierConfig) PixelSize(sourceWidth int) int {
	return EnsureOdd(c.PreviewSize / sourceWidth)
}

// insideCircle reports whether (x, y) lies inside the circle of radius r
// centered at (r, r).
func insideCircle(x, y, r int) bool {
	dx, dy := x-r, y-r
	return dx*dx+dy*dy < r*r
}

// RenderMagnifier paints a circular, magnified view of source into target.
//
// Each source pixel becomes a pixelSize block separated by grid lines. The
// grid lines around the source's center pixel are highlighted, and a one
// pixel border ring surrounds the content. Everything outside the ring is
// transparent. Every pixel of target is overwritten. Invalid geometry is
// rejected before anything is written.
func RenderMagnifier(target *MutablePixelGrid[uint32], source PixelGrid[ARGB], pixelSize int) error {
	if pixelSize <= 0 || pixelSize%2 == 0 {
		return fmt.Errorf("%w: pixel size %d must be odd", ErrInvalidConfiguration, pixelSize)
	}
	if target.Width()%2 == 0 {
		return fmt.Errorf("%w: cursor width %d must be odd", ErrInvalidConfiguration, target.Width())
	}
	if source.Width()%2 == 0 {
		return fmt.Errorf("%w: screenshot width %d must be odd", ErrInvalidConfiguration, source.Width())
	}

	borderRadius := target.Width() / 2
	contentRadius := borderRadius - borderWidth

	sourceCenter := source.Width() / 2
	cursorCenter := sourceCenter * pixelSize
	normalizedCenter := target.Width()/2 - pixelSize/2
	offset := max(cursorCenter-normalizedCenter, 0)

	grid := gridColor.Pack()
	highlight := highlightColor.Pack()
	border := borderColor.Pack()
	transparent := Transparent.Pack()

	// The box is tested in translated coordinates so that it frames the
	// source pixel under the pointer even when the content is shifted.
	inHighlight := func(t int) bool {
		return t >= cursorCenter && t <= cursorCenter+pixelSize
	}

	for tx := 0; tx < target.Width(); tx++ {
		for ty := 0; ty < target.Width(); ty++ {
			ox, oy := tx+offset, ty+offset

			var px uint32
			switch {
			case insideCircle(tx, ty, contentRadius):
				if ox%pixelSize == 0 || oy%pixelSize == 0 {
					if inHighlight(ox) && inHighlight(oy) {
						px = highlight
					} else {
						px = grid
					}
				} else {
					// The preview can be wider than the magnified
					// capture, so the last column may have no source.
					sx, sy := ox/pixelSize, oy/pixelSize
					if sx < source.Width() && sy < source.Width() {
						px = source.At(sx, sy).Pack()
					} else {
						px = transparent
					}
				}
			case insideCircle(tx+borderWidth, ty+borderWidth, borderRadius):
				px = border
			default:
				px = transparent
			}
			target.Set(tx, ty, px)
		}
	}
	return nil
}
