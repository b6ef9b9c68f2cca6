package main

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ErrCaptureFailure wraps errors from a screen capture backend.
var ErrCaptureFailure = errors.New("capture failed")

// Capturer reads pixels from the screen.
type Capturer interface {
	// Bounds is the region that can be captured.
	Bounds() Rect
	// Capture returns r.Width*r.Height samples in row-major order.
	Capture(r Rect) ([]ARGB, error)
}

// NewCapturer picks a capture backend. "auto" prefers the X11 connection
// when one is open and falls back to kbinani/screenshot otherwise.
func NewCapturer(backend string, x11 *X11Display) (Capturer, string, error) {
	switch backend {
	case BackendX11:
		if x11 == nil {
			return nil, "", fmt.Errorf("x11 capture needs an X display")
		}
		return x11, "X11", nil
	case BackendScreenshot:
		return newScreenshotCapturer()
	case BackendAuto, "":
		if x11 != nil {
			return x11, "X11", nil
		}
		return newScreenshotCapturer()
	}
	return nil, "", fmt.Errorf("unknown capture backend %q", backend)
}

// CaptureSquare captures r, clamped to the capturer's bounds, and pads the
// part that falls off screen with transparent samples. The result always
// holds exactly r.Width*r.Height samples.
func CaptureSquare(c Capturer, r Rect) ([]ARGB, error) {
	out := make([]ARGB, r.Width*r.Height)

	clipped := r.Intersect(c.Bounds())
	if clipped.Empty() {
		return out, nil
	}

	pixels, err := c.Capture(clipped)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCaptureFailure, clipped, err)
	}
	if len(pixels) != clipped.Width*clipped.Height {
		return nil, fmt.Errorf("%w: %s: got %d samples", ErrCaptureFailure, clipped, len(pixels))
	}

	dx, dy := clipped.X-r.X, clipped.Y-r.Y
	for row := 0; row < clipped.Height; row++ {
		dst := (dy+row)*r.Width + dx
		copy(out[dst:dst+clipped.Width], pixels[row*clipped.Width:(row+1)*clipped.Width])
	}
	return out, nil
}

// captureGrid captures the square around p and wraps it as a grid.
func captureGrid(c Capturer, p Point, size int) (PixelGrid[ARGB], error) {
	pixels, err := CaptureSquare(c, RectAround(p, size))
	if err != nil {
		return PixelGrid[ARGB]{}, err
	}
	return NewPixelGrid(pixels, size)
}

// capturePoint samples the single pixel at p.
func capturePoint(c Capturer, p Point) (ARGB, error) {
	pixels, err := CaptureSquare(c, Rect{X: p.X, Y: p.Y, Width: 1, Height: 1})
	if err != nil {
		return ARGB{}, err
	}
	return pixels[0], nil
}

// screenshotCapturer captures through kbinani/screenshot, which covers
// every active display.
type screenshotCapturer struct {
	bounds Rect
}

func newScreenshotCapturer() (Capturer, string, error) {
	b, err := displayBounds()
	if err != nil {
		return nil, "", err
	}
	return screenshotCapturer{bounds: b}, "screenshot", nil
}

func (s screenshotCapturer) Bounds() Rect { return s.bounds }

func (s screenshotCapturer) Capture(r Rect) ([]ARGB, error) {
	img, err := screenshot.CaptureRect(image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height))
	if err != nil {
		return nil, fmt.Errorf("capturing screen: %w", err)
	}
	return rgbaToARGB(img), nil
}

// displayBounds returns the union of all active display bounds.
func displayBounds() (Rect, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return Rect{}, fmt.Errorf("no active displays found")
	}
	var u image.Rectangle
	for i := 0; i < n; i++ {
		u = u.Union(screenshot.GetDisplayBounds(i))
	}
	return Rect{X: u.Min.X, Y: u.Min.Y, Width: u.Dx(), Height: u.Dy()}, nil
}

// rgbaToARGB flattens an RGBA image into opaque row-major samples.
func rgbaToARGB(img *image.RGBA) []ARGB {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	out := make([]ARGB, 0, w*h)

	pix := img.Pix
	stride := img.Stride
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*stride + x*4
			out = append(out, Opaque(pix[off], pix[off+1], pix[off+2]))
		}
	}
	return out
}
