package main

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrCursorInstallFailure wraps errors from creating a cursor image.
	ErrCursorInstallFailure = errors.New("cursor install failed")
	// ErrGrabFailure wraps errors from grabbing or updating the pointer.
	ErrGrabFailure = errors.New("pointer grab failed")
)

// PrimaryButton is the button that picks a color.
const PrimaryButton = 1

// Event is something delivered by an EventSource.
type Event interface {
	event()
}

// MotionEvent reports the pointer at a new position.
type MotionEvent struct {
	Point
}

// ButtonPressEvent reports a pointer button press.
type ButtonPressEvent struct {
	Point
	Button int
}

// ClosedEvent reports that the display connection is gone.
type ClosedEvent struct{}

// OtherEvent is any event the tracker does not act on.
type OtherEvent struct{}

func (MotionEvent) event()      {}
func (ButtonPressEvent) event() {}
func (ClosedEvent) event()      {}
func (OtherEvent) event()       {}

// Cursor identifies an installed cursor image.
type Cursor uint32

// CursorImage is a square ARGB cursor image waiting to be installed.
type CursorImage struct {
	Width      int
	HotX, HotY int
	Pixels     *MutablePixelGrid[uint32]

	// data is the wire buffer behind Pixels, when the installer owns one.
	data []byte
}

// CursorInstaller turns rendered images into cursors.
type CursorInstaller interface {
	NewCursorImage(width int) *CursorImage
	Install(img *CursorImage) (Cursor, error)
	Destroy(c Cursor)
}

// Pointer controls the pointer grab.
type Pointer interface {
	Position() (Point, error)
	Grab(c Cursor) error
	Update(c Cursor) error
	Ungrab() error
}

// EventSource blocks until the next input event.
type EventSource interface {
	NextEvent() (Event, error)
}

// Tracker runs one color picking session.
type Tracker struct {
	capture Capturer
	cursors CursorInstaller
	pointer Pointer
	events  EventSource
	log     *slog.Logger
}

// NewTracker wires a tracker to its collaborators. They are usually all the
// same *X11Display, except for the capturer.
func NewTracker(capture Capturer, cursors CursorInstaller, pointer Pointer, events EventSource) *Tracker {
	return &Tracker{
		capture: capture,
		cursors: cursors,
		pointer: pointer,
		events:  events,
		log:     Logger(),
	}
}

type trackState int

const (
	trackTracking trackState = iota
	trackResolved
	trackCancelled
)

func (s trackState) String() string {
	switch s {
	case trackTracking:
		return "tracking"
	case trackResolved:
		return "resolved"
	case trackCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Track grabs the pointer, shows a magnified preview as the cursor and waits
// for a primary button press. It returns the color under the pointer, or
// ok=false if the display closed first. The grab is always released before
// Track returns.
func (t *Tracker) Track(cfg MagnifierConfig) (color ARGB, ok bool, err error) {
	if err := cfg.Validate(); err != nil {
		return ARGB{}, false, err
	}

	pos, err := t.pointer.Position()
	if err != nil {
		return ARGB{}, false, fmt.Errorf("%w: querying pointer: %w", ErrGrabFailure, err)
	}
	t.log.Debug("tracking started",
		"preview", cfg.PreviewSize,
		"scale", cfg.Scale,
		"source", cfg.SourceWidth(),
		"pixel_size", cfg.PixelSize(cfg.SourceWidth()),
		"x", pos.X, "y", pos.Y)

	current, err := t.frame(cfg, pos)
	if err != nil {
		return ARGB{}, false, err
	}
	if err := t.pointer.Grab(current); err != nil {
		t.cursors.Destroy(current)
		return ARGB{}, false, fmt.Errorf("%w: %w", ErrGrabFailure, err)
	}
	defer func() {
		if uerr := t.pointer.Ungrab(); uerr != nil {
			err = errors.Join(err, fmt.Errorf("%w: releasing grab: %w", ErrGrabFailure, uerr))
			color, ok = ARGB{}, false
		}
		t.cursors.Destroy(current)
	}()

	state := trackTracking
	for state == trackTracking {
		ev, err := t.events.NextEvent()
		if err != nil {
			return ARGB{}, false, fmt.Errorf("waiting for events: %w", err)
		}

		switch ev := ev.(type) {
		case MotionEvent:
			next, err := t.frame(cfg, ev.Point)
			if err != nil {
				return ARGB{}, false, err
			}
			if err := t.pointer.Update(next); err != nil {
				t.cursors.Destroy(next)
				return ARGB{}, false, fmt.Errorf("%w: %w", ErrGrabFailure, err)
			}
			t.cursors.Destroy(current)
			current = next

		case ButtonPressEvent:
			if ev.Button != PrimaryButton {
				continue
			}
			color, err = capturePoint(t.capture, ev.Point)
			if err != nil {
				return ARGB{}, false, err
			}
			state = trackResolved
			t.log.Debug("color picked", "x", ev.X, "y", ev.Y, "color", color.String())

		case ClosedEvent:
			state = trackCancelled
		}
	}

	t.log.Debug("tracking finished", "state", state.String())
	return color, state == trackResolved, nil
}

// frame captures around p, renders the magnifier and installs it as a new
// cursor. Nothing is installed if capture or rendering fails.
func (t *Tracker) frame(cfg MagnifierConfig, p Point) (Cursor, error) {
	size := cfg.SourceWidth()
	source, err := captureGrid(t.capture, p, size)
	if err != nil {
		return 0, err
	}

	img := t.cursors.NewCursorImage(cfg.PreviewSize)
	if err := RenderMagnifier(img.Pixels, source, cfg.PixelSize(size)); err != nil {
		return 0, err
	}

	c, err := t.cursors.Install(img)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCursorInstallFailure, err)
	}
	return c, nil
}
