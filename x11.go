package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"unsafe"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/render"
	"github.com/jezek/xgb/xproto"
)

const (
	grabMask = xproto.EventMaskButtonPress | xproto.EventMaskPointerMotion

	// putImageHeader is the fixed size of a PutImage request in bytes.
	putImageHeader = 24
)

// X11Display is a connection to an X server and the screen being picked
// from. It is the capturer, cursor installer, pointer and event source of
// a tracking session.
type X11Display struct {
	conn   *xgb.Conn
	setup  *xproto.SetupInfo
	screen *xproto.ScreenInfo
	argb32 render.Pictformat
	closed atomic.Bool
	log    *slog.Logger
}

// OpenX11 connects to the named display, or $DISPLAY when name is empty.
func OpenX11(name string) (*X11Display, error) {
	conn, err := xgb.NewConnDisplay(name)
	if err != nil {
		return nil, fmt.Errorf("connecting to X display: %w", err)
	}

	if err := render.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing RENDER extension: %w", err)
	}

	format, err := findARGB32(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	setup := xproto.Setup(conn)
	return &X11Display{
		conn:   conn,
		setup:  setup,
		screen: setup.DefaultScreen(conn),
		argb32: format,
		log:    Logger(),
	}, nil
}

// findARGB32 looks up the 32-bit direct picture format with 8-bit alpha.
func findARGB32(conn *xgb.Conn) (render.Pictformat, error) {
	reply, err := render.QueryPictFormats(conn).Reply()
	if err != nil {
		return 0, fmt.Errorf("querying picture formats: %w", err)
	}
	for _, f := range reply.Formats {
		d := f.Direct
		if f.Type == render.PictTypeDirect && f.Depth == 32 &&
			d.AlphaShift == 24 && d.AlphaMask == 0xff &&
			d.RedShift == 16 && d.RedMask == 0xff &&
			d.GreenShift == 8 && d.GreenMask == 0xff &&
			d.BlueShift == 0 && d.BlueMask == 0xff {
			return f.Id, nil
		}
	}
	return 0, errors.New("X server has no ARGB32 picture format")
}

// Close disconnects from the server. A Track call blocked on NextEvent
// returns as cancelled.
func (d *X11Display) Close() {
	if d.closed.Swap(true) {
		return
	}
	d.conn.Close()
}

func (d *X11Display) root() xproto.Window { return d.screen.Root }

func (d *X11Display) serverOrder() binary.ByteOrder {
	if d.setup.ImageByteOrder == xproto.ImageOrderMSBFirst {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Bounds is the size of the root window.
func (d *X11Display) Bounds() Rect {
	return Rect{Width: int(d.screen.WidthInPixels), Height: int(d.screen.HeightInPixels)}
}

// Capture reads r from the root window.
func (d *X11Display) Capture(r Rect) ([]ARGB, error) {
	reply, err := xproto.GetImage(d.conn, xproto.ImageFormatZPixmap, xproto.Drawable(d.root()),
		int16(r.X), int16(r.Y), uint16(r.Width), uint16(r.Height), 0xffffffff).Reply()
	if err != nil {
		return nil, fmt.Errorf("getting image %s: %w", r, err)
	}

	if bpp := d.bitsPerPixel(reply.Depth); bpp != 32 {
		return nil, fmt.Errorf("unsupported pixel layout: depth %d at %d bpp", reply.Depth, bpp)
	}

	n := r.Width * r.Height
	if len(reply.Data) < n*4 {
		return nil, fmt.Errorf("short image: %d bytes for %s", len(reply.Data), r)
	}

	return decodeZPixmap(reply.Data, n, d.serverOrder()), nil
}

// decodeZPixmap converts n 32 bpp pixels laid out as 0x00RRGGBB words in
// the given byte order.
func decodeZPixmap(data []byte, n int, order binary.ByteOrder) []ARGB {
	out := make([]ARGB, n)
	for i := range out {
		v := order.Uint32(data[i*4:])
		out[i] = Opaque(uint8(v>>16), uint8(v>>8), uint8(v))
	}
	return out
}

func (d *X11Display) bitsPerPixel(depth byte) int {
	for _, f := range d.setup.PixmapFormats {
		if f.Depth == depth {
			return int(f.BitsPerPixel)
		}
	}
	return 0
}

// Position returns the pointer position on the root window.
func (d *X11Display) Position() (Point, error) {
	reply, err := xproto.QueryPointer(d.conn, d.root()).Reply()
	if err != nil {
		return Point{}, err
	}
	return Point{X: int(reply.RootX), Y: int(reply.RootY)}, nil
}

// NewCursorImage allocates a cursor image laid out the way PutImage sends it.
func (d *X11Display) NewCursorImage(width int) *CursorImage {
	buf := make([]byte, width*width*4)
	return &CursorImage{
		Width:  width,
		HotX:   width / 2,
		HotY:   width / 2,
		Pixels: NewMutablePixelGridRaw((*uint32)(unsafe.Pointer(&buf[0])), width),
		data:   buf,
	}
}

// Install uploads img into a depth 32 pixmap and turns it into a cursor.
func (d *X11Display) Install(img *CursorImage) (Cursor, error) {
	if img.data == nil {
		return 0, errors.New("cursor image was not allocated by this display")
	}
	if nativeOrder() != d.serverOrder() {
		swapWords(img.data)
	}

	pixmap, err := xproto.NewPixmapId(d.conn)
	if err != nil {
		return 0, err
	}
	w, h := uint16(img.Width), uint16(img.Width)
	if err := xproto.CreatePixmapChecked(d.conn, 32, pixmap, xproto.Drawable(d.root()), w, h).Check(); err != nil {
		return 0, fmt.Errorf("creating pixmap: %w", err)
	}
	defer xproto.FreePixmap(d.conn, pixmap)

	gc, err := xproto.NewGcontextId(d.conn)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreateGCChecked(d.conn, gc, xproto.Drawable(pixmap), 0, nil).Check(); err != nil {
		return 0, fmt.Errorf("creating graphics context: %w", err)
	}
	defer xproto.FreeGC(d.conn, gc)

	if err := d.putImage(pixmap, gc, img); err != nil {
		return 0, err
	}

	picture, err := render.NewPictureId(d.conn)
	if err != nil {
		return 0, err
	}
	if err := render.CreatePictureChecked(d.conn, picture, xproto.Drawable(pixmap), d.argb32, 0, nil).Check(); err != nil {
		return 0, fmt.Errorf("creating picture: %w", err)
	}
	defer render.FreePicture(d.conn, picture)

	cursor, err := xproto.NewCursorId(d.conn)
	if err != nil {
		return 0, err
	}
	if err := render.CreateCursorChecked(d.conn, cursor, picture, uint16(img.HotX), uint16(img.HotY)).Check(); err != nil {
		return 0, fmt.Errorf("creating cursor: %w", err)
	}
	return Cursor(cursor), nil
}

// putImage sends the image in row strips that fit the server's request
// length limit.
func (d *X11Display) putImage(pixmap xproto.Pixmap, gc xproto.Gcontext, img *CursorImage) error {
	stride := img.Width * 4
	maxData := int(d.setup.MaximumRequestLength)*4 - putImageHeader
	rows := max(maxData/stride, 1)

	for y := 0; y < img.Width; y += rows {
		n := min(rows, img.Width-y)
		strip := img.data[y*stride : (y+n)*stride]
		err := xproto.PutImageChecked(d.conn, xproto.ImageFormatZPixmap, xproto.Drawable(pixmap), gc,
			uint16(img.Width), uint16(n), 0, int16(y), 0, 32, strip).Check()
		if err != nil {
			return fmt.Errorf("uploading cursor rows %d-%d: %w", y, y+n, err)
		}
	}
	return nil
}

// Destroy frees a cursor created by Install.
func (d *X11Display) Destroy(c Cursor) {
	if c == 0 || d.closed.Load() {
		return
	}
	if err := xproto.FreeCursorChecked(d.conn, xproto.Cursor(c)).Check(); err != nil {
		d.log.Warn("freeing cursor", "cursor", c, "err", err)
	}
}

// Grab grabs the pointer on the root window and shows c.
func (d *X11Display) Grab(c Cursor) error {
	reply, err := xproto.GrabPointer(d.conn, false, d.root(), uint16(grabMask),
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.Cursor(c), xproto.TimeCurrentTime).Reply()
	if err != nil {
		return err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("could not grab pointer (status %d)", reply.Status)
	}
	return nil
}

// Update swaps the cursor of the active grab.
func (d *X11Display) Update(c Cursor) error {
	return xproto.ChangeActivePointerGrabChecked(d.conn, xproto.Cursor(c),
		xproto.TimeCurrentTime, uint16(grabMask)).Check()
}

// Ungrab releases the pointer. The server already dropped the grab if the
// connection is closed.
func (d *X11Display) Ungrab() error {
	if d.closed.Load() {
		return nil
	}
	return xproto.UngrabPointerChecked(d.conn, xproto.TimeCurrentTime).Check()
}

// NextEvent blocks until the server sends an event or the connection closes.
func (d *X11Display) NextEvent() (Event, error) {
	ev, xerr := d.conn.WaitForEvent()
	switch {
	case ev == nil && xerr == nil:
		return ClosedEvent{}, nil
	case xerr != nil:
		return nil, fmt.Errorf("X error: %s", xerr.Error())
	}

	switch ev := ev.(type) {
	case xproto.MotionNotifyEvent:
		return MotionEvent{Point{X: int(ev.RootX), Y: int(ev.RootY)}}, nil
	case xproto.ButtonPressEvent:
		return ButtonPressEvent{Point: Point{X: int(ev.RootX), Y: int(ev.RootY)}, Button: int(ev.Detail)}, nil
	}
	return OtherEvent{}, nil
}

func nativeOrder() binary.ByteOrder {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func swapWords(b []byte) {
	for i := 0; i+3 < len(b); i += 4 {
		b[i], b[i+1], b[i+2], b[i+3] = b[i+3], b[i+2], b[i+1], b[i]
	}
}
