package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalBus    = "org.freedesktop.portal.Desktop"
	portalObject = dbus.ObjectPath("/org/freedesktop/portal/desktop")

	pickColorMethod = "org.freedesktop.portal.Screenshot.PickColor"
	requestIface    = "org.freedesktop.portal.Request"

	portalTimeout = 120 * time.Second // the user may take a while to click

	// portalCancelled is the Response code for a dismissed dialog.
	portalCancelled = 1
)

// errPortalCancelled reports that the user dismissed the portal picker.
var errPortalCancelled = errors.New("portal request cancelled")

// PickColorPortal asks the desktop portal to let the user pick a color.
// It is used when there is no X display to grab, e.g. under Wayland.
func PickColorPortal(ctx context.Context) (ARGB, bool, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return ARGB{}, false, fmt.Errorf("connecting to session bus: %w", err)
	}
	defer conn.Close()

	req, err := newPortalRequest(conn, "pixelpick_pick")
	if err != nil {
		return ARGB{}, false, err
	}
	defer req.close()

	call := conn.Object(portalBus, portalObject).CallWithContext(ctx, pickColorMethod, 0, "",
		map[string]dbus.Variant{"handle_token": dbus.MakeVariant(req.token)})
	if errors.Is(call.Err, context.Canceled) {
		return ARGB{}, false, nil
	}
	if call.Err != nil {
		return ARGB{}, false, fmt.Errorf("PickColor: %w", call.Err)
	}

	ctx, cancel := context.WithTimeout(ctx, portalTimeout)
	defer cancel()

	results, err := waitForResponse(ctx, req.signals)
	if errors.Is(err, errPortalCancelled) || errors.Is(err, context.Canceled) {
		return ARGB{}, false, nil
	}
	if err != nil {
		return ARGB{}, false, fmt.Errorf("PickColor response: %w", err)
	}

	c, err := extractColor(results)
	if err != nil {
		return ARGB{}, false, err
	}
	return c, true, nil
}

// portalRequest is a subscription to the Response signal of one portal
// request object. The object path is derived from our unique bus name and
// the handle token, so the match can be installed before the call is made.
type portalRequest struct {
	conn    *dbus.Conn
	token   string
	match   []dbus.MatchOption
	signals chan *dbus.Signal
}

func newPortalRequest(conn *dbus.Conn, token string) (*portalRequest, error) {
	names := conn.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("session bus connection has no unique name")
	}
	path := dbus.ObjectPath(fmt.Sprintf("%s/request/%s/%s", portalObject, senderToToken(names[0]), token))

	r := &portalRequest{
		conn:  conn,
		token: token,
		match: []dbus.MatchOption{
			dbus.WithMatchObjectPath(path),
			dbus.WithMatchInterface(requestIface),
			dbus.WithMatchMember("Response"),
		},
		signals: make(chan *dbus.Signal, 1),
	}
	if err := conn.AddMatchSignal(r.match...); err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", path, err)
	}
	conn.Signal(r.signals)
	return r, nil
}

func (r *portalRequest) close() {
	r.conn.RemoveSignal(r.signals)
	if err := r.conn.RemoveMatchSignal(r.match...); err != nil {
		Logger().Debug("removing portal signal match", "err", err)
	}
}

// waitForResponse returns the results of the first Response signal on ch.
// Signals whose body is not (u, a{sv}) are skipped.
func waitForResponse(ctx context.Context, ch <-chan *dbus.Signal) (map[string]dbus.Variant, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for portal response: %w", ctx.Err())
		case sig, ok := <-ch:
			if !ok || sig == nil {
				return nil, errors.New("session bus closed while waiting for the portal")
			}
			var (
				code    uint32
				results map[string]dbus.Variant
			)
			if err := dbus.Store(sig.Body, &code, &results); err != nil {
				continue
			}
			switch code {
			case 0:
				return results, nil
			case portalCancelled:
				return nil, errPortalCancelled
			default:
				return nil, fmt.Errorf("portal request failed (code %d)", code)
			}
		}
	}
}

var tokenReplacer = strings.NewReplacer(":", "", ".", "_")

// senderToToken turns a unique bus name like ":1.42" into the "1_42" form
// used in request object paths.
func senderToToken(sender string) string {
	return tokenReplacer.Replace(sender)
}

// extractColor converts the (ddd) color of a PickColor response. Each
// channel is a double in [0, 1].
func extractColor(results map[string]dbus.Variant) (ARGB, error) {
	v, ok := results["color"]
	if !ok {
		return ARGB{}, errors.New("no color in PickColor response")
	}

	var channels []interface{}
	switch raw := v.Value().(type) {
	case []interface{}:
		channels = raw
	case [3]float64:
		channels = []interface{}{raw[0], raw[1], raw[2]}
	default:
		return ARGB{}, fmt.Errorf("unexpected color type: %T", v.Value())
	}
	if len(channels) != 3 {
		return ARGB{}, fmt.Errorf("expected 3 color channels, got %d", len(channels))
	}

	var rgb [3]uint8
	for i, ch := range channels {
		f, ok := ch.(float64)
		if !ok {
			return ARGB{}, fmt.Errorf("unexpected channel type: %T", ch)
		}
		rgb[i] = uint8(math.Round(min(max(f, 0), 1) * 255))
	}
	return Opaque(rgb[0], rgb[1], rgb[2]), nil
}
