package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	cfg, save, err := ParseFlags(cfg, args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if save {
		if err := SaveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	}
	if cfg.Verbose {
		SetLogger(newVerboseLogger(stderr))
	}

	format, err := cfg.Formatter()
	if err != nil {
		return err
	}
	sel, err := ParseSelection(cfg.Selection)
	if err != nil {
		return err
	}

	pick, cancel, err := newPicker(cfg)
	if err != nil {
		return err
	}
	defer cancel()

	tui := useTUI(cfg, stdout)
	var (
		color ARGB
		ok    bool
	)
	if tui {
		color, ok, err = runTUI(stdout, pick, cancel, format)
	} else {
		color, ok, err = pick()
	}
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	out := format.Format(color)
	if sel != SelectionNone {
		return SetSelection(sel, out)
	}
	if !tui {
		fmt.Fprintln(stdout, out)
	}
	return nil
}

// newPicker returns the pick function for the configured backend and a
// cancel function that makes a running pick return as cancelled.
func newPicker(cfg Config) (func() (ARGB, bool, error), func(), error) {
	log := Logger()

	if usePortal(cfg) {
		log.Debug("picking through the desktop portal")
		ctx, cancel := context.WithCancel(context.Background())
		return func() (ARGB, bool, error) { return PickColorPortal(ctx) }, cancel, nil
	}

	d, err := OpenX11(cfg.Display)
	if err != nil {
		return nil, nil, err
	}
	capturer, method, err := NewCapturer(cfg.Backend, d)
	if err != nil {
		d.Close()
		return nil, nil, err
	}
	log.Debug("capture backend selected", "method", method)

	tracker := NewTracker(capturer, d, d, d)
	return func() (ARGB, bool, error) { return tracker.Track(cfg.Magnifier()) }, d.Close, nil
}

// usePortal reports whether picking should go through the desktop portal
// rather than an X pointer grab.
func usePortal(cfg Config) bool {
	switch cfg.Backend {
	case BackendPortal:
		return true
	case BackendAuto:
		return cfg.Display == "" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") != ""
	}
	return false
}

func useTUI(cfg Config, stdout io.Writer) bool {
	switch cfg.Interactive {
	case InteractiveAlways:
		return true
	case InteractiveNever:
		return false
	}
	f, ok := stdout.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
