package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Capture and pick backends.
const (
	BackendAuto       = "auto"
	BackendX11        = "x11"
	BackendScreenshot = "screenshot"
	BackendPortal     = "portal"
)

// Interactive modes.
const (
	InteractiveAuto   = "auto"
	InteractiveAlways = "always"
	InteractiveNever  = "never"
)

// Config holds the user's settings.
type Config struct {
	PreviewSize int    `json:"preview_size"`
	Scale       int    `json:"scale"`
	Format      string `json:"format"`
	Custom      string `json:"custom,omitempty"`
	Selection   string `json:"selection,omitempty"`
	Backend     string `json:"backend"`
	Display     string `json:"display,omitempty"`
	Interactive string `json:"interactive"`
	Verbose     bool   `json:"-"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		PreviewSize: 255,
		Scale:       8,
		Format:      string(FormatHex),
		Backend:     BackendAuto,
		Interactive: InteractiveAuto,
	}
}

// configDir overrides the default config directory for testing.
// When empty, the user's config directory is used.
var configDir string

func configPath() (string, error) {
	if configDir != "" {
		return filepath.Join(configDir, "config.json"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pixelpick", "config.json"), nil
}

// LoadConfig reads the config file over the defaults. A missing file is
// not an error.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path, err := configPath()
	if err != nil {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to the config file, creating its directory with
// 0700 if needed.
func SaveConfig(cfg Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ParseFlags applies command line flags on top of cfg. It reports whether
// the resulting config should be saved as the new defaults.
func ParseFlags(cfg Config, args []string, stderr io.Writer) (Config, bool, error) {
	fs := flag.NewFlagSet("pixelpick", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.IntVar(&cfg.PreviewSize, "preview-size", cfg.PreviewSize, "width of the magnifier cursor in pixels (odd)")
	fs.IntVar(&cfg.Scale, "scale", cfg.Scale, "zoom factor of the magnifier")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: hex, HEX, hex!, HEX!, rgb, plain, hsl")
	fs.StringVar(&cfg.Custom, "custom", cfg.Custom, "custom output format, e.g. '%{r}, %{g}, %{b}'")
	fs.StringVar(&cfg.Selection, "selection", cfg.Selection, "write the color to a selection (clipboard, primary) instead of stdout")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "backend: auto, x11, screenshot, portal")
	fs.StringVar(&cfg.Display, "display", cfg.Display, "X display to connect to (default $DISPLAY)")
	fs.StringVar(&cfg.Interactive, "interactive", cfg.Interactive, "terminal UI: auto, always, never")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log debug output to stderr")
	save := fs.Bool("save", false, "save these settings as the defaults")

	if err := fs.Parse(args); err != nil {
		return cfg, false, err
	}
	if fs.NArg() > 0 {
		return cfg, false, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg, *save, nil
}

// Validate checks every field and returns the first problem.
func (c Config) Validate() error {
	if err := c.Magnifier().Validate(); err != nil {
		return err
	}
	if _, err := c.Formatter(); err != nil {
		return err
	}
	if _, err := ParseSelection(c.Selection); err != nil {
		return err
	}
	switch c.Backend {
	case BackendAuto, BackendX11, BackendScreenshot, BackendPortal:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Interactive {
	case InteractiveAuto, InteractiveAlways, InteractiveNever:
	default:
		return fmt.Errorf("unknown interactive mode %q", c.Interactive)
	}
	return nil
}

// Magnifier returns the preview geometry.
func (c Config) Magnifier() MagnifierConfig {
	return MagnifierConfig{PreviewSize: c.PreviewSize, Scale: c.Scale}
}

// Formatter returns the custom template when set, else the named format.
func (c Config) Formatter() (Formatter, error) {
	if c.Custom != "" {
		return ParseTemplate(c.Custom)
	}
	return ParseFormat(c.Format)
}
