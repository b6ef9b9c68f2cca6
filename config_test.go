package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func setupConfigDir(t *testing.T) {
	t.Helper()
	configDir = t.TempDir()
	t.Cleanup(func() { configDir = "" })
}

func TestLoadConfig_MissingFile(t *testing.T) {
	setupConfigDir(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	setupConfigDir(t)

	want := DefaultConfig()
	want.Scale = 4
	want.Format = "rgb"
	want.Selection = "primary"
	if err := SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	setupConfigDir(t)

	path := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(path, []byte(`{"scale": 6}`), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Scale != 6 || cfg.PreviewSize != 255 || cfg.Format != "hex" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	setupConfigDir(t)

	path := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error for a malformed config")
	}
}

func TestSaveConfig_Permissions(t *testing.T) {
	setupConfigDir(t)
	configDir = filepath.Join(configDir, "nested")

	if err := SaveConfig(DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(configDir, "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600, got %o", perm)
	}
}

func TestParseFlags(t *testing.T) {
	cfg, save, err := ParseFlags(DefaultConfig(), []string{
		"-scale", "4", "-preview-size", "127", "-format", "HEX", "-selection", "clipboard", "-v", "-save",
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if !save {
		t.Error("expected -save to be reported")
	}
	if cfg.Scale != 4 || cfg.PreviewSize != 127 || cfg.Format != "HEX" || cfg.Selection != "clipboard" || !cfg.Verbose {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	if _, _, err := ParseFlags(DefaultConfig(), []string{"-scale", "x"}, io.Discard); err == nil {
		t.Error("expected an error for a bad integer")
	}
	if _, _, err := ParseFlags(DefaultConfig(), []string{"extra"}, io.Discard); err == nil {
		t.Error("expected an error for a positional argument")
	}
	if _, _, err := ParseFlags(DefaultConfig(), []string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"even preview", func(c *Config) { c.PreviewSize = 256 }},
		{"huge preview", func(c *Config) { c.PreviewSize = 65537 }},
		{"scale", func(c *Config) { c.Scale = 1 }},
		{"format", func(c *Config) { c.Format = "cmyk" }},
		{"custom", func(c *Config) { c.Custom = "%{q}" }},
		{"selection", func(c *Config) { c.Selection = "secondary" }},
		{"backend", func(c *Config) { c.Backend = "wayland" }},
		{"interactive", func(c *Config) { c.Interactive = "sometimes" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestConfigFormatter_CustomWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "rgb"
	cfg.Custom = "%{r}/%{g}/%{b}"

	f, err := cfg.Formatter()
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Format(Opaque(1, 2, 3)); got != "1/2/3" {
		t.Errorf("expected custom format, got %q", got)
	}
}
