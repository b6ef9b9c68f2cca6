package main

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		format Format
		color  ARGB
		want   string
	}{
		{FormatHex, Opaque(0xff, 0x80, 0x0a), "#ff800a"},
		{FormatHexUpper, Opaque(0xff, 0x80, 0x0a), "#FF800A"},
		{FormatHexCompact, Opaque(0xff, 0x00, 0xcc), "#f0c"},
		{FormatHexCompact, Opaque(0xff, 0x80, 0x0a), "#ff800a"},
		{FormatHexUpperC, Opaque(0xaa, 0xbb, 0xcc), "#ABC"},
		{FormatRGB, Opaque(255, 128, 0), "rgb(255, 128, 0)"},
		{FormatPlain, Opaque(255, 128, 0), "255;128;0"},
		{FormatHSL, Opaque(255, 0, 0), "hsl(0, 100%, 50%)"},
		{FormatHSL, Opaque(0, 0, 255), "hsl(240, 100%, 50%)"},
		{FormatHSL, Opaque(255, 255, 255), "hsl(0, 0%, 100%)"},
	}
	for _, tt := range tests {
		if got := tt.format.Format(tt.color); got != tt.want {
			t.Errorf("%s of %v: expected %q, got %q", tt.format, tt.color, tt.want, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"hex", "HEX", "hex!", "HEX!", "rgb", "plain", "hsl"} {
		f, err := ParseFormat(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if string(f) != name {
			t.Errorf("expected %s, got %s", name, f)
		}
	}
	if _, err := ParseFormat("cmyk"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestTemplate(t *testing.T) {
	c := Opaque(255, 10, 0xab)
	tests := []struct {
		template string
		want     string
	}{
		{"%{r}, %{g}, %{b}", "255, 10, 171"},
		{"#%{rx}%{gx}%{bx}", "#ff0aab"},
		{"0x%{rX}%{gX}%{bX}", "0xFF0AAB"},
		{"100%% %{r}", "100% 255"},
		{"no placeholders", "no placeholders"},
		{"", ""},
	}
	for _, tt := range tests {
		tmpl, err := ParseTemplate(tt.template)
		if err != nil {
			t.Errorf("%q: %v", tt.template, err)
			continue
		}
		if got := tmpl.Format(c); got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.template, tt.want, got)
		}
	}
}

func TestTemplate_Errors(t *testing.T) {
	for _, s := range []string{"%{r", "%{a}", "%{}", "%{rz}", "%{rgb}", "50%", "%d"} {
		if _, err := ParseTemplate(s); !errors.Is(err, ErrBadTemplate) {
			t.Errorf("%q: expected ErrBadTemplate, got %v", s, err)
		}
	}
}
