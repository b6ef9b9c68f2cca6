package main

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Formatter renders a picked color as text.
type Formatter interface {
	Format(c ARGB) string
}

// Format is one of the built-in output formats.
type Format string

const (
	FormatHex        Format = "hex"
	FormatHexUpper   Format = "HEX"
	FormatHexCompact Format = "hex!"
	FormatHexUpperC  Format = "HEX!"
	FormatRGB        Format = "rgb"
	FormatPlain      Format = "plain"
	FormatHSL        Format = "hsl"
)

var formats = []Format{
	FormatHex, FormatHexUpper, FormatHexCompact, FormatHexUpperC,
	FormatRGB, FormatPlain, FormatHSL,
}

// ParseFormat looks up a built-in format by name.
func ParseFormat(name string) (Format, error) {
	for _, f := range formats {
		if string(f) == name {
			return f, nil
		}
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(names, ", "))
}

func (f Format) Format(c ARGB) string {
	switch f {
	case FormatHexUpper:
		return strings.ToUpper(c.String())
	case FormatHexCompact:
		return compactHex(c)
	case FormatHexUpperC:
		return strings.ToUpper(compactHex(c))
	case FormatRGB:
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	case FormatPlain:
		return fmt.Sprintf("%d;%d;%d", c.R, c.G, c.B)
	case FormatHSL:
		h, s, l := colorful.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		}.Hsl()
		return fmt.Sprintf("hsl(%d, %d%%, %d%%)",
			int(math.Round(h)), int(math.Round(s*100)), int(math.Round(l*100)))
	}
	return c.String()
}

// compactHex uses the three digit form when every channel repeats its nibble.
func compactHex(c ARGB) string {
	short := func(v uint8) bool { return v>>4 == v&0x0f }
	if short(c.R) && short(c.G) && short(c.B) {
		return fmt.Sprintf("#%x%x%x", c.R&0x0f, c.G&0x0f, c.B&0x0f)
	}
	return c.String()
}

// ErrBadTemplate is returned for malformed custom format strings.
var ErrBadTemplate = errors.New("bad format string")

// Template is a user supplied format such as "%{r}, %{g}, %{b}".
//
// Placeholders are %{r}, %{g} and %{b} for decimal channels, with an x or X
// suffix (%{rx}, %{gX}) for two digit hex. %% is a literal percent sign.
type Template struct {
	parts []templatePart
}

type templatePart struct {
	literal string
	channel byte // 'r', 'g', 'b' or 0 for a literal
	verb    string
}

// ParseTemplate compiles a custom format string.
func ParseTemplate(s string) (Template, error) {
	var t Template
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, templatePart{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			lit.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			return Template{}, fmt.Errorf("%w: trailing %%", ErrBadTemplate)
		}
		switch s[i+1] {
		case '%':
			lit.WriteByte('%')
			i++
		case '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				return Template{}, fmt.Errorf("%w: unterminated placeholder at offset %d", ErrBadTemplate, i)
			}
			part, err := parsePlaceholder(s[i+2 : i+2+end])
			if err != nil {
				return Template{}, err
			}
			flush()
			t.parts = append(t.parts, part)
			i += 2 + end
		default:
			return Template{}, fmt.Errorf("%w: unexpected %q after %%", ErrBadTemplate, s[i+1])
		}
	}
	flush()
	return t, nil
}

func parsePlaceholder(p string) (templatePart, error) {
	if len(p) == 0 || len(p) > 2 || !strings.ContainsRune("rgb", rune(p[0])) {
		return templatePart{}, fmt.Errorf("%w: unknown placeholder %%{%s}", ErrBadTemplate, p)
	}
	part := templatePart{channel: p[0], verb: "%d"}
	if len(p) == 2 {
		switch p[1] {
		case 'x':
			part.verb = "%02x"
		case 'X':
			part.verb = "%02X"
		default:
			return templatePart{}, fmt.Errorf("%w: unknown placeholder %%{%s}", ErrBadTemplate, p)
		}
	}
	return part, nil
}

func (t Template) Format(c ARGB) string {
	var b strings.Builder
	for _, p := range t.parts {
		switch p.channel {
		case 'r':
			fmt.Fprintf(&b, p.verb, c.R)
		case 'g':
			fmt.Fprintf(&b, p.verb, c.G)
		case 'b':
			fmt.Fprintf(&b, p.verb, c.B)
		default:
			b.WriteString(p.literal)
		}
	}
	return b.String()
}
