package main

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

var errNoClipboard = errors.New("no clipboard helper found (install xclip or xsel)")

// clipboardWrite writes text with the clipboard package's helpers.
func clipboardWrite(text string) error {
	if clipboard.Unsupported {
		return errNoClipboard
	}
	return clipboard.WriteAll(text)
}

// Selection names an X selection the picked color can be written to.
type Selection string

const (
	SelectionNone      Selection = ""
	SelectionClipboard Selection = "clipboard"
	SelectionPrimary   Selection = "primary"
)

// ParseSelection validates a selection name. "secondary" is recognised but
// unsupported by the clipboard helpers.
func ParseSelection(name string) (Selection, error) {
	switch Selection(name) {
	case SelectionNone, SelectionClipboard, SelectionPrimary:
		return Selection(name), nil
	case "secondary":
		return "", fmt.Errorf("the secondary selection is not supported")
	}
	return "", fmt.Errorf("unknown selection %q (want clipboard or primary)", name)
}

// SetSelection hands text to the clipboard helper, which keeps owning the
// selection after we exit.
func SetSelection(sel Selection, text string) error {
	if sel == SelectionNone {
		return nil
	}
	if err := writeSelection(sel, text); err != nil {
		return fmt.Errorf("writing %s selection: %w", sel, err)
	}
	return nil
}
