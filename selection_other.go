//go:build !(freebsd || linux || netbsd || openbsd || solaris || dragonfly)

package main

import "errors"

// writeSelection is swapped out in tests.
var writeSelection = func(sel Selection, text string) error {
	if sel == SelectionPrimary {
		return errors.New("the primary selection only exists on X11")
	}
	return clipboardWrite(text)
}
