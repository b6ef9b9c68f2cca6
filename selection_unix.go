//go:build freebsd || linux || netbsd || openbsd || solaris || dragonfly

package main

import "github.com/atotto/clipboard"

// writeSelection is swapped out in tests.
var writeSelection = func(sel Selection, text string) error {
	clipboard.Primary = sel == SelectionPrimary
	return clipboardWrite(text)
}
