// File: internal/ui/term.go
// Brief: Internal ui package implementation for 'terminal helpers'.

package ui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Interactive reports whether w is a terminal suitable for in-place
// line rewriting. CI runners keep a pty in some configurations, so the
// GITHUB_ACTIONS marker forces plain step output there.
func Interactive(w io.Writer) bool {
	if os.Getenv("GITHUB_ACTIONS") != "" {
		return false
	}
	type fdProvider interface {
		Fd() uintptr
	}
	v, ok := w.(fdProvider)
	if !ok {
		return false
	}
	return term.IsTerminal(int(v.Fd()))
}
