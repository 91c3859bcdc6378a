//go:build unix

package core

import (
	"fmt"
	"os"
	"runtime/debug"
)

// emergencyReset is the last-resort terminal recovery for a crash that
// happens before any tcell.Screen was ever registered via
// RegisterCrashTerminal (e.g. during screen.Init() itself). It writes
// the raw ANSI sequences tcell's own Fini would have issued: leave
// alternate screen, disable mouse reporting, show the cursor, reset
// SGR attributes.
func emergencyReset(w *os.File) {
	fmt.Fprint(w, "\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l\x1b[?25h\x1b[0m\x1b[?1049l")
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	// Terminal cleanup if available
	if crashTerminal != nil {
		crashTerminal.Fini()
	} else {
		emergencyReset(os.Stdout)
	}

	fmt.Fprintf(os.Stderr, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())

	os.Exit(1)
}