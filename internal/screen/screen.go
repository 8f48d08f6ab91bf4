// Package screen owns the terminal the status table is printed to.
package screen

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// clearSequence homes the cursor, clears the display and the scrollback.
const clearSequence = "\x1b[H\x1b[2J\x1b[3J"

// Screen writes frames to an output, clearing it between frames when it is a terminal.
type Screen struct {
	out   io.Writer
	clear bool
}

// New returns a screen on out. Clearing happens only when enabled and out is a terminal,
// so piping the output to a file yields a plain log of frames.
func New(out io.Writer, enabled bool) *Screen {
	return &Screen{out: out, clear: enabled && IsTerminal(out)}
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Clear erases the display if clearing is enabled.
func (s *Screen) Clear() error {
	if !s.clear {
		return nil
	}

	_, err := io.WriteString(s.out, clearSequence)
	return err
}

// Write implements io.Writer.
func (s *Screen) Write(p []byte) (int, error) {
	return s.out.Write(p)
}
