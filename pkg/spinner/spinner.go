// Package spinner draws a one-line progress indicator on a terminal.
package spinner

import (
	"fmt"
	"io"
)

// Spinner holds the spinner state. It is not safe for concurrent use.
type Spinner struct {
	w      io.Writer
	frames []string
	index  int
}

// NewSpinner creates a spinner writing to w, usually stderr
func NewSpinner(w io.Writer) *Spinner {
	// Braille frames drawing a moving bar
	return &Spinner{
		w: w,
		frames: []string{
			"⣀⣀ ", "⣄⣀ ", "⣤⣀ ", "⣦⣄ ", "⣶⣤ ", "⣿⣦ ", "⣿⣷ ", "⣿⣿ ",
			"⣿⣿ ", "⣷⣿ ", "⣦⣿ ", "⣤⣷ ", "⣄⣦ ", "⣀⣤ ", "⣀⣄ ", "⣀⣀ ",
		},
	}
}

// Update hides the cursor, prints the next frame followed by label and
// advances the animation
func (s *Spinner) Update(label string) {
	fmt.Fprintf(s.w, "\033[?25l\r\033[K%s%s", s.frames[s.index], label)

	s.index++
	if s.index >= len(s.frames) {
		s.index = 0
	}
}

// Cleanup clears the line and shows the cursor
func (s *Spinner) Cleanup() {
	fmt.Fprint(s.w, "\r\033[K\033[?25h")
}
