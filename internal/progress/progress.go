// Package progress draws progress lines for long ingests and flushes.
// Everything goes to stderr so stdout stays pipeable, and nothing is drawn
// unless stderr is a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// minItems is the smallest total worth drawing a counter for.
const minItems = 5

// clearWidth is how many columns Done and Stop blank out.
const clearWidth = 60

// Progress counts completed items out of a known total.
type Progress struct {
	w       io.Writer
	label   string
	total   int
	current int
	isTTY   bool
}

// New returns a counter on stderr. Totals below minItems stay silent.
func New(label string, total int) *Progress {
	return NewWriter(os.Stderr, isTerminal(os.Stderr), label, total)
}

// NewWriter returns a counter on w; tty selects in-place redraws.
func NewWriter(w io.Writer, tty bool, label string, total int) *Progress {
	return &Progress{w: w, label: label, total: total, isTTY: tty}
}

// Increment advances the counter by one.
func (p *Progress) Increment() {
	p.current++
}

// Print redraws the counter line in place.
func (p *Progress) Print() {
	if p.total < minItems || !p.isTTY {
		return
	}
	fmt.Fprintf(p.w, "\r%s... %d/%d (%d%%)", p.label, p.current, p.total, p.current*100/p.total)
}

// Done blanks the counter line so the final output starts clean.
func (p *Progress) Done() {
	if p.total < minItems || !p.isTTY {
		return
	}
	clear(p.w)
}

// Spinner shows activity while the amount of work is still unknown, such
// as the directory walk that precedes an ingest.
type Spinner struct {
	w       io.Writer
	label   string
	frame   int
	isTTY   bool
	running bool
}

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner returns a spinner on stderr.
func NewSpinner(label string) *Spinner {
	return &Spinner{w: os.Stderr, label: label, isTTY: isTerminal(os.Stderr)}
}

// Start draws the first frame.
func (s *Spinner) Start() {
	if !s.isTTY {
		return
	}
	s.running = true
	fmt.Fprintf(s.w, "%s %s...", frames[0], s.label)
}

// Tick advances the animation by one frame.
func (s *Spinner) Tick() {
	if !s.running {
		return
	}
	s.frame = (s.frame + 1) % len(frames)
	fmt.Fprintf(s.w, "\r%s %s...", frames[s.frame], s.label)
}

// Stop blanks the spinner line.
func (s *Spinner) Stop() {
	if !s.running {
		return
	}
	s.running = false
	clear(s.w)
}

func clear(w io.Writer) {
	fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", clearWidth))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
