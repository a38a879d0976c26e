// Package console prints summaries and diagnostics for interactive use.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Color selects the accent used for a block of output.
type Color string

const (
	Green  Color = "green"
	Blue   Color = "blue"
	Yellow Color = "yellow"
)

var ansi = map[Color]string{
	Green:  "\x1b[1;32m",
	Blue:   "\x1b[1;34m",
	Yellow: "\x1b[1;33m",
}

const reset = "\x1b[0m"

// Printer writes markdown-ish blocks, coloured when attached to a terminal.
type Printer struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

// New builds a printer for w. Colour is enabled only for terminals.
func New(w io.Writer) *Printer {
	p := &Printer{w: w}
	if f, ok := w.(*os.File); ok {
		p.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

// Print writes an optional "# heading" line followed by content.
func (p *Printer) Print(heading, content string, color Color) {
	if p == nil || p.w == nil {
		return
	}
	var b strings.Builder
	if heading != "" {
		b.WriteString("# ")
		b.WriteString(heading)
		b.WriteString("\n\n")
	}
	b.WriteString(strings.TrimRight(content, "\n"))
	b.WriteString("\n")

	out := b.String()
	if code, ok := ansi[color]; ok && p.color {
		out = code + out + reset
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, out)
}
