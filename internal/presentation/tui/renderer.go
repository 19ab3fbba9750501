package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Renderer turns a markdown document into terminal output.
type Renderer func(markdown string) (string, error)

// PlainRenderer returns markdown untouched.
func PlainRenderer(markdown string) (string, error) {
	return markdown, nil
}

// NewRenderer returns a glamour renderer that detects light/dark backgrounds.
// It falls back to plain markdown if glamour cannot be initialised.
func NewRenderer() Renderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return PlainRenderer
	}
	return r.Render
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// RendererFor picks glamour for terminals and plain markdown for pipes and files.
func RendererFor(w io.Writer) Renderer {
	if IsTerminal(w) {
		return NewRenderer()
	}
	return PlainRenderer
}
