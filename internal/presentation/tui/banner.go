package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Lectern ASCII banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _              _                 ", "#818cf8"},
		{" | |    ___  ___| |_ ___ _ __ _ __ ", "#a78bfa"},
		{" | |   / _ \\/ __| __/ _ \\ '__| '_ \\", "#c084fc"},
		{" | |__|  __/ (__| ||  __/ |  | | | |", "#e879f9"},
		{" |_____\\___|\\___|\\__\\___|_|  |_| |_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, out.String("  v"+version).Faint())
	}
	fmt.Fprintln(w)
}
