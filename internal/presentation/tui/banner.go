package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Stepwise banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"     _                        _          ", "#38bdf8"},
		{" ___| |_ ___ _ __ __      __ (_)___  ___ ", "#22d3ee"},
		{"/ __| __/ _ \\ '_ \\\\ \\ /\\ / / | / __|/ _ \\", "#2dd4bf"},
		{"\\__ \\ ||  __/ |_) |\\ V  V /  | \\__ \\  __/", "#34d399"},
		{"|___/\\__\\___| .__/  \\_/\\_/   |_|___/\\___|", "#4ade80"},
		{"            |_|                          ", "#a3e635"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  step through algorithms, one frame at a time  v"+version).Faint())
	fmt.Fprintln(w)
}
