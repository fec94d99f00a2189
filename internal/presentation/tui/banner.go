package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"      _        _                         _", "#818cf8"},
	{"  ___| |_ __ _| |_ _____ __ _____ _ _ __| |__ ___", "#a78bfa"},
	{" (_-<  _/ _` |  _/ -_) V  V / _ \\ '_/ / /(_-<", "#c084fc"},
	{" /__/\\__\\__,_|\\__\\___|\\_/\\_/\\___/_| |_\\_\\/__/", "#e879f9"},
}

// PrintBanner writes the stateworks banner to w, coloured when w is a
// terminal that supports it.
func PrintBanner(w io.Writer, opts ...termenv.OutputOption) {
	out := termenv.NewOutput(w, opts...)

	fmt.Fprintln(out)
	for _, l := range bannerLines {
		if out.Profile == termenv.Ascii {
			fmt.Fprintln(out, l.text)
			continue
		}
		fmt.Fprintln(out, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(out)
}
