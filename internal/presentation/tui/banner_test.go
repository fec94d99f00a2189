package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestPrintBanner_Ascii(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, termenv.WithProfile(termenv.Ascii))

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no escape sequences with the Ascii profile, got %q", out)
	}
	if got := strings.Count(out, "\n"); got != len(bannerLines)+2 {
		t.Errorf("expected %d lines, got %d", len(bannerLines)+2, got)
	}
}

func TestPrintBanner_Colour(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, termenv.WithProfile(termenv.TrueColor))

	if !strings.Contains(buf.String(), "\x1b[38;2;") {
		t.Errorf("expected truecolor sequences, got %q", buf.String())
	}
}
