package chips

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bliss/internal/palette"
)

func TestRowListsEveryOption(t *testing.T) {
	row := Row(palette.Condition, "Dry", 0, true, 0)
	for _, v := range palette.Default().Values(palette.Condition) {
		if !strings.Contains(row, v) {
			t.Errorf("row missing %q", v)
		}
	}
}

func TestRowWraps(t *testing.T) {
	row := Row(palette.Products, "", 0, false, 30)
	lines := strings.Split(row, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected products row to wrap, got %d line(s)", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w > 30 {
			t.Errorf("line %d is %d cells wide", i, w)
		}
	}
}

func TestChip(t *testing.T) {
	if got := Chip(palette.Mood, "Happy"); !strings.Contains(got, "Happy") {
		t.Errorf("Chip = %q", got)
	}
	// unknown values still render, with the fallback colour
	if got := Chip(palette.Products, "Rosehip Oil"); !strings.Contains(got, "Rosehip Oil") {
		t.Errorf("Chip = %q", got)
	}
}
