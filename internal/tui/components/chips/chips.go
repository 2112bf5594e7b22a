// Package chips renders palette options as coloured selectable chips.
package chips

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bliss/internal/palette"
)

var (
	chipStyle = lipgloss.NewStyle().Padding(0, 1)
	inkColor  = lipgloss.Color("#111827")
)

// Chip renders a single filled chip in value's colour
func Chip(c palette.Category, value string) string {
	return chipStyle.
		Foreground(inkColor).
		Background(palette.Default().Color(c, value)).
		Render(value)
}

// Row renders every option of c. The selected value is filled, the cursor
// chip is underlined while focused, and chips wrap at width.
func Row(c palette.Category, selected string, cursor int, focused bool, width int) string {
	opts := palette.Default().Options(c)
	rendered := make([]string, len(opts))
	for i, o := range opts {
		style := chipStyle.Foreground(o.Color)
		if o.Value == selected {
			style = chipStyle.Foreground(inkColor).Background(o.Color).Bold(true)
		}
		if focused && i == cursor {
			style = style.Underline(true)
		}
		rendered[i] = style.Render(o.Value)
	}
	return wrap(rendered, width)
}

func wrap(items []string, width int) string {
	if width <= 0 {
		return strings.Join(items, " ")
	}
	var (
		lines []string
		line  []string
		used  int
	)
	for _, it := range items {
		w := lipgloss.Width(it)
		if len(line) > 0 && used+1+w > width {
			lines = append(lines, strings.Join(line, " "))
			line, used = nil, 0
		}
		if len(line) > 0 {
			used++
		}
		line = append(line, it)
		used += w
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return strings.Join(lines, "\n")
}
