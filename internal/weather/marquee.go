package weather

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// marqueeGap separates the end of the text from its next repetition
const marqueeGap = "     "

// Marquee scrolls a line of text through a fixed-width window
type Marquee struct {
	clusters []string
	widths   []int
	offset   int
}

// NewMarquee splits text into grapheme clusters so emoji with variation
// selectors scroll as one cell group.
func NewMarquee(text string) *Marquee {
	m := &Marquee{}
	if text == "" {
		return m
	}
	g := uniseg.NewGraphemes(text + marqueeGap)
	for g.Next() {
		c := g.Str()
		m.clusters = append(m.clusters, c)
		m.widths = append(m.widths, runewidth.StringWidth(c))
	}
	return m
}

// Tick advances the marquee by one cluster and wraps at the end
func (m *Marquee) Tick() {
	if len(m.clusters) == 0 {
		return
	}
	m.offset = (m.offset + 1) % len(m.clusters)
}

// Offset returns the index of the first visible cluster
func (m *Marquee) Offset() int {
	return m.offset
}

// View renders exactly width cells starting at the current offset
func (m *Marquee) View(width int) string {
	if width <= 0 {
		return ""
	}
	if len(m.clusters) == 0 {
		return strings.Repeat(" ", width)
	}

	var b strings.Builder
	used := 0
	limit := len(m.clusters) * (width + 1)
	for i := 0; used < width && i < limit; i++ {
		idx := (m.offset + i) % len(m.clusters)
		w := m.widths[idx]
		if used+w > width {
			break
		}
		b.WriteString(m.clusters[idx])
		used += w
	}
	if used < width {
		b.WriteString(strings.Repeat(" ", width-used))
	}
	return b.String()
}
