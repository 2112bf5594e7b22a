// Package palette holds the option table shared by every tracker form,
// card and chip renderer. The table is built once and never mutated.
package palette

import (
	"github.com/charmbracelet/lipgloss"
)

// Category names a group of selectable options
type Category string

const (
	Mood      Category = "mood"
	Condition Category = "condition"
	Products  Category = "products"
	TimeUnit  Category = "timeUnit"
)

// Categories lists the form categories in display order
var Categories = []Category{Mood, Condition, Products, TimeUnit}

// Option is a selectable value and its accent colour
type Option struct {
	Value string
	Color lipgloss.Color
}

// Table maps category to its ordered options
type Table struct {
	options map[Category][]Option
	index   map[Category]map[string]int
}

var defaultTable = newTable(map[Category][]Option{
	Mood: {
		{"Happy", "#facc15"},
		{"Tired", "#9ca3af"},
		{"Relaxed", "#4ade80"},
		{"Sad", "#60a5fa"},
		{"Excited", "#f87171"},
		{"Anxious", "#fb923c"},
	},
	Condition: {
		{"Dry", "#60a5fa"},
		{"Oily", "#eab308"},
		{"Acne", "#ef4444"},
		{"Normal", "#4ade80"},
	},
	Products: {
		{"Cleanser", "#2dd4bf"},
		{"Serum", "#c084fc"},
		{"Moisturizer", "#f472b6"},
		{"Toner", "#818cf8"},
		{"Sunscreen", "#fdba74"},
		{"Hydrating Serum", "#93c5fd"},
		{"Face Wash", "#bef264"},
		{"Exfoliating Scrub", "#fda4af"},
		{"anti-aging cream", "#6ee7b7"},
		{"vitamin c serum", "#67e8f9"},
		{"retinol cream", "#c4b5fd"},
		{"eye cream", "#f0abfc"},
		{"no products", "#6b7280"},
		{"Other", "#e5e7eb"},
	},
	TimeUnit: {
		{"days", "#d1d5db"},
		{"weeks", "#86efac"},
		{"months", "#93c5fd"},
	},
})

// Fallback is used for values missing from the table
const Fallback = lipgloss.Color("#f3f4f6")

// Default returns the shared table
func Default() *Table {
	return defaultTable
}

func newTable(opts map[Category][]Option) *Table {
	t := &Table{
		options: opts,
		index:   make(map[Category]map[string]int, len(opts)),
	}
	for c, list := range opts {
		idx := make(map[string]int, len(list))
		for i, o := range list {
			idx[o.Value] = i
		}
		t.index[c] = idx
	}
	return t
}

// Options returns a copy of the options for c
func (t *Table) Options(c Category) []Option {
	return append([]Option(nil), t.options[c]...)
}

// Values returns the option values for c in order
func (t *Table) Values(c Category) []string {
	list := t.options[c]
	values := make([]string, len(list))
	for i, o := range list {
		values[i] = o.Value
	}
	return values
}

// Has reports whether value is a known option of c
func (t *Table) Has(c Category, value string) bool {
	_, ok := t.index[c][value]
	return ok
}

// Index returns the position of value in c, or -1
func (t *Table) Index(c Category, value string) int {
	if i, ok := t.index[c][value]; ok {
		return i
	}
	return -1
}

// Color returns the accent colour of value, or Fallback
func (t *Table) Color(c Category, value string) lipgloss.Color {
	if i, ok := t.index[c][value]; ok {
		return t.options[c][i].Color
	}
	return Fallback
}
