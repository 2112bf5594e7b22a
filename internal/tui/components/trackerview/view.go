package trackerview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/palette"
	"github.com/julianstephens/bliss/internal/session"
	"github.com/julianstephens/bliss/internal/tracker"
	"github.com/julianstephens/bliss/internal/tui/components/chips"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c084fc")).Bold(true)
	focusStyle   = labelStyle.Foreground(lipgloss.Color("205"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	editingTag   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	counterStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#db2777")).
			Padding(0, 2).
			Bold(true)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#4ade80")).
			Padding(0, 1)
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Progress Tracker"))
	b.WriteString("\n")

	if m.confirm != nil {
		b.WriteString(m.confirm.form.View())
		return b.String()
	}

	left, right := m.columns()
	if m.banner != "" {
		b.WriteString(m.viewBanner(left + right))
		b.WriteString("\n")
	}

	form := lipgloss.NewStyle().Width(left).PaddingRight(2).Render(m.viewForm(left - 2))
	side := lipgloss.JoinVertical(lipgloss.Left, m.viewCard(right), m.weather.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, form, side))
	return b.String()
}

func (m Model) label(r row, text string) string {
	if r == m.row {
		return focusStyle.Render("› " + text)
	}
	return labelStyle.Render("  " + text)
}

func (m Model) viewForm(width int) string {
	d := m.t.Draft()
	var b strings.Builder

	if m.t.Mode() == tracker.EditingExisting {
		b.WriteString(editingTag.Render("Editing entry (esc to cancel)"))
		b.WriteString("\n")
	}

	for _, r := range []struct {
		row   row
		title string
		value string
	}{
		{rowMood, "How do you feel?", d.Mood},
		{rowCondition, "Skin Condition", d.Condition},
		{rowProduct, "Products Used", d.Product},
	} {
		c := rowCategory[r.row]
		b.WriteString(m.label(r.row, r.title))
		b.WriteString("\n")
		b.WriteString(chips.Row(c, r.value, m.cursors[c], m.row == r.row, width))
		b.WriteString("\n\n")
	}

	if d.Product == constants.OtherProduct {
		b.WriteString(m.label(rowCustom, "Custom product"))
		b.WriteString("\n  ")
		b.WriteString(m.custom.View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.label(rowProgress, "Duration"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  - %s +", counterStyle.Render(fmt.Sprint(d.Progress.Magnitude))))
	b.WriteString("\n\n")

	b.WriteString(m.label(rowUnit, "Time unit"))
	b.WriteString("\n")
	b.WriteString(chips.Row(palette.TimeUnit, string(d.Progress.Unit), m.cursors[palette.TimeUnit], m.row == rowUnit, width))
	b.WriteString("\n\n")

	text := "Submit Progress"
	if m.t.Mode() == tracker.EditingExisting || (m.pending() && m.t.EditingID() != "") {
		text = "Update Progress"
	}
	marker := "  "
	if m.row == rowSubmit {
		marker = focusStyle.Render("› ")
	}
	switch {
	case m.pending():
		b.WriteString(marker + disabledButtonStyle.Render(m.spinner.View()+" Saving..."))
	case !d.Ready():
		b.WriteString(marker + disabledButtonStyle.Render(text))
	default:
		b.WriteString(marker + buttonStyle.Render(text))
	}
	return b.String()
}

func (m Model) viewCard(width int) string {
	inner := max(width-cardStyle.GetHorizontalFrameSize(), 10)
	entries := m.t.Entries()
	cur, ok := m.t.Current()
	if !ok {
		return cardStyle.
			BorderForeground(lipgloss.Color("240")).
			Width(inner).
			Render(mutedStyle.Render("No entries yet. Submit your first progress entry."))
	}

	var b strings.Builder
	header := fmt.Sprintf("Tip %d of %d", m.t.Cursor()+1, len(entries))
	if !cur.CreatedAt.IsZero() {
		header += " · " + cur.CreatedAt.Local().Format(constants.DateFormat)
	}
	b.WriteString(labelStyle.Render(header))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Mood: %s\n", chips.Chip(palette.Mood, cur.Mood))
	fmt.Fprintf(&b, "Skin Condition: %s\n", chips.Chip(palette.Condition, cur.Condition))
	fmt.Fprintf(&b, "Products Used: %s\n", chips.Chip(palette.Products, cur.Products))
	fmt.Fprintf(&b, "Duration: %s\n\n", cur.Progress)
	b.WriteString(m.tips.View())

	if m.t.Guard().Pending(session.ActionDelete) {
		b.WriteString("\n" + m.spinner.View() + " Deleting...")
	}
	return cardStyle.
		BorderForeground(palette.Default().Color(palette.Mood, cur.Mood)).
		Width(inner).
		Render(b.String())
}

func (m Model) viewBanner(width int) string {
	inner := max(width-bannerStyle.GetHorizontalFrameSize(), 10)
	body := labelStyle.Render("Your beauty tips") + "\n" + m.banner + "\n" + mutedStyle.Render("esc to dismiss")
	return bannerStyle.Width(inner).Render(body)
}
