package routineview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/models"
	"github.com/julianstephens/bliss/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).MarginBottom(1)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeColumnStyle = columnStyle.BorderForeground(lipgloss.Color("205"))

	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#f472b6")).Bold(true)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#c084fc")).Bold(true)
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	activeDotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	inactiveDotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var pendingLabels = []struct {
	action session.Action
	label  string
}{
	{session.ActionSuggest, "Fetching suggestions..."},
	{session.ActionSave, "Saving routine..."},
	{session.ActionEdit, "Updating routine..."},
	{session.ActionDelete, "Deleting routine..."},
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Routine Builder"))
	b.WriteString("\n")

	switch {
	case m.edit != nil:
		b.WriteString(m.edit.form.View())
		return b.String()
	case m.confirm != nil:
		b.WriteString(m.confirm.form.View())
		return b.String()
	}

	colWidth := max((m.width-4)/2-columnStyle.GetHorizontalFrameSize(), 28)
	cols := make([]string, 0, len(models.TimesOfDay))
	for _, tod := range models.TimesOfDay {
		style := columnStyle
		if tod == m.tod {
			style = activeColumnStyle
		}
		cols = append(cols, style.Width(colWidth).Render(m.viewColumn(tod)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))

	for _, p := range pendingLabels {
		if m.guard().Pending(p.action) {
			b.WriteString("\n" + m.spinner.View() + " " + p.label)
		}
	}
	return b.String()
}

func (m Model) viewColumn(tod models.TimeOfDay) string {
	active := tod == m.tod
	var b strings.Builder
	b.WriteString(headerStyle.Render(tod.Title() + " routine"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Draft"))
	b.WriteString("\n")
	draft := m.b.Draft(tod)
	if len(draft) == 0 && !(active && m.adding) {
		b.WriteString(mutedStyle.Render("  No products yet. Press a to add or g for suggestions."))
		b.WriteString("\n")
	}
	for i, p := range draft {
		b.WriteString(marker(active && m.zone == draftZone && i == m.draftCursor))
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, p))
	}
	if active && m.adding {
		b.WriteString("  " + m.input.View() + "\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Saved"))
	b.WriteString("\n")
	items := m.b.PageItems(tod)
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("  No routines saved"))
		b.WriteString("\n")
	}
	for i, r := range items {
		b.WriteString(marker(active && m.zone == savedZone && i == m.savedCursor))
		date := ""
		if !r.CreatedAt.IsZero() {
			date = r.CreatedAt.Local().Format(constants.DateFormat) + " "
		}
		b.WriteString(mutedStyle.Render(date) + strings.Join(r.Products, ", ") + "\n")
	}

	pager := m.pager
	pager.TotalPages = m.b.Pages(tod)
	pager.Page = m.b.Page(tod) - 1
	b.WriteString(fmt.Sprintf("\n%s  page %d of %d", pager.View(), m.b.Page(tod), m.b.Pages(tod)))
	return b.String()
}

func marker(on bool) string {
	if on {
		return cursorStyle.Render("› ")
	}
	return "  "
}
