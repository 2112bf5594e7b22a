package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bliss/internal/api"
	"github.com/julianstephens/bliss/internal/config"
	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/models"
)

// Context is passed to every command's Run
type Context struct {
	ConfigPath string
	Config     *config.Config
	Client     *api.Client
	Out        io.Writer
}

// NewContext builds a context printing to stdout
func NewContext(path string, cfg *config.Config) *Context {
	return &Context{
		ConfigPath: path,
		Config:     cfg,
		Client:     api.NewFromConfig(cfg),
		Out:        os.Stdout,
	}
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// confirm asks a yes/no question on the terminal
func confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation: %w", err)
	}
	return ok, nil
}

func formatRoutine(r models.RoutineEntry) string {
	date := ""
	if !r.CreatedAt.IsZero() {
		date = " (" + r.CreatedAt.Local().Format(constants.DateFormat) + ")"
	}
	return fmt.Sprintf("[%s] %s%s: %s", r.ID, r.TimeOfDay.Title(), date, strings.Join(r.Products, ", "))
}

func formatEntry(i int, e models.TrackerEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. [%s] %s", i+1, e.ID, e.Progress)
	if !e.CreatedAt.IsZero() {
		fmt.Fprintf(&b, " on %s", e.CreatedAt.Local().Format(constants.DateFormat))
	}
	fmt.Fprintf(&b, "\n   Mood: %s  Skin: %s  Products: %s", e.Mood, e.Condition, e.Products)
	if e.BeautyTips != "" {
		for line := range strings.SplitSeq(e.BeautyTips, "\n") {
			fmt.Fprintf(&b, "\n   > %s", line)
		}
	}
	return b.String()
}
