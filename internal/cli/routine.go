package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/bliss/internal/models"
	"github.com/julianstephens/bliss/internal/routine"
)

type RoutineCmd struct {
	List    RoutineListCmd    `cmd:"" help:"List saved routines." default:"1"`
	Add     RoutineAddCmd     `cmd:"" help:"Save a routine from a list of products."`
	Suggest RoutineSuggestCmd `cmd:"" help:"Fetch suggested products for a time of day."`
	Edit    RoutineEditCmd    `cmd:"" help:"Replace the products of a saved routine."`
	Delete  RoutineDeleteCmd  `cmd:"" help:"Delete a saved routine."`
}

func (c *Context) routineBuilder() *routine.Builder {
	return routine.NewBuilder(c.Client.UserID(), c.Config.Routine.PageSize)
}

func parseTimes(s string) ([]models.TimeOfDay, error) {
	if s == "" {
		return models.TimesOfDay, nil
	}
	tod, err := models.ParseTimeOfDay(s)
	if err != nil {
		return nil, err
	}
	return []models.TimeOfDay{tod}, nil
}

type RoutineListCmd struct {
	Time string `help:"Only show this time of day (morning or night)."`
	Page int    `help:"Page to show." default:"1"`
}

func (c *RoutineListCmd) Run(ctx *Context) error {
	times, err := parseTimes(c.Time)
	if err != nil {
		return err
	}
	b := ctx.routineBuilder()
	if err := b.Load(context.Background(), ctx.Client); err != nil {
		return err
	}

	for i, tod := range times {
		if i > 0 {
			ctx.println()
		}
		ctx.printf("%s routines:\n", tod.Title())
		if len(b.Partition(tod)) == 0 {
			ctx.println("  No routines saved")
			continue
		}
		page := b.SetPage(tod, c.Page)
		for _, r := range b.PageItems(tod) {
			ctx.printf("  %s\n", formatRoutine(r))
		}
		ctx.printf("  Page %d of %d\n", page, b.Pages(tod))
	}
	return nil
}

type RoutineAddCmd struct {
	Time     string   `help:"Time of day (morning or night)." required:""`
	Products []string `arg:"" help:"Products in the order they are applied."`
}

func (c *RoutineAddCmd) Run(ctx *Context) error {
	tod, err := models.ParseTimeOfDay(c.Time)
	if err != nil {
		return err
	}
	b := ctx.routineBuilder()
	for _, p := range c.Products {
		b.AddProduct(p, tod)
	}
	saved, err := b.SaveRoutine(context.Background(), ctx.Client, tod)
	if err != nil {
		return err
	}
	ctx.printf("Saved %s\n", formatRoutine(saved))
	return nil
}

type RoutineSuggestCmd struct {
	Time string `help:"Time of day (morning or night)." required:""`
	Save bool   `help:"Save the suggestions as a routine."`
}

func (c *RoutineSuggestCmd) Run(ctx *Context) error {
	tod, err := models.ParseTimeOfDay(c.Time)
	if err != nil {
		return err
	}
	b := ctx.routineBuilder()
	if err := b.GenerateSuggestions(context.Background(), ctx.Client, tod); err != nil {
		return err
	}

	draft := b.Draft(tod)
	if len(draft) == 0 {
		ctx.printf("No suggestions for %s\n", tod)
		return nil
	}
	ctx.printf("Suggested %s routine:\n", tod)
	for i, p := range draft {
		ctx.printf("  %d. %s\n", i+1, p)
	}

	if !c.Save {
		return nil
	}
	saved, err := b.SaveRoutine(context.Background(), ctx.Client, tod)
	if err != nil {
		return err
	}
	ctx.printf("Saved %s\n", formatRoutine(saved))
	return nil
}

type RoutineEditCmd struct {
	ID       string   `arg:"" help:"Routine id."`
	Products []string `arg:"" help:"New products, replacing the current list."`
}

func (c *RoutineEditCmd) Run(ctx *Context) error {
	b := ctx.routineBuilder()
	if err := b.Load(context.Background(), ctx.Client); err != nil {
		return err
	}
	updated, err := b.EditRoutine(context.Background(), ctx.Client, c.ID, c.Products)
	if err != nil {
		return err
	}
	ctx.printf("Updated %s\n", formatRoutine(updated))
	return nil
}

type RoutineDeleteCmd struct {
	ID  string `arg:"" help:"Routine id."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *RoutineDeleteCmd) Run(ctx *Context) error {
	b := ctx.routineBuilder()
	if err := b.Load(context.Background(), ctx.Client); err != nil {
		return err
	}
	r, ok := b.Find(c.ID)
	if !ok {
		ctx.printf("Routine not found: %s\n", c.ID)
		return nil
	}

	if !c.Yes {
		confirmed, err := confirm(fmt.Sprintf("Delete %s routine (%s)?", r.TimeOfDay, strings.Join(r.Products, ", ")))
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.println("Cancelled")
			return nil
		}
	}

	if err := b.DeleteRoutine(context.Background(), ctx.Client, c.ID); err != nil {
		if errors.Is(err, routine.ErrNotFound) {
			ctx.printf("Routine not found: %s\n", c.ID)
			return nil
		}
		return err
	}
	ctx.printf("Deleted routine: %s\n", c.ID)
	return nil
}
