package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/bliss/internal/constants"
	"github.com/julianstephens/bliss/internal/models"
	"github.com/julianstephens/bliss/internal/palette"
	"github.com/julianstephens/bliss/internal/tracker"
)

type TrackerCmd struct {
	List   TrackerListCmd   `cmd:"" help:"List progress entries." default:"1"`
	Submit TrackerSubmitCmd `cmd:"" help:"Record progress and fetch beauty tips."`
	Edit   TrackerEditCmd   `cmd:"" help:"Edit a progress entry and refresh its tips."`
	Delete TrackerDeleteCmd `cmd:"" help:"Delete a progress entry."`
}

// checkOption rejects values missing from the option table
func checkOption(c palette.Category, v string) error {
	if palette.Default().Has(c, v) {
		return nil
	}
	return fmt.Errorf("invalid %s %q (valid: %s)", c, v, strings.Join(palette.Default().Values(c), ", "))
}

func loadTracker(ctx *Context) (*tracker.Tracker, error) {
	t := tracker.New()
	if err := t.Load(context.Background(), ctx.Client); err != nil {
		return nil, err
	}
	return t, nil
}

type TrackerListCmd struct{}

func (c *TrackerListCmd) Run(ctx *Context) error {
	t, err := loadTracker(ctx)
	if err != nil {
		return err
	}
	entries := t.Entries()
	if len(entries) == 0 {
		ctx.println("No progress entries found")
		return nil
	}
	ctx.println("Progress entries:")
	for i, e := range entries {
		ctx.println(formatEntry(i, e))
	}
	return nil
}

type TrackerSubmitCmd struct {
	Mood      string `help:"How you feel." required:""`
	Condition string `help:"Skin condition." required:""`
	Products  string `help:"Product used. Use 'Other' with --custom for anything else." required:""`
	Custom    string `help:"Custom product name when --products is Other."`
	Progress  int    `help:"How long you have used it." default:"1"`
	Unit      string `help:"Unit of --progress (days, weeks or months)." default:"days"`
}

func (c *TrackerSubmitCmd) draft() (tracker.Draft, error) {
	for _, check := range []struct {
		cat palette.Category
		val string
	}{
		{palette.Mood, c.Mood},
		{palette.Condition, c.Condition},
		{palette.Products, c.Products},
	} {
		if err := checkOption(check.cat, check.val); err != nil {
			return tracker.Draft{}, err
		}
	}
	unit, err := models.ParseTimeUnit(c.Unit)
	if err != nil {
		return tracker.Draft{}, err
	}
	if c.Progress < constants.MinProgress {
		return tracker.Draft{}, fmt.Errorf("progress must be at least %d", constants.MinProgress)
	}
	return tracker.Draft{
		Mood:          c.Mood,
		Condition:     c.Condition,
		Product:       c.Products,
		CustomProduct: c.Custom,
		Progress:      models.Progress{Magnitude: c.Progress, Unit: unit},
	}, nil
}

func (c *TrackerSubmitCmd) Run(ctx *Context) error {
	d, err := c.draft()
	if err != nil {
		return err
	}
	t := tracker.New()
	t.SetDraft(d)
	stored, err := t.Submit(context.Background(), ctx.Client)
	if err != nil {
		return err
	}
	ctx.println("Progress saved")
	ctx.println(formatEntry(0, stored))
	return nil
}

// TrackerEditCmd changes only the fields whose flags are given
type TrackerEditCmd struct {
	ID        string  `arg:"" help:"Entry id."`
	Mood      *string `help:"New mood."`
	Condition *string `help:"New skin condition."`
	Products  *string `help:"New product."`
	Custom    *string `help:"New custom product name."`
	Progress  *int    `help:"New progress amount."`
	Unit      *string `help:"New progress unit."`
}

func (c *TrackerEditCmd) apply(d tracker.Draft) (tracker.Draft, error) {
	if c.Mood != nil {
		if err := checkOption(palette.Mood, *c.Mood); err != nil {
			return d, err
		}
		d.Mood = *c.Mood
	}
	if c.Condition != nil {
		if err := checkOption(palette.Condition, *c.Condition); err != nil {
			return d, err
		}
		d.Condition = *c.Condition
	}
	if c.Products != nil {
		if err := checkOption(palette.Products, *c.Products); err != nil {
			return d, err
		}
		d.Product = *c.Products
		if d.Product != constants.OtherProduct {
			d.CustomProduct = ""
		}
	}
	if c.Custom != nil {
		d.Product = constants.OtherProduct
		d.CustomProduct = *c.Custom
	}
	if c.Progress != nil {
		if *c.Progress < constants.MinProgress {
			return d, fmt.Errorf("progress must be at least %d", constants.MinProgress)
		}
		d.Progress.Magnitude = *c.Progress
	}
	if c.Unit != nil {
		unit, err := models.ParseTimeUnit(*c.Unit)
		if err != nil {
			return d, err
		}
		d.Progress.Unit = unit
	}
	return d, nil
}

func (c *TrackerEditCmd) Run(ctx *Context) error {
	t, err := loadTracker(ctx)
	if err != nil {
		return err
	}
	if err := t.Edit(c.ID); err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			return fmt.Errorf("entry not found: %s", c.ID)
		}
		return err
	}
	d, err := c.apply(t.Draft())
	if err != nil {
		return err
	}
	t.SetDraft(d)

	stored, err := t.Submit(context.Background(), ctx.Client)
	if err != nil {
		return err
	}
	ctx.println("Progress updated")
	ctx.println(formatEntry(t.Cursor(), stored))
	return nil
}

type TrackerDeleteCmd struct {
	ID  string `arg:"" help:"Entry id."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *TrackerDeleteCmd) Run(ctx *Context) error {
	t, err := loadTracker(ctx)
	if err != nil {
		return err
	}
	if err := t.PrepareDelete(c.ID); err != nil {
		return fmt.Errorf("entry not found: %s", c.ID)
	}

	if !c.Yes {
		confirmed, err := confirm("Delete this progress entry?")
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.println("Cancelled")
			return nil
		}
	}

	if err := t.Delete(context.Background(), ctx.Client, c.ID); err != nil {
		return err
	}
	ctx.printf("Deleted entry: %s\n", c.ID)
	return nil
}
