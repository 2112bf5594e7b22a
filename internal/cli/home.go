package cli

import (
	"context"

	"github.com/julianstephens/bliss/internal/home"
)

type HomeCmd struct{}

func (c *HomeCmd) Run(ctx *Context) error {
	state := home.Load(context.Background(), ctx.Client)
	if state.Status != home.Loaded {
		ctx.println("No routine saved yet. Build one with 'bliss routine add'.")
		return nil
	}
	ctx.println("Your routine:")
	for _, r := range state.Routines {
		ctx.printf("  %s\n", r.TimeOfDay.Title())
		for i, p := range r.Products {
			ctx.printf("    %d. %s\n", i+1, p)
		}
	}
	return nil
}
