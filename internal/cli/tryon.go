package cli

import (
	"context"

	"github.com/julianstephens/bliss/internal/tryon"
)

type TryOnCmd struct{}

func (c *TryOnCmd) Run(ctx *Context) error {
	msg, err := tryon.New().SendImage(context.Background(), ctx.Client)
	if err != nil {
		return err
	}
	ctx.println(msg)
	return nil
}
