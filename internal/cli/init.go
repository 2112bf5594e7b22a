package cli

import (
	"github.com/julianstephens/bliss/internal/config"
)

type InitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

func (c *InitCmd) Run(ctx *Context) error {
	path, err := config.ExpandPath(ctx.ConfigPath)
	if err != nil {
		return err
	}
	if err := config.Init(path, config.Default(), c.Force); err != nil {
		return err
	}
	ctx.printf("Initialized bliss config at: %s\n", path)
	return nil
}
