package cli

import (
	"fmt"

	"github.com/julianstephens/querylib/internal/config"
)

type InitCmd struct {
	Force bool `help:"Rewrite the config with defaults and clear saved pins and favorites."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		if err := config.Save(ctx.ConfigPath, config.DefaultConfig()); err != nil {
			return fmt.Errorf("failed to reset config: %w", err)
		}
		if err := ctx.Pins.Reset(); err != nil {
			return fmt.Errorf("failed to reset pinned folders: %w", err)
		}
		if err := ctx.Favorites.Reset(); err != nil {
			return fmt.Errorf("failed to reset favorites: %w", err)
		}
	}
	ctx.printf("Initialized querylib config at: %s\n", ctx.ConfigPath)
	ctx.printf("Preference store: %s\n", ctx.Store.GetConfigPath())
	return nil
}
