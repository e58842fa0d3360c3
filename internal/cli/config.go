package cli

import (
	"github.com/julianstephens/streaks/internal/config"
)

type ConfigCmd struct {
	Path bool `help:"Print only the config file location."`
}

func (c *ConfigCmd) Run(ctx *Context) error {
	path := ctx.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	if c.Path {
		ctx.printf("%s\n", path)
		return nil
	}

	data, err := ctx.Config.Encode()
	if err != nil {
		return err
	}
	ctx.printf("# %s\n%s", path, data)
	return nil
}
