package cli

import (
	"fmt"

	"github.com/julianstephens/streaks/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	data, err := ctx.Store.Load()
	if err != nil {
		return fmt.Errorf("failed to load streaks: %w", err)
	}

	ctx.printf("Validating %d streaks in %s...\n\n", len(data), ctx.Store.GetConfigPath())
	result := validation.New(ctx.today()).ValidateStreaks(data)
	ctx.printf("%s\n", result.FormatReport())

	return nil
}
