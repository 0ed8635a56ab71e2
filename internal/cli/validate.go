package cli

import (
	"fmt"

	"github.com/julianstephens/querylib/internal/validation"
)

type ValidateCmd struct {
	Strict bool `help:"Exit with an error when conflicts are found."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	ctx.println("Validating catalog...")
	result := validation.New().ValidateCatalog(ctx.Catalog)

	ctx.println()
	ctx.println(result.FormatReport())

	if cmd.Strict && result.HasConflicts() {
		return fmt.Errorf("catalog has %d conflicts", len(result.Conflicts))
	}
	return nil
}
