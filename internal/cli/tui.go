package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/querylib/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	model := tui.NewModel(tui.Deps{
		Catalog:    ctx.Catalog,
		Pins:       ctx.Pins,
		Favorites:  ctx.Favorites,
		Reconciler: ctx.Reconciler,
		Location:   ctx.Location,
		Now:        ctx.Now,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	return nil
}
