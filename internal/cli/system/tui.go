package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/vitalcal/internal/cli"
	"github.com/julianstephens/vitalcal/internal/logger"
	"github.com/julianstephens/vitalcal/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	loc, err := ctx.Location()
	if err != nil {
		return err
	}

	model := tui.NewModel(ctx.Client, tui.Options{
		Locale:   ctx.Config.Display.Locale,
		Location: loc,
		Timeout:  ctx.Config.Server.Timeout,
		Now:      ctx.Now,
	})

	logger.Info("Starting TUI", "server", ctx.Client.BaseURL())
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	return nil
}
