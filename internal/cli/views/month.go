package views

import (
	"fmt"

	"github.com/julianstephens/vitalcal/internal/calendar"
	"github.com/julianstephens/vitalcal/internal/cli"
	calview "github.com/julianstephens/vitalcal/internal/tui/components/calendar"
	"github.com/julianstephens/vitalcal/internal/utils"
)

// MonthCmd prints a month grid, either styled for the terminal or as the
// HTML table the journal page uses
type MonthCmd struct {
	Month  string `arg:"" optional:"" help:"Month (YYYY-MM). Defaults to the current month."`
	Select string `help:"Date (YYYY-MM-DD) to mark as selected."`
	HTML   bool   `help:"Print HTML markup instead of a terminal grid."`
}

func (cmd *MonthCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	state, err := calendar.NewState(today)
	if err != nil {
		return err
	}
	if cmd.Month != "" {
		state.ViewYear, state.ViewMonth, err = utils.ParseMonth(cmd.Month)
		if err != nil {
			return err
		}
	}
	if cmd.Select != "" {
		var ok bool
		if state, ok = state.Select(cmd.Select, today); !ok {
			return fmt.Errorf("cannot select %s: not a past day of %s", cmd.Select, state.Header(ctx.Config.Display.Locale))
		}
	}

	grid := state.Grid(today)
	out := ctx.Stdout()
	if cmd.HTML {
		if err := calendar.RenderHTML(out, grid); err != nil {
			return err
		}
		fmt.Fprintln(out)
		return nil
	}

	view := calview.New()
	view.Blur()
	view.SetGrid(grid, state.Header(ctx.Config.Display.Locale))
	fmt.Fprintln(out, view.View())
	return nil
}
