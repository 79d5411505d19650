package entries

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/vitalcal/internal/cli"
	"github.com/julianstephens/vitalcal/internal/entrysync"
	"github.com/julianstephens/vitalcal/internal/logger"
	"github.com/julianstephens/vitalcal/internal/utils"
)

// EntryGetCmd prints the readings stored for a day
type EntryGetCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
	JSON bool   `help:"Print the entry as JSON."`
}

func (cmd *EntryGetCmd) Run(ctx *cli.Context) error {
	date, err := resolveDate(ctx, cmd.Date)
	if err != nil {
		return err
	}

	entry, err := ctx.Client.FetchEntry(context.Background(), date)
	if err != nil {
		return err
	}

	out := ctx.Stdout()
	if cmd.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}

	fmt.Fprintf(out, "Date:           %s\n", date)
	fmt.Fprintf(out, "Blood pressure: %s\n", orDash(entry.BloodPressure))
	fmt.Fprintf(out, "Glucose level:  %s\n", orDash(entry.GlucoseLevel.String()))
	return nil
}

// EntrySaveCmd writes the readings for a day
type EntrySaveCmd struct {
	Date          string `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
	BloodPressure string `name:"bp" required:"" help:"Blood pressure as systolic/diastolic, e.g. 120/80."`
	Glucose       string `name:"glucose" help:"Glucose level."`
}

func (cmd *EntrySaveCmd) Run(ctx *cli.Context) error {
	date, err := resolveDate(ctx, cmd.Date)
	if err != nil {
		return err
	}

	entry := entrysync.Entry{
		BloodPressure: strings.TrimSpace(cmd.BloodPressure),
		GlucoseLevel:  entrysync.GlucoseLevel(strings.TrimSpace(cmd.Glucose)),
	}
	if err := ctx.Client.SaveEntry(context.Background(), date, entry); err != nil {
		return err
	}

	logger.Info("Entry saved", "date", date)
	fmt.Fprintf(ctx.Stdout(), "✓ Entry saved for %s\n", date)
	return nil
}

// resolveDate defaults to today and rejects future dates, which the
// calendar never lets a user pick either.
func resolveDate(ctx *cli.Context, date string) (string, error) {
	today, err := ctx.Today()
	if err != nil {
		return "", err
	}
	if date == "" || date == "today" {
		return today, nil
	}
	if _, err := utils.ParseDate(date); err != nil {
		return "", err
	}
	if date > today {
		return "", fmt.Errorf("date %s is in the future", date)
	}
	return date, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
