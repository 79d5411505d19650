package system

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/julianstephens/vitalcal/internal/cli"
	"github.com/julianstephens/vitalcal/internal/config"
	"github.com/julianstephens/vitalcal/internal/keyring"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	fmt.Fprintln(out, "Running diagnostics...")
	fmt.Fprintln(out)

	hasError := false

	// Check 1: config valid
	if err := ctx.Config.Validate(); err != nil {
		fail(out, "Configuration", err)
		hasError = true
	} else {
		fmt.Fprintf(out, "✓ Configuration: OK (%s)\n", ctx.Config.Dir)
	}

	// Check 2: Clock/timezone sanity
	if today, err := ctx.Today(); err != nil {
		fail(out, "Clock/timezone", err)
		hasError = true
	} else {
		fmt.Fprintf(out, "✓ Clock/timezone: OK (today is %s)\n", today)
	}

	// Check 3: Locale (warning only, month names fall back to English)
	if !config.IsSupportedLocale(ctx.Config.Display.Locale) {
		fmt.Fprintf(out, "⚠ Locale: WARNING\n")
		fmt.Fprintf(out, "   %q is not supported, month names will be in English\n", ctx.Config.Display.Locale)
	} else {
		fmt.Fprintf(out, "✓ Locale: OK (%s)\n", ctx.Config.Display.Locale)
	}

	// Check 4: Keyring (warning only)
	if !ctx.Config.Auth.UseKeyring {
		fmt.Fprintf(out, "⊘ OS keyring: SKIPPED (disabled in config)\n")
	} else if !keyring.IsAvailable() {
		fmt.Fprintf(out, "⚠ OS keyring: WARNING\n")
		fmt.Fprintf(out, "   keyring is not available, set auth.token in the config instead\n")
	} else {
		fmt.Fprintf(out, "✓ OS keyring: OK\n")
	}

	// Check 5: Token (warning only, loading works without one)
	if _, err := cli.TokenSource(ctx.Config).Token(); err != nil {
		fmt.Fprintf(out, "⚠ Anti-forgery token: WARNING\n")
		fmt.Fprintf(out, "   %v, saving entries will fail\n", err)
	} else {
		fmt.Fprintf(out, "✓ Anti-forgery token: OK\n")
	}

	// Check 6: Server reachable
	if ctx.Client == nil {
		fmt.Fprintf(out, "⊘ Server reachable: SKIPPED (no client)\n")
	} else if err := ctx.Client.Ping(context.Background()); err != nil {
		fail(out, "Server reachable", err)
		hasError = true
	} else {
		fmt.Fprintf(out, "✓ Server reachable: OK (%s)\n", ctx.Client.BaseURL())
	}

	fmt.Fprintln(out)
	if hasError {
		fmt.Fprintln(out, "Some checks failed.")
		return errors.New("doctor found problems")
	}
	fmt.Fprintln(out, "All checks passed.")
	return nil
}

func fail(out io.Writer, check string, err error) {
	fmt.Fprintf(out, "❌ %s: FAIL\n", check)
	fmt.Fprintf(out, "   Error: %v\n", err)
}
