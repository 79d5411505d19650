package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/vitalcal/internal/cli"
	"github.com/julianstephens/vitalcal/internal/keyring"
)

// TokenSetCmd stores the anti-forgery token (and optionally the session
// cookie) in the OS keyring
type TokenSetCmd struct {
	Token   string `arg:"" optional:"" help:"Anti-forgery token. Prompted for when omitted."`
	Session string `help:"Session cookie value to store alongside the token."`
}

func (cmd *TokenSetCmd) Run(ctx *cli.Context) error {
	token := strings.TrimSpace(cmd.Token)
	if token == "" {
		if err := promptToken(&token); err != nil {
			return err
		}
	}

	if err := keyring.SetToken(token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	fmt.Fprintln(ctx.Stdout(), "✓ Token stored successfully in OS keyring")

	if session := strings.TrimSpace(cmd.Session); session != "" {
		if err := keyring.SetSession(session); err != nil {
			return fmt.Errorf("failed to store session in keyring: %w", err)
		}
		fmt.Fprintln(ctx.Stdout(), "✓ Session stored successfully in OS keyring")
	}
	return nil
}

func promptToken(token *string) error {
	return huh.NewInput().
		Title("Anti-forgery token").
		Description("Copy the csrftoken cookie from a signed-in browser session.").
		EchoMode(huh.EchoModePassword).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("token cannot be empty")
			}
			return nil
		}).
		Value(token).
		Run()
}

// TokenGetCmd prints the stored token, masked unless --reveal is given
type TokenGetCmd struct {
	Reveal bool `help:"Print the token in full."`
}

func (cmd *TokenGetCmd) Run(ctx *cli.Context) error {
	token, err := keyring.GetToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no token found in keyring. Use 'vitalcal token set' to store one")
		}
		return fmt.Errorf("failed to retrieve token from keyring: %w", err)
	}

	if !cmd.Reveal {
		token = maskSecret(token)
	}
	fmt.Fprintln(ctx.Stdout(), token)
	return nil
}

// TokenDeleteCmd removes the token and session from the OS keyring
type TokenDeleteCmd struct{}

func (cmd *TokenDeleteCmd) Run(ctx *cli.Context) error {
	err := keyring.DeleteToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no token found in keyring")
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	if err := keyring.DeleteSession(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete session from keyring: %w", err)
	}

	fmt.Fprintln(ctx.Stdout(), "✓ Token deleted from OS keyring")
	return nil
}

// TokenStatusCmd checks the availability of the OS keyring
type TokenStatusCmd struct{}

func (cmd *TokenStatusCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	if !keyring.IsAvailable() {
		fmt.Fprintln(out, "❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Fprintln(out, "✓ OS keyring is available")

	if _, err := keyring.GetToken(); err == nil {
		fmt.Fprintln(out, "✓ Token is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Fprintln(out, "ℹ No token stored in keyring")
	}
	if _, err := keyring.GetSession(); err == nil {
		fmt.Fprintln(out, "✓ Session is stored in keyring")
	}
	return nil
}

// maskSecret keeps the first four characters
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", 8)
}
