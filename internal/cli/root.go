package cli

import (
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/julianstephens/vitalcal/internal/config"
	"github.com/julianstephens/vitalcal/internal/entrysync"
	"github.com/julianstephens/vitalcal/internal/keyring"
	"github.com/julianstephens/vitalcal/internal/logger"
	"github.com/julianstephens/vitalcal/internal/utils"
)

type Context struct {
	Config *config.Config
	Client *entrysync.Client
	// Out receives command output; os.Stdout when nil
	Out io.Writer
	// Now is the clock; time.Now when nil
	Now func() time.Time
}

// Stdout returns the writer commands print to
func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Location returns the configured display timezone
func (c *Context) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Config.Display.Timezone)
}

// Today returns today's date (YYYY-MM-DD) in the configured timezone
func (c *Context) Today() (string, error) {
	return utils.GetTodayInTimezone(c.Config.Display.Timezone, c.Now)
}

// TokenSource builds the token lookup order: an explicit token from the
// config or environment first, then the OS keyring when enabled.
func TokenSource(cfg *config.Config) entrysync.TokenSource {
	var chain entrysync.ChainToken
	if cfg.Auth.Token != "" {
		chain = append(chain, entrysync.StaticToken(cfg.Auth.Token))
	}
	if cfg.Auth.UseKeyring {
		chain = append(chain, entrysync.KeyringToken{})
	}
	return chain
}

// SessionID returns the session cookie from the config, falling back to the keyring
func SessionID(cfg *config.Config) string {
	if cfg.Auth.Session != "" || !cfg.Auth.UseKeyring {
		return cfg.Auth.Session
	}
	session, err := keyring.GetSession()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Could not read session from keyring", "error", err)
		}
		return ""
	}
	return session
}

// NewClient builds the journal client described by cfg
func NewClient(cfg *config.Config) (*entrysync.Client, error) {
	return entrysync.NewClient(cfg.Server.URL,
		entrysync.WithHTTPClient(&http.Client{Timeout: cfg.Server.Timeout}),
		entrysync.WithTokenSource(TokenSource(cfg)),
		entrysync.WithTokenField(cfg.Auth.TokenField),
		entrysync.WithSession(SessionID(cfg)),
		entrysync.WithRateLimit(cfg.Server.RequestRate, cfg.Server.RequestBurst),
	)
}
