package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/julianstephens/vitalcal/internal/constants"
	"github.com/julianstephens/vitalcal/internal/utils"
)

// Config holds the client configuration
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Auth    AuthConfig    `koanf:"auth"`
	Display DisplayConfig `koanf:"display"`
	Debug   bool          `koanf:"debug"`

	// Dir is the directory holding the config file and logs
	Dir string `koanf:"-"`
}

// ServerConfig describes how to reach the journal server
type ServerConfig struct {
	URL          string        `koanf:"url"`
	Timeout      time.Duration `koanf:"timeout"`
	RequestRate  float64       `koanf:"request_rate"`
	RequestBurst int           `koanf:"request_burst"`
}

// AuthConfig holds the anti-forgery token settings. Token and Session are
// normally kept in the OS keyring; the fields here override it.
type AuthConfig struct {
	Token      string `koanf:"token"`
	Session    string `koanf:"session"`
	TokenField string `koanf:"token_field"`
	UseKeyring bool   `koanf:"use_keyring"`
}

// DisplayConfig controls how dates are shown
type DisplayConfig struct {
	Locale   string `koanf:"locale"`
	Timezone string `koanf:"timezone"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.url":           constants.DefaultServerURL,
		"server.timeout":       constants.DefaultRequestTimeout.String(),
		"server.request_rate":  constants.DefaultRequestRate,
		"server.request_burst": constants.DefaultRequestBurst,
		"auth.token_field":     constants.DefaultTokenField,
		"auth.use_keyring":     true,
		"display.locale":       "",
		"display.timezone":     "Local",
		"debug":                false,
	}
}

// Load reads defaults, the TOML config file at path (if present), a .env file
// in the working directory (if present) and VITALCAL_* environment variables,
// in that order of precedence.
func Load(path string) (*Config, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
	}

	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        constants.EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Dir = filepath.Dir(path)

	if cfg.Display.Locale == "" {
		cfg.Display.Locale = LocaleFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps VITALCAL_SERVER_REQUEST_RATE to server.request_rate. Only the
// first underscore separates the section from the key.
func envKey(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, constants.EnvPrefix))
	return strings.Replace(key, "_", ".", 1), value
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.Server.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url %q must use http or https", c.Server.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("server url %q has no host", c.Server.URL)
	}

	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive")
	}
	if c.Server.RequestRate <= 0 {
		return fmt.Errorf("request rate must be positive")
	}
	if c.Server.RequestBurst < 1 {
		return fmt.Errorf("request burst must be at least 1")
	}

	if strings.TrimSpace(c.Auth.TokenField) == "" {
		return fmt.Errorf("token field name cannot be empty")
	}

	if !utils.ValidateTimezone(c.Display.Timezone) {
		return fmt.Errorf("invalid timezone: %s", c.Display.Timezone)
	}
	if !IsSupportedLocale(c.Display.Locale) {
		return fmt.Errorf("unsupported locale: %s", c.Display.Locale)
	}

	return nil
}

// IsSupportedLocale reports whether month names are available for locale
func IsSupportedLocale(locale string) bool {
	for _, l := range monday.ListLocales() {
		if string(l) == locale {
			return true
		}
	}
	return false
}

// LocaleFromEnv derives a locale such as "de_DE" from LC_ALL, LC_TIME or
// LANG, falling back to en_US when none of them names a supported locale.
func LocaleFromEnv() string {
	for _, name := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if IsSupportedLocale(v) {
			return v
		}
	}
	return constants.DefaultLocale
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(constants.DefaultConfigDir, constants.DefaultConfigFile)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
