package entrysync

import (
	"errors"

	"github.com/julianstephens/vitalcal/internal/keyring"
	"github.com/julianstephens/vitalcal/internal/logger"
)

// TokenSource supplies the anti-forgery token sent with every save.
// Implementations return ErrMissingToken when nothing is configured.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a token taken from flags, config or the environment
type StaticToken string

func (s StaticToken) Token() (string, error) {
	if s == "" {
		return "", ErrMissingToken
	}
	return string(s), nil
}

// KeyringToken reads the token stored with 'vitalcal token set'
type KeyringToken struct{}

func (KeyringToken) Token() (string, error) {
	token, err := keyring.GetToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrMissingToken
		}
		return "", err
	}
	return token, nil
}

// ChainToken tries each source in order and returns the first token found
type ChainToken []TokenSource

func (c ChainToken) Token() (string, error) {
	for _, src := range c {
		token, err := src.Token()
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrMissingToken) {
			logger.Warn("token source failed", "error", err)
		}
	}
	return "", ErrMissingToken
}
