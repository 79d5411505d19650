package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/vitalcal/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested name
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetToken retrieves the anti-forgery token from the OS keyring.
func GetToken() (string, error) {
	return get(constants.KeyringTokenUser)
}

// SetToken stores the anti-forgery token in the OS keyring.
func SetToken(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	return set(constants.KeyringTokenUser, token)
}

// DeleteToken removes the anti-forgery token from the OS keyring.
func DeleteToken() error {
	return del(constants.KeyringTokenUser)
}

// GetSession retrieves the server session cookie value from the OS keyring.
func GetSession() (string, error) {
	return get(constants.KeyringSessionUser)
}

// SetSession stores the server session cookie value in the OS keyring.
func SetSession(session string) error {
	if session == "" {
		return errors.New("session cannot be empty")
	}
	return set(constants.KeyringSessionUser, session)
}

// DeleteSession removes the server session cookie value from the OS keyring.
func DeleteSession() error {
	return del(constants.KeyringSessionUser)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}

func get(user string) (string, error) {
	secret, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func set(user, secret string) error {
	if err := keyring.Set(constants.AppName, user, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", user, err)
	}
	return nil
}

func del(user string) error {
	err := keyring.Delete(constants.AppName, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", user, err)
	}
	return nil
}
