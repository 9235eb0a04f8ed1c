// Package keysource provides upstream API key acquisition for the bridge.
//
// Keys can come from the environment, the OS keyring, or a static value. The
// Source interface keeps the proxy agnostic of where credentials live, and the
// keyring backend lets `responsum auth login` persist a key without writing it
// to disk in plain text.
package keysource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// keyringService and keyringUser identify the credential in the OS keyring.
const (
	keyringService = "responsum"
	keyringUser    = "openai-api-key"
)

// ErrNoKey indicates no API key is configured in the selected backend.
var ErrNoKey = errors.New("no API key configured")

// Source yields the upstream API key. Implementations must be safe for
// concurrent use; APIKey is called once per proxied request.
type Source interface {
	APIKey(ctx context.Context) (string, error)
}

// Static wraps a fixed key. Used in tests and for keys passed directly via
// configuration.
type Static string

func (s Static) APIKey(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoKey
	}
	return string(s), nil
}

// Env reads the key from an environment variable on every call, so rotated
// keys are picked up without a restart.
type Env string

func (e Env) APIKey(context.Context) (string, error) {
	key := strings.TrimSpace(os.Getenv(string(e)))
	if key == "" {
		return "", fmt.Errorf("%w: environment variable %s is empty", ErrNoKey, string(e))
	}
	return key, nil
}

// Keyring reads the key from the OS keyring.
type Keyring struct{}

func (Keyring) APIKey(context.Context) (string, error) {
	key, err := keyring.Get(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w: keyring entry missing (run 'responsum auth login')", ErrNoKey)
	}
	if err != nil {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return key, nil
}

// Store writes the key to the OS keyring. An empty key deletes the entry,
// which keeps the storage abstraction symmetric for logout.
func (Keyring) Store(key string) error {
	if key == "" {
		err := keyring.Delete(keyringService, keyringUser)
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return err
	}
	return keyring.Set(keyringService, keyringUser, key)
}
