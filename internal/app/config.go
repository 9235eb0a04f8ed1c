package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	toml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tmessner/responsum/internal/keysource"
)

// envPrefix namespaces environment overrides, e.g. RESPONSUM_SERVER__ADDR.
// Double underscores separate nesting levels since single underscores appear
// in key names.
const envPrefix = "RESPONSUM_"

// Config is the application configuration. Values merge in order: built-in
// defaults, optional TOML file, environment variables.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Auth     AuthConfig     `koanf:"auth"`
	Otel     OtelConfig     `koanf:"otel"`
}

// ServerConfig configures the listening HTTP server.
type ServerConfig struct {
	Addr            string `koanf:"addr" validate:"required,hostname_port"`
	MaxRequestBytes int64  `koanf:"max_request_bytes" validate:"gt=0"`
}

// UpstreamConfig configures the Responses API endpoint.
type UpstreamConfig struct {
	// BaseURL overrides the SDK default endpoint. Empty means api.openai.com.
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
}

// AuthConfig selects where the upstream API key comes from.
type AuthConfig struct {
	Storage string `koanf:"storage" validate:"oneof=env keyring"`
	EnvVar  string `koanf:"env_var" validate:"required_if=Storage env"`
}

// OtelConfig configures log export to an OpenTelemetry collector.
type OtelConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Protocol string `koanf:"protocol" validate:"oneof=grpc http stdout"`
}

// NewKeySource builds the key source selected by the auth configuration.
func (c AuthConfig) NewKeySource() (keysource.Source, error) {
	switch c.Storage {
	case "env":
		return keysource.Env(c.EnvVar), nil
	case "keyring":
		return keysource.Keyring{}, nil
	default:
		return nil, fmt.Errorf("unsupported auth storage %q", c.Storage)
	}
}

func defaults() map[string]any {
	return map[string]any{
		"server.addr":              "127.0.0.1:4000",
		"server.max_request_bytes": int64(10 << 20),
		"auth.storage":             "env",
		"auth.env_var":             "OPENAI_API_KEY",
		"otel.enabled":             false,
		"otel.protocol":            "grpc",
	}
}

// LoadConfig loads configuration from defaults, the optional TOML file at
// path, and RESPONSUM_-prefixed environment variables.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return cfg, fmt.Errorf("config file %s does not exist", path)
			}
			return cfg, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			key = strings.ReplaceAll(key, "__", ".")
			return key, value
		},
	}), nil)
	if err != nil {
		return cfg, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
