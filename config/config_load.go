package config

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "JULIETH_"

// secrets are the values that can be given through the environment instead of
// the config file. Set variables win over the file.
type secrets struct {
	SessionHashKey     string `env:"SESSION_HASH_KEY"`
	SessionBlockKey    string `env:"SESSION_BLOCK_KEY"`
	TokenSecret        string `env:"TOKEN_SECRET"`
	ToolkitAPIKey      string `env:"TOOLKIT_API_KEY"`
	GoogleClientID     string `env:"OAUTH2_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"OAUTH2_GOOGLE_CLIENT_SECRET"`
	PostgresDSN        string `env:"POSTGRES_DSN"`
	MinioAccessKey     string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey     string `env:"MINIO_SECRET_KEY"`
	Addr               string `env:"ADDR"`
}

// Load reads the TOML file at path over the defaults, applies the environment
// and validates the result. An empty path loads the defaults only.
func Load(path string, logger *slog.Logger) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			logger.Warn("config: unknown key", "key", key.String(), "file", path)
		}
		cfg.Source = path
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	logger.Info("configuration loaded", "source", cfg.Source, "store", cfg.Store.Driver, "identity", cfg.Identity.Provider)
	return cfg, nil
}

// ApplyEnv overlays the JULIETH_ prefixed environment on cfg.
func ApplyEnv(cfg *Config) error {
	var s secrets
	if err := env.ParseWithOptions(&s, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}

	set(&cfg.Session.HashKey, s.SessionHashKey)
	set(&cfg.Session.BlockKey, s.SessionBlockKey)
	set(&cfg.Identity.TokenSecret, s.TokenSecret)
	set(&cfg.Identity.ToolkitAPIKey, s.ToolkitAPIKey)
	set(&cfg.Store.PostgresDSN, s.PostgresDSN)
	set(&cfg.Store.Minio.AccessKey, s.MinioAccessKey)
	set(&cfg.Store.Minio.SecretKey, s.MinioSecretKey)
	set(&cfg.Server.Addr, s.Addr)

	if s.GoogleClientID != "" || s.GoogleClientSecret != "" {
		if cfg.OAuth2Providers == nil {
			cfg.OAuth2Providers = map[string]OAuth2Provider{}
		}
		google := cfg.OAuth2Providers[OAuth2ProviderGoogle]
		google.Name = OAuth2ProviderGoogle
		set(&google.ClientID, s.GoogleClientID)
		set(&google.ClientSecret, s.GoogleClientSecret)
		cfg.OAuth2Providers[OAuth2ProviderGoogle] = google
	}
	return nil
}

func set(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
