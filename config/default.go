package config

import (
	"log/slog"
	"time"

	"github.com/ayomtuase/julieth/crypto"
)

// NewDefaultConfig creates a new Config with sensible defaults.
// All secret values are randomly generated, so sessions and local tokens do
// not survive a restart unless the secrets are configured.
func NewDefaultConfig() *Config {
	return &Config{
		Server: Server{
			Addr:                    ":8080",
			ShutdownGracefulTimeout: Duration{Duration: 15 * time.Second},
			ReadTimeout:             Duration{Duration: 2 * time.Second},
			ReadHeaderTimeout:       Duration{Duration: 2 * time.Second},
			// The session event stream is long lived.
			WriteTimeout: Duration{Duration: 0},
			IdleTimeout:  Duration{Duration: 1 * time.Minute},
		},
		Log: Log{
			Level:  LogLevel{Level: slog.LevelInfo},
			Format: LogFormatJSON,
			Request: LogRequest{
				Activated: true,
				Limits: LogRequestLimits{
					URILength:       512, // Minimum: 64
					UserAgentLength: 256, // Minimum: 32
					RefererLength:   512, // Minimum: 64
					RemoteIPLength:  64,  // Minimum: 15
				},
			},
		},
		Session: Session{
			CookieName:    "julieth_session",
			HashKey:       crypto.RandomString(64, crypto.AlphanumericAlphabet),
			BlockKey:      crypto.RandomString(32, crypto.AlphanumericAlphabet),
			Lifetime:      Duration{Duration: 24 * time.Hour},
			SweepInterval: Duration{Duration: 1 * time.Minute},
		},
		Identity: Identity{
			Provider:       IdentityLocal,
			TokenSecret:    crypto.RandomString(32, crypto.AlphanumericAlphabet),
			TokenDuration:  Duration{Duration: 1 * time.Hour},
			RequestTimeout: Duration{Duration: 10 * time.Second},
		},
		OAuth2Providers: map[string]OAuth2Provider{
			OAuth2ProviderGoogle: {
				Name:            OAuth2ProviderGoogle,
				DisplayName:     "Google",
				RedirectURLPath: "/auth/google/callback",
				Issuer:          "https://accounts.google.com",
				Scopes:          []string{"openid", "email", "profile"},
			},
		},
		Store: Store{
			Driver:     StoreSqlite,
			SqlitePath: "julieth.db",
			Minio: Minio{
				Bucket: "julieth",
			},
		},
		BlockIp: BlockIp{
			Enabled: true,
			Level:   "medium",
		},
		Cache: Cache{
			Level: "medium",
		},
		Forms: Forms{
			TTL: Duration{Duration: 30 * time.Minute},
		},
	}
}
