package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/ayomtuase/julieth/crypto"
)

func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := validateLog(&cfg.Log); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}
	if err := validateSession(&cfg.Session); err != nil {
		return fmt.Errorf("session config validation failed: %w", err)
	}
	if err := validateIdentity(&cfg.Identity); err != nil {
		return fmt.Errorf("identity config validation failed: %w", err)
	}
	if err := validateOAuth2Providers(cfg.OAuth2Providers); err != nil {
		return fmt.Errorf("oauth2 config validation failed: %w", err)
	}
	if err := validateStore(&cfg.Store); err != nil {
		return fmt.Errorf("store config validation failed: %w", err)
	}
	if err := validateBlockIp(&cfg.BlockIp); err != nil {
		return fmt.Errorf("block ip config validation failed: %w", err)
	}
	if err := validateCache(&cfg.Cache); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}
	if cfg.Forms.TTL.Duration <= 0 {
		return fmt.Errorf("forms ttl must be positive")
	}
	return nil
}

// validateServer checks the Server configuration section.
// It ensures the Addr field is not empty and contains a valid host:port or :port format.
// If only a port is provided (e.g., ":8080"), it defaults the host to "localhost".
//
// Allowed formats:
//   - "host:port" (e.g., "example.com:8080", "127.0.0.1:8080", "[::1]:8080")
//   - ":port"     (e.g., ":8080" becomes "localhost:8080")
//
// The port part is mandatory.
func validateServer(server *Server) error {
	if server.Addr == "" {
		return fmt.Errorf("server address (Addr) cannot be empty")
	}

	host, port, err := net.SplitHostPort(server.Addr)
	if err != nil {
		return fmt.Errorf("invalid server address format '%s': %w", server.Addr, err)
	}
	if port == "" {
		return fmt.Errorf("server address '%s' must include a port", server.Addr)
	}
	if host == "" {
		host = "localhost"
	}
	server.Addr = net.JoinHostPort(host, port)

	if _, err := net.LookupPort("tcp", port); err != nil {
		return fmt.Errorf("invalid port '%s' in server address '%s': %w", port, server.Addr, err)
	}

	if server.EnableTLS && (server.CertFile == "" || server.KeyFile == "") {
		return fmt.Errorf("tls enabled but cert_file or key_file is empty")
	}
	return nil
}

func validateLog(l *Log) error {
	switch l.Format {
	case LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("unknown log format %q", l.Format)
	}
	return validateRequestLog(&l.Request)
}

func validateRequestLog(r *LogRequest) error {
	if !r.Activated {
		return nil
	}
	limits := r.Limits
	switch {
	case limits.URILength < 64:
		return fmt.Errorf("uri_length must be at least 64")
	case limits.UserAgentLength < 32:
		return fmt.Errorf("user_agent_length must be at least 32")
	case limits.RefererLength < 64:
		return fmt.Errorf("referer_length must be at least 64")
	case limits.RemoteIPLength < 15:
		return fmt.Errorf("remote_ip_length must be at least 15")
	}
	return nil
}

func validateSession(s *Session) error {
	if s.CookieName == "" {
		return fmt.Errorf("cookie_name cannot be empty")
	}
	if n := len(s.HashKey); n != 32 && n != 64 {
		return fmt.Errorf("hash_key must be 32 or 64 bytes, got %d", n)
	}
	if n := len(s.BlockKey); n != 16 && n != 24 && n != 32 {
		return fmt.Errorf("block_key must be 16, 24 or 32 bytes, got %d", n)
	}
	if s.Lifetime.Duration <= 0 {
		return fmt.Errorf("lifetime must be positive")
	}
	if s.SweepInterval.Duration <= 0 {
		return fmt.Errorf("sweep_interval must be positive")
	}
	return nil
}

func validateIdentity(id *Identity) error {
	switch id.Provider {
	case IdentityLocal:
		if len(id.TokenSecret) < crypto.MinKeyLength {
			return fmt.Errorf("token_secret must be at least %d bytes", crypto.MinKeyLength)
		}
		if id.TokenDuration.Duration <= 0 {
			return fmt.Errorf("token_duration must be positive")
		}
	case IdentityToolkit:
		if id.ToolkitAPIKey == "" {
			return fmt.Errorf("toolkit_api_key cannot be empty")
		}
	default:
		return fmt.Errorf("unknown identity provider %q", id.Provider)
	}
	if id.RequestTimeout.Duration <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

func validateOAuth2Providers(providers map[string]OAuth2Provider) error {
	for name, p := range providers {
		if p.RedirectURL == "" && p.RedirectURLPath == "" {
			return fmt.Errorf("provider %s: redirect_url or redirect_url_path is required", name)
		}
		if (p.ClientID == "") != (p.ClientSecret == "") {
			return fmt.Errorf("provider %s: client_id and client_secret go together", name)
		}
		if p.RedirectURLPath != "" && !strings.HasPrefix(p.RedirectURLPath, "/") {
			return fmt.Errorf("provider %s: redirect_url_path must start with /", name)
		}
	}
	return nil
}

func validateStore(s *Store) error {
	switch s.Driver {
	case StoreSqlite:
		if s.SqlitePath == "" {
			return fmt.Errorf("sqlite_path cannot be empty")
		}
	case StorePostgres:
		if s.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn cannot be empty")
		}
	case StoreMinio:
		m := s.Minio
		if m.Endpoint == "" || m.Bucket == "" {
			return fmt.Errorf("minio endpoint and bucket are required")
		}
		if m.AccessKey == "" || m.SecretKey == "" {
			return fmt.Errorf("minio access_key and secret_key are required")
		}
	default:
		return fmt.Errorf("unknown store driver %q", s.Driver)
	}
	return nil
}

func validateBlockIp(b *BlockIp) error {
	if !b.Enabled {
		return nil
	}
	switch b.Level {
	case "low", "medium", "high":
		return nil
	}
	return fmt.Errorf("invalid level %q", b.Level)
}

func validateCache(c *Cache) error {
	switch c.Level {
	case "small", "medium", "large", "very-large":
		return nil
	}
	return fmt.Errorf("invalid level %q", c.Level)
}
