package config

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync/atomic"
	"time"
)

const (
	OAuth2ProviderGoogle = "google"

	IdentityLocal   = "local"
	IdentityToolkit = "toolkit"

	StoreSqlite   = "sqlite"
	StorePostgres = "postgres"
	StoreMinio    = "minio"

	LogFormatJSON = "json"
	LogFormatText = "text"
)

type Config struct {
	// Source is the file the config was read from, empty for defaults.
	Source string `toml:"-"`

	Server          Server                    `toml:"server"`
	Log             Log                       `toml:"log"`
	Session         Session                   `toml:"session"`
	Identity        Identity                  `toml:"identity"`
	OAuth2Providers map[string]OAuth2Provider `toml:"oauth2_providers"`
	Store           Store                     `toml:"store"`
	BlockIp         BlockIp                   `toml:"block_ip"`
	Cache           Cache                     `toml:"cache"`
	Forms           Forms                     `toml:"forms"`
}

type Server struct {
	Addr                    string   `toml:"addr"`
	ShutdownGracefulTimeout Duration `toml:"shutdown_graceful_timeout"`
	ReadTimeout             Duration `toml:"read_timeout"`
	ReadHeaderTimeout       Duration `toml:"read_header_timeout"`
	WriteTimeout            Duration `toml:"write_timeout"`
	IdleTimeout             Duration `toml:"idle_timeout"`
	// ClientIpProxyHeader names the header holding the client ip when behind
	// a proxy, e.g. X-Forwarded-For.
	ClientIpProxyHeader string `toml:"client_ip_proxy_header"`
	EnableTLS           bool   `toml:"enable_tls"`
	CertFile            string `toml:"cert_file"`
	KeyFile             string `toml:"key_file"`
	// PublicURL overrides BaseURL when the service is reached through a
	// proxy under another host.
	PublicURL string `toml:"public_url"`
}

// BaseURL is the scheme and authority the browser uses to reach the server.
func (s *Server) BaseURL() string {
	if s.PublicURL != "" {
		return strings.TrimRight(s.PublicURL, "/")
	}
	scheme := "http"
	if s.EnableTLS {
		scheme = "https"
	}
	host, port, err := net.SplitHostPort(s.Addr)
	if err != nil {
		return scheme + "://" + s.Addr
	}
	if host == "" {
		host = "localhost"
	}
	return scheme + "://" + net.JoinHostPort(host, port)
}

type Log struct {
	Level   LogLevel   `toml:"level"`
	Format  string     `toml:"format"`
	Request LogRequest `toml:"request"`
}

type LogRequest struct {
	Activated bool             `toml:"activated"`
	Limits    LogRequestLimits `toml:"limits"`
}

// LogRequestLimits truncate request values before they are logged.
type LogRequestLimits struct {
	URILength       int `toml:"uri_length"`
	UserAgentLength int `toml:"user_agent_length"`
	RefererLength   int `toml:"referer_length"`
	RemoteIPLength  int `toml:"remote_ip_length"`
}

type Session struct {
	CookieName string `toml:"cookie_name"`
	// HashKey authenticates the cookie, 32 or 64 bytes.
	HashKey string `toml:"hash_key"`
	// BlockKey encrypts the cookie, 16, 24 or 32 bytes.
	BlockKey      string   `toml:"block_key"`
	Lifetime      Duration `toml:"lifetime"`
	SweepInterval Duration `toml:"sweep_interval"`
	Secure        bool     `toml:"secure"`
}

type Identity struct {
	// Provider is local or toolkit.
	Provider        string   `toml:"provider"`
	ToolkitAPIKey   string   `toml:"toolkit_api_key"`
	ToolkitEndpoint string   `toml:"toolkit_endpoint"`
	TokenSecret     string   `toml:"token_secret"`
	TokenDuration   Duration `toml:"token_duration"`
	RequestTimeout  Duration `toml:"request_timeout"`
}

type OAuth2Provider struct {
	Name        string `toml:"name"`
	DisplayName string `toml:"display_name"`
	// RedirectURL is used as is. When empty it is built from the server
	// BaseURL and RedirectURLPath.
	RedirectURL     string   `toml:"redirect_url"`
	RedirectURLPath string   `toml:"redirect_url_path"`
	Issuer          string   `toml:"issuer"`
	Scopes          []string `toml:"scopes"`
	ClientID        string   `toml:"client_id"`
	ClientSecret    string   `toml:"client_secret"`
}

// Enabled reports whether the provider has credentials.
func (p OAuth2Provider) Enabled() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

type Store struct {
	// Driver is sqlite, postgres or minio.
	Driver      string `toml:"driver"`
	SqlitePath  string `toml:"sqlite_path"`
	PostgresDSN string `toml:"postgres_dsn"`
	Minio       Minio  `toml:"minio"`
}

type Minio struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

type BlockIp struct {
	Enabled bool `toml:"enabled"`
	// Level is low, medium or high.
	Level string `toml:"level"`
}

type Cache struct {
	// Level is small, medium, large or very-large.
	Level string `toml:"level"`
}

type Forms struct {
	TTL Duration `toml:"ttl"`
}

// Duration is a time.Duration written as "15s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LogLevel is a slog.Level written as "info" or "DEBUG" in TOML.
type LogLevel struct {
	slog.Level
}

func (l *LogLevel) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "debug":
		l.Level = slog.LevelDebug
	case "info":
		l.Level = slog.LevelInfo
	case "warn":
		l.Level = slog.LevelWarn
	case "error":
		l.Level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", text)
	}
	return nil
}

func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.Level.String()), nil
}

// Provider gives concurrent access to the current Config.
type Provider struct {
	value atomic.Pointer[Config]
}

func NewProvider(cfg *Config) *Provider {
	if cfg == nil {
		panic("config: nil config")
	}
	p := &Provider{}
	p.value.Store(cfg)
	return p
}

func (p *Provider) Get() *Config {
	return p.value.Load()
}

func (p *Provider) Update(cfg *Config) {
	p.value.Store(cfg)
}
