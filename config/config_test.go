package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestProvider_GetAndUpdate(t *testing.T) {
	t.Parallel()

	// Test that NewProvider panics with a nil config
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("NewProvider did not panic with nil config")
		}
	}()
	_ = NewProvider(nil)

	// Test Get and Update
	cfg1 := &Config{Server: Server{Addr: ":8080"}}
	provider := NewProvider(cfg1)
	if !reflect.DeepEqual(cfg1, provider.Get()) {
		t.Errorf("Get() got = %v, want %v", provider.Get(), cfg1)
	}

	cfg2 := &Config{Server: Server{Addr: ":9090"}}
	provider.Update(cfg2)
	if !reflect.DeepEqual(cfg2, provider.Get()) {
		t.Errorf("Get() got = %v, want %v", provider.Get(), cfg2)
	}
}

func TestProvider_Concurrency(t *testing.T) {
	t.Parallel()

	cfg1 := &Config{Server: Server{Addr: ":8080"}}
	cfg2 := &Config{Server: Server{Addr: ":9090"}}
	provider := NewProvider(cfg1)

	var wg sync.WaitGroup
	numGoroutines := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			// Alternate between reading and writing
			if i%2 == 0 {
				_ = provider.Get()
			} else {
				if i%4 == 1 {
					provider.Update(cfg2)
				} else {
					provider.Update(cfg1)
				}
			}
		}(i)
	}

	wg.Wait()

	// The final state is not deterministic, but this test is primarily for the race detector.
	// Running `go test -race` will fail if there are data races.
}

func TestDuration_UnmarshalText(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name      string
		input     string
		want      time.Duration
		expectErr bool
	}{
		{"Valid seconds", "10s", 10 * time.Second, false},
		{"Valid minutes", "5m", 5 * time.Minute, false},
		{"Invalid format", "bad", 0, true},
		{"Empty input", "", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tc.input))

			if (err != nil) != tc.expectErr {
				t.Fatalf("UnmarshalText() error = %v, expectErr %v", err, tc.expectErr)
			}
			if !tc.expectErr && d.Duration != tc.want {
				t.Errorf("UnmarshalText() got = %v, want %v", d.Duration, tc.want)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		duration Duration
		want     string
	}{
		{"10 seconds", Duration{10 * time.Second}, "10s"},
		{"5 minutes", Duration{5 * time.Minute}, "5m0s"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.duration.MarshalText()
			if err != nil {
				t.Fatalf("MarshalText() returned an unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("MarshalText() got = %q, want %q", string(got), tc.want)
			}
		})
	}
}

func TestLogLevel_UnmarshalText(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name      string
		input     string
		want      slog.Level
		expectErr bool
	}{
		{"Lowercase info", "info", slog.LevelInfo, false},
		{"Uppercase debug", "DEBUG", slog.LevelDebug, false},
		{"Invalid level", "panic", 0, true},
		{"Empty input", "", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var l LogLevel
			err := l.UnmarshalText([]byte(tc.input))

			if (err != nil) != tc.expectErr {
				t.Fatalf("UnmarshalText() error = %v, expectErr %v", err, tc.expectErr)
			}
			if !tc.expectErr && l.Level != tc.want {
				t.Errorf("UnmarshalText() got = %v, want %v", l.Level, tc.want)
			}
		})
	}
}

func TestLogLevel_MarshalText(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name  string
		level LogLevel
		want  string
	}{
		{"Info level", LogLevel{slog.LevelInfo}, "INFO"},
		{"Debug level", LogLevel{slog.LevelDebug}, "DEBUG"},
		{"Warn level", LogLevel{slog.LevelWarn}, "WARN"},
		{"Error level", LogLevel{slog.LevelError}, "ERROR"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.level.MarshalText()
			if err != nil {
				t.Fatalf("MarshalText() returned an unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("MarshalText() got = %q, want %q", string(got), tc.want)
			}
		})
	}
}

func TestServer_BaseURL(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name   string
		server Server
		want   string
	}{
		{"HTTP", Server{Addr: "example.com:80", EnableTLS: false}, "http://example.com:80"},
		{"HTTPS", Server{Addr: "example.com:443", EnableTLS: true}, "https://example.com:443"},
		{"Empty host becomes localhost", Server{Addr: ":8080", EnableTLS: false}, "http://localhost:8080"},
		{"Public URL wins", Server{Addr: ":8080", PublicURL: "https://julieth.example/"}, "https://julieth.example"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.server.BaseURL(); got != tc.want {
				t.Errorf("BaseURL() = %v, want %v", got, tc.want)
			}
		})
	}
}


func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "julieth.toml")
	content := `
[server]
addr = ":9090"
read_timeout = "5s"

[log]
level = "debug"
format = "text"

[store]
driver = "sqlite"
sqlite_path = "test.db"

[forms]
ttl = "10m"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JULIETH_OAUTH2_GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("JULIETH_OAUTH2_GOOGLE_CLIENT_SECRET", "client-secret")

	cfg, err := Load(path, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != "localhost:9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.IdleTimeout.Duration != time.Minute {
		t.Errorf("IdleTimeout default lost: %v", cfg.Server.IdleTimeout)
	}
	if cfg.Log.Level.Level != slog.LevelDebug || cfg.Log.Format != LogFormatText {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Forms.TTL.Duration != 10*time.Minute {
		t.Errorf("Forms.TTL = %v", cfg.Forms.TTL)
	}
	google := cfg.OAuth2Providers[OAuth2ProviderGoogle]
	if !google.Enabled() || google.ClientID != "client-id" {
		t.Errorf("google provider = %+v", google)
	}
	if google.RedirectURLPath != "/auth/google/callback" {
		t.Errorf("google defaults lost: %+v", google)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q", cfg.Source)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Driver != StoreSqlite || cfg.Identity.Provider != IdentityLocal {
		t.Errorf("unexpected defaults: %+v %+v", cfg.Store, cfg.Identity)
	}
	if cfg.OAuth2Providers[OAuth2ProviderGoogle].Enabled() {
		t.Error("google should be disabled without credentials")
	}
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[server\naddr = "), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, slog.New(slog.DiscardHandler)); err == nil {
		t.Error("expected decode error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml"), slog.New(slog.DiscardHandler)); err == nil {
		t.Error("expected error for missing file")
	}
}
