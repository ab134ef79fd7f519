package julieth

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayomtuase/julieth/core"
	"github.com/ayomtuase/julieth/testutil"
)

func newTestService(t *testing.T) (*core.App, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "julieth.toml")
	content := `
[log]
format = "text"

[store]
driver = "sqlite"
sqlite_path = "` + filepath.ToSlash(filepath.Join(dir, "julieth.db")) + `"
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	app, _, err := New(context.Background(), configPath, WithLogger(testutil.MakeNoopLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(Handler(app))
	t.Cleanup(ts.Close)
	return app, ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestSignUpDashboardLogout(t *testing.T) {
	_, ts := newTestService(t)
	client := newClient(t)

	resp, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	if body := readBody(t, resp); !strings.Contains(body, "<h1>Login</h1>") {
		t.Fatalf("login page not rendered")
	}

	// Sign up follows the redirect to the dashboard.
	resp, err = client.PostForm(ts.URL+"/signup", url.Values{
		"email":           {"jane@example.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	})
	if err != nil {
		t.Fatalf("POST /signup: %v", err)
	}
	body := readBody(t, resp)
	if resp.Request.URL.Path != "/dashboard" {
		t.Fatalf("expected to land on /dashboard, got %s", resp.Request.URL.Path)
	}
	if !strings.Contains(body, "Welcome, jane@example.com") {
		t.Errorf("dashboard does not greet the user")
	}

	// The login page now sends the user back to the dashboard.
	resp, err = client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	readBody(t, resp)
	if resp.Request.URL.Path != "/dashboard" {
		t.Errorf("authenticated login page did not redirect, ended on %s", resp.Request.URL.Path)
	}

	resp, err = client.PostForm(ts.URL+"/logout", nil)
	if err != nil {
		t.Fatalf("POST /logout: %v", err)
	}
	readBody(t, resp)
	if resp.Request.URL.Path != "/" {
		t.Errorf("logout ended on %s", resp.Request.URL.Path)
	}

	// Signing in again with the same account works, a wrong password does not.
	resp, err = client.PostForm(ts.URL+"/", url.Values{"email": {"jane@example.com"}, "password": {"wrong-one"}})
	if err != nil {
		t.Fatalf("POST /: %v", err)
	}
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, resp.StatusCode)
	}
	readBody(t, resp)

	resp, err = client.PostForm(ts.URL+"/", url.Values{"email": {"jane@example.com"}, "password": {"secret1"}})
	if err != nil {
		t.Fatalf("POST /: %v", err)
	}
	readBody(t, resp)
	if resp.Request.URL.Path != "/dashboard" {
		t.Errorf("sign in ended on %s", resp.Request.URL.Path)
	}
}

func TestSignUpExistingAccount(t *testing.T) {
	_, ts := newTestService(t)
	values := url.Values{"email": {"jane@example.com"}, "password": {"secret1"}, "confirmPassword": {"secret1"}}

	first := newClient(t)
	resp, err := first.PostForm(ts.URL+"/signup", values)
	if err != nil {
		t.Fatalf("POST /signup: %v", err)
	}
	readBody(t, resp)

	second := newClient(t)
	resp, err = second.PostForm(ts.URL+"/signup", values)
	if err != nil {
		t.Fatalf("POST /signup: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, resp.StatusCode)
	}
	if !strings.Contains(body, "already exists") {
		t.Errorf("missing account exists message")
	}
}

func TestRoutes(t *testing.T) {
	_, ts := newTestService(t)

	testCases := []struct {
		path       string
		wantStatus int
	}{
		{"/favicon.ico", http.StatusNoContent},
		{"/assets/app.css", http.StatusOK},
		{"/signup", http.StatusOK},
		{"/api/session", http.StatusOK},
		{"/auth/github", http.StatusNotFound},
		{"/nowhere", http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tc.path)
			if err != nil {
				t.Fatalf("GET %s: %v", tc.path, err)
			}
			readBody(t, resp)
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	app, _ := newTestService(t)
	if app.Logger() == nil {
		t.Fatal("no logger")
	}

	var sb strings.Builder
	cfg := app.Config().Log
	cfg.Format = "text"
	NewLogger(cfg, &sb).Info("hello", "k", "v")
	if out := sb.String(); strings.Contains(out, "time=") || !strings.Contains(out, "k=v") {
		t.Errorf("unexpected text log %q", out)
	}
}
