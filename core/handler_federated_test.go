package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jshttprouter "github.com/julienschmidt/httprouter"

	"github.com/ayomtuase/julieth/session"
)

// withProvider stores the :provider path parameter like httprouter does.
func withProvider(r *http.Request, name string) *http.Request {
	ps := jshttprouter.Params{{Key: "provider", Value: name}}
	return r.WithContext(context.WithValue(r.Context(), jshttprouter.ParamsKey, ps))
}

func beginFederated(t *testing.T, ta *testApp, from string) *http.Cookie {
	t.Helper()
	req := withProvider(withSession(httptest.NewRequest(http.MethodGet, "/auth/google?from="+from, nil)), "google")
	rec := httptest.NewRecorder()
	ta.FederatedBeginHandler(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status %d, got %d", http.StatusFound, rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "https://accounts.example.com/consent") {
		t.Fatalf("unexpected consent location %q", loc)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == federatedCookieName {
			return c
		}
	}
	t.Fatal("no federated state cookie")
	return nil
}

func callback(ta *testApp, query string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := withProvider(withSession(httptest.NewRequest(http.MethodGet, "/auth/google/callback?"+query, nil)), "google")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ta.FederatedCallbackHandler(rec, req)
	return rec
}

func TestFederatedBegin_UnknownProvider(t *testing.T) {
	ta := newTestApp(t)
	req := withProvider(withSession(httptest.NewRequest(http.MethodGet, "/auth/github", nil)), "github")
	rec := httptest.NewRecorder()
	ta.FederatedBeginHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestFederatedCallback(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ta := newTestApp(t)
		cookie := beginFederated(t, ta, "signup")

		rec := callback(ta, "code=abc&state=st-1", cookie)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `data-target="/dashboard"`) {
			t.Error("popup page does not target the dashboard")
		}
		st := ta.hub.Current(testSID)
		if st.Status != session.Authenticated || st.Identity.DisplayName != "Jane Doe" {
			t.Errorf("unexpected session %+v", st)
		}
		if len(ta.profiles.uids) != 1 {
			t.Errorf("expected one profile write, got %d", len(ta.profiles.uids))
		}
	})

	t.Run("cancelled popup returns to the form", func(t *testing.T) {
		ta := newTestApp(t)
		cookie := beginFederated(t, ta, "signup")

		rec := callback(ta, "error=access_denied&state=st-1", cookie)
		if !strings.Contains(rec.Body.String(), `data-target="/signup"`) {
			t.Error("popup page does not target the sign-up form")
		}
		if ta.hub.Current(testSID).Status != session.Anonymous {
			t.Error("session must stay anonymous")
		}

		page := httptest.NewRecorder()
		ta.SignupPageHandler(page, withSession(httptest.NewRequest(http.MethodGet, "/signup", nil)))
		if !strings.Contains(page.Body.String(), "The sign-in window was closed before completing") {
			t.Error("form does not show the cancellation")
		}
	})

	t.Run("missing state cookie fails", func(t *testing.T) {
		ta := newTestApp(t)
		rec := callback(ta, "code=abc&state=st-1", nil)

		if !strings.Contains(rec.Body.String(), `data-target="/"`) {
			t.Error("popup page does not target the login form")
		}
		if ta.hub.Current(testSID).Status != session.Anonymous {
			t.Error("session must stay anonymous")
		}
	})
}
