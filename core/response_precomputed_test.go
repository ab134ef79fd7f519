package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPrecomputedResponses(t *testing.T) {
	testCases := []struct {
		name string
		resp jsonResponse
		code string
	}{
		{"invalid request", errorInvalidRequest, CodeErrorInvalidRequest},
		{"in flight", errorSubmissionInFlight, CodeErrorSubmissionInFlight},
		{"not authenticated", errorNotAuthenticated, CodeErrorNotAuthenticated},
		{"ip blocked", errorIpBlocked, CodeErrorIpBlocked},
		{"signed out", okSignedOut, CodeOkSignedOut},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeJsonError(rec, tc.resp)

			if rec.Code != tc.resp.status {
				t.Errorf("expected status %d, got %d", tc.resp.status, rec.Code)
			}
			for k, v := range HeadersJson {
				if got := rec.Header().Get(k); got != v {
					t.Errorf("header %s: expected %q, got %q", k, v, got)
				}
			}
			var body JsonBasic
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Code != tc.code || body.Status != tc.resp.status || body.Message == "" {
				t.Errorf("unexpected body %+v", body)
			}
		})
	}
}

func TestWriteJsonFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJsonFailure(rec, http.StatusBadGateway, CodeErrorAuthFailed, "provider said no")

	var body JsonWithData
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec.Code != http.StatusBadGateway || body.Message != "provider said no" || body.Data != nil {
		t.Errorf("unexpected response %d %+v", rec.Code, body)
	}
}
