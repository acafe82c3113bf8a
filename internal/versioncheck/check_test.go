package versioncheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		current    string
		body       string
		wantUpdate bool
	}{
		"outdated":      {current: "v1.2.0", body: `{"tag_name":"v1.3.0"}`, wantUpdate: true},
		"up to date":    {current: "v1.3.0", body: `{"tag_name":"v1.3.0"}`},
		"newer locally": {current: "1.4.0", body: `{"tag_name":"v1.3.0"}`},
		"dev build":     {current: "dev", body: `{"tag_name":"v1.3.0"}`},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := releaseServer(t, http.StatusOK, tc.body)
			c := New(srv.URL, time.Second)
			defer func() { _ = c.Close() }()

			res, err := c.Check(context.Background(), tc.current)
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			if res.UpdateAvailable != tc.wantUpdate {
				t.Errorf("UpdateAvailable = %v, want %v", res.UpdateAvailable, tc.wantUpdate)
			}
			if res.Latest != "v1.3.0" {
				t.Errorf("Latest = %q, want v1.3.0", res.Latest)
			}
		})
	}
}

func TestCheckFailures(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		status int
		body   string
	}{
		"server error": {status: http.StatusInternalServerError, body: `{}`},
		"bad version":  {status: http.StatusOK, body: `{"tag_name":"latest"}`},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := releaseServer(t, tc.status, tc.body)
			c := New(srv.URL, time.Second)
			defer func() { _ = c.Close() }()

			if _, err := c.Check(context.Background(), "v1.0.0"); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestCurrentPrefersLinkerVersion(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	t.Cleanup(func() { Version = old })

	if got := Current(); got != "v9.9.9" {
		t.Errorf("Current() = %q, want v9.9.9", got)
	}
}
