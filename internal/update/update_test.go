package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestChecker(t *testing.T, handler http.HandlerFunc) *Checker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Checker{URL: server.URL, HTTP: server.Client()}
}

func releaseHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1.0.0", "v1.0.0"},
		{"v1.0.0", "v1.0.0"},
		{"", "v"},
	}
	for _, tt := range tests {
		if got := normalizeVersion(tt.input); got != tt.expected {
			t.Errorf("normalizeVersion(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCheck_DevVersion(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("dev builds should not hit the network")
	})
	for _, v := range []string{"dev", ""} {
		result, err := c.Check(context.Background(), v)
		if result != nil || err != nil {
			t.Errorf("Check(%q) = %+v, %v", v, result, err)
		}
	}
}

func TestCheck_Versions(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		tag       string
		available bool
	}{
		{name: "patch", current: "1.2.3", tag: "v1.2.4", available: true},
		{name: "minor", current: "1.2.3", tag: "v1.3.0", available: true},
		{name: "major", current: "v1.2.3", tag: "2.0.0", available: true},
		{name: "same", current: "1.2.3", tag: "v1.2.3", available: false},
		{name: "current newer", current: "1.3.0", tag: "v1.2.9", available: false},
		{name: "prerelease older", current: "1.2.3", tag: "v1.2.3-rc.1", available: false},
		{name: "invalid current", current: "nightly", tag: "v1.0.0", available: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChecker(t, releaseHandler(`{"tag_name":"`+tt.tag+`","html_url":"https://github.com/swparks/sw-cli/releases/tag/`+tt.tag+`"}`))
			result, err := c.Check(context.Background(), tt.current)
			if err != nil {
				t.Fatalf("Check() error: %v", err)
			}
			if result.UpdateAvailable != tt.available {
				t.Errorf("UpdateAvailable = %v, want %v", result.UpdateAvailable, tt.available)
			}
			if result.LatestVersion[0] == 'v' {
				t.Errorf("LatestVersion should drop the v prefix: %q", result.LatestVersion)
			}
			if result.CurrentVersion != tt.current {
				t.Errorf("CurrentVersion = %q", result.CurrentVersion)
			}
		})
	}
}

func TestCheck_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "server error", handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{name: "rate limited", handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }},
		{name: "invalid json", handler: releaseHandler("{not json")},
		{name: "empty tag", handler: releaseHandler(`{"tag_name":""}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChecker(t, tt.handler)
			if _, err := c.Check(context.Background(), "1.0.0"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCheck_ContextCanceled(t *testing.T) {
	c := newTestChecker(t, releaseHandler(`{"tag_name":"v9.9.9"}`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Check(ctx, "1.0.0"); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestCheck_RequestHeaders(t *testing.T) {
	c := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		_, _ = w.Write([]byte(`{"tag_name":"v1.0.0"}`))
	})
	if _, err := c.Check(context.Background(), "1.0.0"); err != nil {
		t.Fatal(err)
	}
}

func TestCheckForUpdate_DevVersion(t *testing.T) {
	if CheckForUpdate(context.Background(), "dev") != nil {
		t.Error("expected nil for dev version")
	}
}

func TestNewChecker(t *testing.T) {
	c := NewChecker()
	if c.URL != DefaultReleasesURL || c.HTTP == nil || c.HTTP.Timeout != CheckTimeout {
		t.Errorf("NewChecker() = %+v", c)
	}
}
