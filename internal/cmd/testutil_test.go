package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/99designs/keyring"

	"github.com/swparks/sw-cli/internal/config"
)

// captureStdout executes fn and returns what it wrote to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// captureStderr executes fn and returns what it wrote to stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	_ = w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// withStdin feeds input to os.Stdin while fn runs.
func withStdin(t *testing.T, input string, fn func()) {
	t.Helper()
	old := os.Stdin
	r, w, _ := os.Pipe()
	_, _ = w.WriteString(input)
	_ = w.Close()
	os.Stdin = r
	defer func() { os.Stdin = old }()
	fn()
}

type testEnv struct {
	server *httptest.Server
}

// setupTestEnvWithHandler starts a mock server and signs in through the
// environment as user 1. Caching and retries are off.
func setupTestEnvWithHandler(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("SW_BASE_URL", server.URL)
	t.Setenv("SW_LOGIN", "tester")
	t.Setenv("SW_PASSWORD", "secret")
	t.Setenv("SW_USER_ID", "1")
	t.Setenv("SW_PROFILE", "")
	t.Setenv("SW_NO_CACHE", "1")
	t.Setenv("SW_REDIS_URL", "")
	t.Setenv("SW_MAX_5XX_RETRIES", "0")
	t.Setenv("SW_OUTPUT", "text")
	return &testEnv{server: server}
}

// setupAnonymousEnv is setupTestEnvWithHandler without credentials.
func setupAnonymousEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()
	env := setupTestEnvWithHandler(t, handler)
	t.Setenv("SW_LOGIN", "")
	t.Setenv("SW_PASSWORD", "")
	t.Setenv("SW_USER_ID", "")
	return env
}

// useSharedKeyring makes every keyring open in this test see the same store.
func useSharedKeyring(t *testing.T) keyring.Keyring {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	restore := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)
	return ring
}

func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// routeHandler routes requests by exact "METHOD PATH" and records every
// request it sees. Unknown routes get 404.
type routeHandler struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []string
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

func (rh *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	rh.routes[method+" "+path] = handler
	return rh
}

func (rh *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	rh.mu.Lock()
	rh.requests = append(rh.requests, key)
	handler, ok := rh.routes[key]
	rh.mu.Unlock()
	if ok {
		handler(w, r)
		return
	}
	http.NotFound(w, r)
}

// seen returns the recorded "METHOD PATH" keys.
func (rh *routeHandler) seen() []string {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	return append([]string(nil), rh.requests...)
}

// decodeJSONItems decodes a list printed as {"items": [...]}.
func decodeJSONItems(t *testing.T, output string) []map[string]any {
	t.Helper()
	var doc struct {
		Items *[]map[string]any `json:"items"`
	}
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		t.Fatalf("output is not a JSON object: %v\n%s", err, output)
	}
	if doc.Items == nil {
		t.Fatalf("output has no items list:\n%s", output)
	}
	return *doc.Items
}

func decodeJSONObject(t *testing.T, output string) map[string]any {
	t.Helper()
	var obj map[string]any
	if err := json.Unmarshal([]byte(output), &obj); err != nil {
		t.Fatalf("output is not a JSON object: %v\n%s", err, output)
	}
	return obj
}

func TestRouteHandler(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/test", jsonResponse(200, `{"method": "get"}`))
	env := setupTestEnvWithHandler(t, handler)

	resp, err := http.Get(env.server.URL + "/test")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(env.server.URL + "/missing")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if got := handler.seen(); len(got) != 2 || got[0] != "GET /test" {
		t.Errorf("seen() = %v", got)
	}
}
