package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecute_UnknownCommandSuggests(t *testing.T) {
	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"prks"})
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if ExitCode(err) != exitUsage {
		t.Errorf("ExitCode = %d, want %d", ExitCode(err), exitUsage)
	}
	if !strings.Contains(stderr, `Did you mean "parks"?`) {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestExecute_UnknownFlagSuggests(t *testing.T) {
	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"countries", "list", "--mtch", "x"})
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(stderr, `Did you mean "--match"?`) || !strings.Contains(stderr, "sw countries list --help") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestExecute_JSONConflictsWithTextOutput(t *testing.T) {
	setupAnonymousEnv(t, newRouteHandler())

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"version", "--json", "-o", "text"})
	})
	if err == nil || !strings.Contains(stderr, "--json conflicts with --output text") {
		t.Errorf("err = %v, stderr = %q", err, stderr)
	}
}

func TestExecute_InvalidOutput(t *testing.T) {
	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"version", "-o", "yaml"})
	})
	if err == nil {
		t.Fatal("expected an error for -o yaml")
	}
}

func TestExecute_QueryImpliesJSON(t *testing.T) {
	handler := newRouteHandler().On("GET", "/countries", jsonResponse(200, countriesFixture))
	setupAnonymousEnv(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"countries", "list", "--query", ".[].name"}); err != nil {
			t.Fatalf("countries list: %v", err)
		}
	})

	if !strings.Contains(output, `"Russia"`) || !strings.Contains(output, `"Belarus"`) {
		t.Errorf("output = %q", output)
	}
}

func TestExecute_QueryRejectedWithExplicitText(t *testing.T) {
	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"version", "-o", "text", "--query", ".version"})
	})
	if err == nil {
		t.Fatal("expected an error for --query with -o text")
	}
}

func TestExecute_TemplateFromFile(t *testing.T) {
	handler := newRouteHandler().On("GET", "/countries", jsonResponse(200, countriesFixture))
	setupAnonymousEnv(t, handler)
	path := filepath.Join(t.TempDir(), "names.tmpl")
	if err := os.WriteFile(path, []byte(`{{range .items}}{{.name}};{{end}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"countries", "list", "--template", "@" + path}); err != nil {
			t.Fatalf("countries list: %v", err)
		}
	})

	if !strings.Contains(output, "Russia;Belarus;") {
		t.Errorf("output = %q", output)
	}
}

func TestExecute_NegativeTimeout(t *testing.T) {
	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"version", "--timeout", "-1s"})
	})
	if err == nil {
		t.Fatal("expected an error for a negative timeout")
	}
}

func TestExecute_EnvFile(t *testing.T) {
	handler := newRouteHandler().On("GET", "/countries", jsonResponse(200, countriesFixture))
	env := setupAnonymousEnv(t, handler)
	// godotenv.Load never overrides variables that are already set.
	_ = os.Unsetenv("SW_BASE_URL")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SW_BASE_URL="+env.server.URL+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_ = captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"--env-file", path, "countries", "list"}); err != nil {
			t.Fatalf("countries list: %v", err)
		}
	})

	if got := handler.seen(); len(got) != 1 || got[0] != "GET /countries" {
		t.Errorf("seen = %v", got)
	}
}

func TestExecute_EnvFileMissing(t *testing.T) {
	err := Execute(context.Background(), []string{"--env-file", filepath.Join(t.TempDir(), "missing.env"), "version"})
	if err == nil || !strings.Contains(err.Error(), "--env-file") {
		t.Errorf("err = %v", err)
	}
}
