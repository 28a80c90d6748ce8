package main

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"
)

func stubExecute(t *testing.T, fn func(context.Context, []string) error, mapFn func(error) int) {
	t.Helper()
	origExec := executeCmd
	origMap := mapExitCode
	t.Cleanup(func() {
		executeCmd = origExec
		mapExitCode = origMap
	})
	executeCmd = fn
	mapExitCode = mapFn
}

func TestRun_Success(t *testing.T) {
	var gotArgs []string
	stubExecute(t, func(_ context.Context, args []string) error {
		gotArgs = append([]string(nil), args...)
		return nil
	}, func(error) int {
		t.Fatal("mapExitCode should not be called on success")
		return 99
	})

	code := run(context.Background(), []string{"parks", "list", "--output", "json"})
	if code != 0 {
		t.Fatalf("run() code = %d, want 0", code)
	}
	if want := []string{"parks", "list", "--output", "json"}; !slices.Equal(gotArgs, want) {
		t.Fatalf("args = %v, want %v", gotArgs, want)
	}
}

func TestRun_ErrorUsesMappedExitCode(t *testing.T) {
	executeErr := errors.New("boom")
	called := false
	stubExecute(t, func(context.Context, []string) error {
		return executeErr
	}, func(err error) int {
		called = true
		if !errors.Is(err, executeErr) {
			t.Fatalf("mapExitCode got err %v, want %v", err, executeErr)
		}
		return 23
	})

	if code := run(context.Background(), []string{"profile", "get"}); code != 23 {
		t.Fatalf("run() code = %d, want 23", code)
	}
	if !called {
		t.Fatal("expected mapExitCode to be called")
	}
}

func TestRun_CancelledParentReachesCommand(t *testing.T) {
	var ctxErr error
	stubExecute(t, func(ctx context.Context, _ []string) error {
		ctxErr = ctx.Err()
		return ctxErr
	}, func(error) int { return 130 })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if code := run(ctx, []string{"parks", "list"}); code != 130 {
		t.Fatalf("run() code = %d, want 130", code)
	}
	if !errors.Is(ctxErr, context.Canceled) {
		t.Fatalf("command saw ctx.Err() = %v, want context.Canceled", ctxErr)
	}
}

func TestMain_UsesTerminateWithRunCode(t *testing.T) {
	origTerminate := terminate
	origArgs := os.Args
	t.Cleanup(func() {
		terminate = origTerminate
		os.Args = origArgs
	})

	var gotArgs []string
	stubExecute(t, func(_ context.Context, args []string) error {
		gotArgs = append([]string(nil), args...)
		return errors.New("boom")
	}, func(error) int { return 13 })

	called := false
	gotCode := 0
	terminate = func(code int) {
		called = true
		gotCode = code
	}

	os.Args = []string{"sw", "events", "list", "--output", "json"}
	main()

	if !called {
		t.Fatal("expected terminate to be called")
	}
	if gotCode != 13 {
		t.Fatalf("terminate code = %d, want 13", gotCode)
	}
	if want := []string{"events", "list", "--output", "json"}; !slices.Equal(gotArgs, want) {
		t.Fatalf("args = %v, want %v", gotArgs, want)
	}
}
