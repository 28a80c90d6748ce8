package cmd

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestMessagesDialogs_UnreadTotal(t *testing.T) {
	handler := newRouteHandler().On("GET", "/dialogs", jsonResponse(200, `[
		{"dialog_id": 1, "anketa_id": 3, "name": "anna", "last_message_text": "hi", "count": "2"},
		{"dialog_id": 2, "anketa_id": 4, "name": "oleg", "count": 5},
		{"dialog_id": 3, "anketa_id": 5, "name": "ivan"}
	]`))
	setupTestEnvWithHandler(t, handler)

	var stdout string
	stderr := captureStderr(t, func() {
		stdout = captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"messages", "dialogs"}); err != nil {
				t.Fatalf("dialogs: %v", err)
			}
		})
	})
	if !strings.Contains(stdout, "anna") || !strings.Contains(stdout, "oleg") {
		t.Errorf("stdout = %s", stdout)
	}
	if !strings.Contains(stderr, "7 unread") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestMessagesSend_FromStdin(t *testing.T) {
	var text string
	handler := newRouteHandler().On("POST", "/messages/42", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		text = r.PostFormValue("message")
		jsonResponse(200, ``)(w, r)
	})
	setupTestEnvWithHandler(t, handler)

	withStdin(t, "see you at the bars\n", func() {
		captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"messages", "send", "42", "-"}); err != nil {
				t.Fatalf("send: %v", err)
			}
		})
	})
	if text != "see you at the bars" {
		t.Errorf("message = %q", text)
	}
}

func TestMessagesSend_EmptyText(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	err := Execute(context.Background(), []string{"messages", "send", "42", "  "})
	if ExitCode(err) != exitUsage {
		t.Fatalf("ExitCode = %d, want %d", ExitCode(err), exitUsage)
	}
}

func TestMessagesRead(t *testing.T) {
	var from string
	handler := newRouteHandler().On("POST", "/messages/mark_as_read", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		from = r.PostFormValue("from_user_id")
		jsonResponse(200, ``)(w, r)
	})
	setupTestEnvWithHandler(t, handler)

	captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"messages", "read", "42"}); err != nil {
			t.Fatalf("read: %v", err)
		}
	})
	if from != "42" {
		t.Errorf("from_user_id = %q", from)
	}
}

func TestMessages_UnauthorizedExitsAuth(t *testing.T) {
	handler := newRouteHandler().On("GET", "/dialogs", jsonResponse(401, `{"message": "Unauthorized"}`))
	setupTestEnvWithHandler(t, handler)

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"messages", "dialogs", "-o", "json"})
	})
	if ExitCode(err) != exitAuth {
		t.Fatalf("ExitCode = %d, want %d", ExitCode(err), exitAuth)
	}
	if !strings.Contains(stderr, "session rejected") {
		t.Errorf("expected forced logout warning, stderr = %q", stderr)
	}
	start := strings.Index(stderr, "{")
	if start < 0 {
		t.Fatalf("no JSON error in stderr: %q", stderr)
	}
	obj := decodeJSONObject(t, stderr[start:])
	if obj["kind"] != "invalid_credentials" {
		t.Errorf("stderr = %v", obj)
	}
}

func TestMessagesSend_DryRunJSON(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"messages", "send", "3", "see you at 7", "--dry-run", "-o", "json"}); err != nil {
			t.Fatalf("messages send --dry-run: %v", err)
		}
	})

	obj := decodeJSONObject(t, output)
	if obj["method"] != "POST" || !strings.HasSuffix(obj["url"].(string), "/messages/3") {
		t.Errorf("preview = %v", obj)
	}
	fields, _ := obj["fields"].([]any)
	if len(fields) != 1 || fields[0].(map[string]any)["value"] != "see you at 7" {
		t.Errorf("fields = %v", obj["fields"])
	}
	if len(handler.seen()) != 0 {
		t.Errorf("requests sent: %v", handler.seen())
	}
}
