package cmd

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

const userFixture = `{"id": 2, "name": "ivan", "fullname": "Ivan Petrov", "gender": 0, "city_id": 1, "birth_date": "1990-04-12", "friends": "12", "area_count": 3}`

func TestUsersGet_Single(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/users/2", jsonResponse(200, userFixture)).
		On("GET", "/countries", jsonResponse(200, countriesFixture))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"users", "get", "2"}); err != nil {
			t.Fatalf("users get: %v", err)
		}
	})

	for _, want := range []string{"Name:      ivan", "Full name: Ivan Petrov", "Born:      1990-04-12", "City:      Moscow, Russia", "Friends:   12", "Parks:     3"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestUsersGet_JSONSkipsCountries(t *testing.T) {
	handler := newRouteHandler().On("GET", "/users/2", jsonResponse(200, userFixture))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"users", "get", "2", "-o", "json"}); err != nil {
			t.Fatalf("users get: %v", err)
		}
	})

	obj := decodeJSONObject(t, output)
	if obj["name"] != "ivan" {
		t.Errorf("name = %v, want ivan", obj["name"])
	}
	for _, req := range handler.seen() {
		if req == "GET /countries" {
			t.Error("countries fetched for JSON output")
		}
	}
}

func TestUsersGet_BulkPartialFailure(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/users/2", jsonResponse(200, userFixture)).
		On("GET", "/users/3", jsonResponse(404, `{"errors": ["user not found"]}`))
	setupTestEnvWithHandler(t, handler)

	var err error
	output := captureStdout(t, func() {
		_ = captureStderr(t, func() {
			err = Execute(context.Background(), []string{"users", "get", "2,3", "-o", "json"})
		})
	})
	if err == nil {
		t.Fatal("expected an error for the missing user")
	}
	if ExitCode(err) == exitOK {
		t.Errorf("ExitCode = %d, want non-zero", ExitCode(err))
	}

	items := decodeJSONItems(t, output)
	if len(items) != 2 {
		t.Fatalf("got %d results, want 2:\n%s", len(items), output)
	}
	byID := map[float64]map[string]any{}
	for _, item := range items {
		byID[item["id"].(float64)] = item
	}
	if byID[2]["success"] != true {
		t.Errorf("user 2 result = %v", byID[2])
	}
	if byID[3]["success"] != false || byID[3]["error"] == "" {
		t.Errorf("user 3 result = %v", byID[3])
	}
}

func TestUsersGet_InvalidID(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"users", "get", "abc"})
	})
	if ExitCode(err) != exitUsage {
		t.Errorf("ExitCode = %d, want %d", ExitCode(err), exitUsage)
	}
}

func TestUsersSearch(t *testing.T) {
	var gotName string
	handler := newRouteHandler().On("GET", "/users/search", func(w http.ResponseWriter, r *http.Request) {
		gotName = r.URL.Query().Get("name")
		jsonResponse(200, `[{"id": 2, "name": "ivan", "fullname": "Ivan Petrov"}, {"id": 4, "name": "ivanka"}]`)(w, r)
	})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"users", "search", "iva"}); err != nil {
			t.Fatalf("users search: %v", err)
		}
	})

	if gotName != "iva" {
		t.Errorf("name param = %q, want iva", gotName)
	}
	for _, want := range []string{"FULL NAME", "ivan", "Ivan Petrov", "ivanka"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestUsersSearch_Empty(t *testing.T) {
	handler := newRouteHandler().On("GET", "/users/search", jsonResponse(200, `[]`))
	setupTestEnvWithHandler(t, handler)

	var output string
	stderr := captureStderr(t, func() {
		output = captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"users", "search", "nobody"}); err != nil {
				t.Fatalf("users search: %v", err)
			}
		})
	})

	if !strings.Contains(output+stderr, `No users found matching "nobody"`) {
		t.Errorf("missing empty message; stdout=%q stderr=%q", output, stderr)
	}
}
