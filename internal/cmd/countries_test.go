package cmd

import (
	"context"
	"strings"
	"testing"
)

func TestCountriesList_Match(t *testing.T) {
	handler := newRouteHandler().On("GET", "/countries", jsonResponse(200, countriesFixture))
	setupAnonymousEnv(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"countries", "list", "--match", "russ", "-o", "json"}); err != nil {
			t.Fatalf("countries list: %v", err)
		}
	})

	items := decodeJSONItems(t, output)
	if len(items) == 0 || items[0]["name"] != "Russia" || items[0]["id"] != float64(17) {
		t.Errorf("items = %v", items)
	}
	for _, item := range items {
		if item["name"] == "Belarus" {
			t.Errorf("Belarus should not match %q", "russ")
		}
	}
}

func TestCountriesCities_OfCountry(t *testing.T) {
	handler := newRouteHandler().On("GET", "/countries", jsonResponse(200, countriesFixture))
	setupAnonymousEnv(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"countries", "cities", "russia"}); err != nil {
			t.Fatalf("countries cities: %v", err)
		}
	})

	for _, want := range []string{"Moscow", "Saint Petersburg"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Minsk") {
		t.Errorf("output includes a city of another country:\n%s", output)
	}
}

func TestCountriesCities_UnknownCountry(t *testing.T) {
	handler := newRouteHandler().On("GET", "/countries", jsonResponse(200, countriesFixture))
	setupAnonymousEnv(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"countries", "cities", "999"})
	})
	if ExitCode(err) != exitUsage {
		t.Errorf("ExitCode = %d, want %d", ExitCode(err), exitUsage)
	}
}
