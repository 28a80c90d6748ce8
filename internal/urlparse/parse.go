// Package urlparse extracts resource references from links to the
// community site, so that a copied page URL can stand in for an id.
package urlparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Ref is a resource reference found in a link.
type Ref struct {
	Kind    string // park, event, user, journal or dialog
	ID      int
	OwnerID int // journal owner; 0 for other kinds
}

// Path segments that name a resource kind. The site and the API use
// different words for parks and events; both are accepted.
var kinds = map[string]string{
	"areas":     "park",
	"parks":     "park",
	"trainings": "event",
	"events":    "event",
	"users":     "user",
	"user":      "user",
	"dialogs":   "dialog",
}

var (
	journalPattern  = regexp.MustCompile(`^/(?:api/v\d+/)?users/(\d+)/journals/(\d+)(?:/.*)?$`)
	resourcePattern = regexp.MustCompile(`^/(?:api/v\d+/)?([a-z]+)/(\d+)(?:/.*)?$`)
)

// LooksLikeURL reports whether s should be parsed as a link rather than
// a bare id.
func LooksLikeURL(s string) bool {
	return strings.Contains(s, "://")
}

// Parse extracts the resource a link points at. Query strings and
// fragments are ignored, as is anything after the id.
func Parse(rawURL string) (*Ref, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}

	path := strings.TrimSuffix(parsed.Path, "/")
	if m := journalPattern.FindStringSubmatch(path); m != nil {
		owner, _ := strconv.Atoi(m[1])
		id, _ := strconv.Atoi(m[2])
		if owner > 0 && id > 0 {
			return &Ref{Kind: "journal", ID: id, OwnerID: owner}, nil
		}
	}

	m := resourcePattern.FindStringSubmatch(path)
	if m == nil {
		return nil, fmt.Errorf("unrecognized link %q: expected a park, event, user, journal or dialog page", rawURL)
	}
	kind, ok := kinds[m[1]]
	if !ok {
		return nil, fmt.Errorf("unsupported resource %q in link", m[1])
	}
	id, err := strconv.Atoi(m[2])
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid id %q in link", m[2])
	}
	return &Ref{Kind: kind, ID: id}, nil
}

// ID parses rawURL and checks that it points at a resource of kind.
func ID(rawURL, kind string) (int, error) {
	ref, err := Parse(rawURL)
	if err != nil {
		return 0, err
	}
	if ref.Kind != kind {
		return 0, fmt.Errorf("link points at a %s, expected a %s", ref.Kind, kind)
	}
	return ref.ID, nil
}
