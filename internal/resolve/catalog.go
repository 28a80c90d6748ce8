// Package resolve turns user-typed names (countries, cities, park kinds)
// into API ids with fuzzy matching.
package resolve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ambiguityShown caps the candidates listed in an AmbiguousError.
const ambiguityShown = 5

// ErrEmptyQuery is returned by Lookup for a blank query.
var ErrEmptyQuery = errors.New("empty search query")

// Named is a catalog entry: an API id and the name people type for it.
type Named struct {
	ID   int
	Name string
}

// Catalog is a searchable list of named ids. It implements fuzzy.Source
// over lowercased names.
type Catalog []Named

func (c Catalog) String(i int) string { return strings.ToLower(c[i].Name) }
func (c Catalog) Len() int            { return len(c) }

// NotFoundError reports a query that matched no entry.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	if _, err := strconv.Atoi(e.Query); err == nil {
		return fmt.Sprintf("unknown id %s", e.Query)
	}
	return fmt.Sprintf("nothing matches %q", e.Query)
}

// AmbiguousError reports a query whose best fuzzy matches tie.
type AmbiguousError struct {
	Query      string
	Candidates Catalog
}

func (e *AmbiguousError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, n := range e.Candidates {
		names[i] = fmt.Sprintf("%s (%d)", n.Name, n.ID)
	}
	return fmt.Sprintf("%q is ambiguous, candidates: %s", e.Query, strings.Join(names, ", "))
}

// Lookup resolves query to an id. A number must be a known id, an exact
// case-insensitive name wins outright, and otherwise the single best fuzzy
// match is taken.
func (c Catalog) Lookup(query string) (int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, ErrEmptyQuery
	}
	if id, err := strconv.Atoi(query); err == nil {
		if c.Has(id) {
			return id, nil
		}
		return 0, &NotFoundError{Query: query}
	}
	for _, n := range c {
		if strings.EqualFold(n.Name, query) {
			return n.ID, nil
		}
	}

	ranked := fuzzy.FindFrom(strings.ToLower(query), c)
	switch {
	case len(ranked) == 0:
		return 0, &NotFoundError{Query: query}
	case len(ranked) > 1 && ranked[0].Score == ranked[1].Score:
		return 0, &AmbiguousError{Query: query, Candidates: c.pick(ranked, ambiguityShown)}
	}
	return c[ranked[0].Index].ID, nil
}

// Search returns up to limit entries matching query, best first. A blank
// query returns the whole catalog.
func (c Catalog) Search(query string, limit int) Catalog {
	query = strings.TrimSpace(query)
	if query == "" {
		return c
	}
	return c.pick(fuzzy.FindFrom(strings.ToLower(query), c), limit)
}

func (c Catalog) pick(ranked fuzzy.Matches, limit int) Catalog {
	if limit < len(ranked) {
		ranked = ranked[:max(limit, 0)]
	}
	out := make(Catalog, len(ranked))
	for i, m := range ranked {
		out[i] = c[m.Index]
	}
	return out
}

// Has reports whether id is in the catalog.
func (c Catalog) Has(id int) bool {
	for _, n := range c {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Name returns the name for id, or the id itself when unknown.
func (c Catalog) Name(id int) string {
	for _, n := range c {
		if n.ID == id {
			return n.Name
		}
	}
	return strconv.Itoa(id)
}
