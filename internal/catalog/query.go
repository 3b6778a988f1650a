package catalog

import (
	"net/url"
	"strings"
)

// All is the wildcard accepted for category and mode filters.
const All = "All"

// Query holds the listing filters. Empty fields behave like All.
type Query struct {
	Category string
	Mode     string
	Search   string
}

// QueryFromValues reads category, mode and q from URL query parameters.
func QueryFromValues(values url.Values) Query {
	return Query{
		Category: strings.TrimSpace(values.Get("category")),
		Mode:     canonicalMode(values.Get("mode")),
		Search:   strings.TrimSpace(values.Get("q")),
	}
}

// Values encodes q back into URL parameters, omitting wildcards so shared links stay short.
func (q Query) Values() url.Values {
	values := url.Values{}
	if !isWildcard(q.Category) {
		values.Set("category", q.Category)
	}
	if !isWildcard(q.Mode) {
		values.Set("mode", q.Mode)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		values.Set("q", s)
	}
	return values
}

// Filter returns the programs matching every criterion in q, preserving input order.
// Mode matching ignores case.
func Filter(programs []Program, q Query) []Program {
	category := strings.TrimSpace(q.Category)
	mode := canonicalMode(q.Mode)
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Program, 0, len(programs))
	for _, p := range programs {
		if !isWildcard(category) && p.Category != category {
			continue
		}
		if !isWildcard(mode) && string(p.Mode) != mode {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Category), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isWildcard(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == All
}

// canonicalMode maps a mode filter onto the spelling used by Modes, leaving unknown values as given.
func canonicalMode(v string) string {
	v = strings.TrimSpace(v)
	for _, m := range Modes {
		if strings.EqualFold(v, string(m)) {
			return string(m)
		}
	}
	return v
}
