package i18n

import (
	"sort"
	"strings"
)

// Table is a nested translation table. Leaves are strings; intermediate
// nodes are nested Tables keyed by path segment.
type Table map[string]interface{}

// Resolver resolves dotted translation keys against a set of language tables.
// It carries its fallback chain explicitly instead of reading ambient state,
// so a resolver is safe to construct per request.
type Resolver struct {
	lang     string
	fallback []string
	catalogs map[string]Table
}

// NewResolver creates a resolver for the given language.
// The fallback chain is: requested language, then English, then French,
// then the first available table in lexical order.
func NewResolver(lang string, catalogs map[string]Table) *Resolver {
	if lang == "" {
		lang = "en"
	}
	if catalogs == nil {
		catalogs = BuiltinCatalogs()
	}

	chain := []string{lang}
	for _, fb := range []string{"en", "fr"} {
		if fb != lang {
			chain = append(chain, fb)
		}
	}

	// Deterministic final fallback: first available language not already listed
	var rest []string
	for name := range catalogs {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		if !containsLang(chain, name) {
			chain = append(chain, name)
			break
		}
	}

	return &Resolver{
		lang:     lang,
		fallback: chain,
		catalogs: catalogs,
	}
}

// Lang returns the requested language
func (r *Resolver) Lang() string {
	return r.lang
}

// T resolves a dotted key (e.g. "badge.confirmed") to the best available
// translation. A key present in none of the tables resolves to itself.
func (r *Resolver) T(key string) string {
	for _, lang := range r.fallback {
		table, ok := r.catalogs[lang]
		if !ok {
			continue
		}
		if val, ok := lookup(table, key); ok && val != "" {
			return val
		}
	}
	return key
}

// lookup walks a dotted key through nested tables
func lookup(table Table, key string) (string, bool) {
	segments := strings.Split(key, ".")
	current := table

	for i, seg := range segments {
		val, ok := current[seg]
		if !ok {
			return "", false
		}

		if i == len(segments)-1 {
			s, ok := val.(string)
			return s, ok
		}

		next, ok := val.(Table)
		if !ok {
			// Tables deserialized from JSON/YAML come back as plain maps
			plain, ok := val.(map[string]interface{})
			if !ok {
				return "", false
			}
			next = Table(plain)
		}
		current = next
	}

	return "", false
}

func containsLang(chain []string, lang string) bool {
	for _, c := range chain {
		if c == lang {
			return true
		}
	}
	return false
}
