package model

import "strings"

// Searchable is implemented by records that expose free-text search fields
type Searchable interface {
	SearchFields() []string
}

// MatchesQuery reports whether any field contains query, ignoring case.
// An empty or blank query matches everything.
func MatchesQuery(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Filter returns items matching the query and the optional predicate, preserving order
func Filter[T Searchable](items []T, query string, pred func(T) bool) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if pred != nil && !pred(item) {
			continue
		}
		if !MatchesQuery(query, item.SearchFields()...) {
			continue
		}
		result = append(result, item)
	}
	return result
}

// Identifiable is implemented by records with a backend identity
type Identifiable interface {
	GetID() ID
}
