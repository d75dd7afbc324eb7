package stats

import "strings"

// Predicate selects records.
type Predicate[T any] func(T) bool

// Filter returns the records matching every predicate. Nil predicates are
// ignored, so optional filters can be passed unconditionally.
func Filter[T any](records []T, predicates ...Predicate[T]) []T {
	match := And(predicates...)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

// And combines predicates. With no predicates everything matches.
func And[T any](predicates ...Predicate[T]) Predicate[T] {
	return func(r T) bool {
		for _, p := range predicates {
			if p != nil && !p(r) {
				return false
			}
		}
		return true
	}
}

// MatchesAny reports whether search occurs, case-insensitively, in any of
// the fields. An empty search matches everything.
func MatchesAny(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// Search builds a predicate matching the text against the searchable
// fields of a record. It returns nil for an empty search.
func Search[T any](search string, fields func(T) []string) Predicate[T] {
	if strings.TrimSpace(search) == "" {
		return nil
	}
	return func(r T) bool {
		return MatchesAny(search, fields(r)...)
	}
}

// Equals builds a predicate comparing a field to want. It returns nil when
// want is empty so an unset filter does not exclude anything.
func Equals[T any](want string, field func(T) string) Predicate[T] {
	if want == "" {
		return nil
	}
	return func(r T) bool {
		return strings.EqualFold(field(r), want)
	}
}
