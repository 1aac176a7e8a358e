// Package query is the catalog and directory query engine: free-text search,
// exact-match filtering and recency ordering over record collections.
//
// Every function here is pure. Inputs are read, never modified or retained,
// and results are freshly allocated slices, so callers may hand in the
// collections they own without copying them first.
package query

import "strings"

// All is the filter sentinel meaning "no restriction on this field".
// The empty string is treated the same way.
const All = "all"

// Field is one searchable attribute of a record kind.
//
// Descriptive fields match case-insensitively. Verbatim fields are
// identifier-like (ISBN) and match the term exactly as typed.
type Field[T any] struct {
	Name     string
	Value    func(T) string
	Verbatim bool
}

// matcher holds a term prepared once per query.
type matcher struct {
	term  string
	lower string
	blank bool
}

func newMatcher(term string) matcher {
	return matcher{
		term:  term,
		lower: strings.ToLower(term),
		blank: strings.TrimSpace(term) == "",
	}
}

// matchAny reports whether any field of r contains the term.
// A blank term matches every record.
func matchAny[T any](m matcher, r T, fields []Field[T]) bool {
	if m.blank {
		return true
	}
	for _, f := range fields {
		v := f.Value(r)
		if f.Verbatim {
			if strings.Contains(v, m.term) {
				return true
			}
			continue
		}
		if strings.Contains(strings.ToLower(v), m.lower) {
			return true
		}
	}
	return false
}

// MatchTerm reports whether r matches term on any of fields.
func MatchTerm[T any](r T, term string, fields []Field[T]) bool {
	return matchAny(newMatcher(term), r, fields)
}

// active reports whether a filter value restricts anything.
func active(filter string) bool {
	return filter != "" && filter != All
}

// equalsFilter is the exact, case-sensitive filter predicate.
func equalsFilter(filter, value string) bool {
	return !active(filter) || filter == value
}

// Filter returns the records satisfying keep, in input order.
// The result is never nil so that an empty match serialises as [].
func Filter[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Options returns the sentinel followed by the distinct values of field in
// first-seen order. Blank values are skipped. The list is rebuilt on every
// call and reflects exactly the collection passed in.
func Options[T any](records []T, field func(T) string) []string {
	out := []string{All}
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
