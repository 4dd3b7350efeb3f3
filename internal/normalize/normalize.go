// Package normalize defines the canonical token form used when comparing
// resume attributes against job posting requirements. Both sides of a
// comparison must go through this package, otherwise casing or stray
// whitespace would break set intersection.
package normalize

import (
	"sort"
	"strings"
)

// Token returns the canonical form of a single skill or qualification token:
// lowercased, trimmed, with internal whitespace runs collapsed to a single
// space. Returns "" for tokens that are empty after trimming.
func Token(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	return strings.Join(fields, " ")
}

// Tokens normalizes every token, drops empties, deduplicates and sorts the
// result. The sorted order makes downstream output deterministic.
func Tokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	result := make([]string, 0, len(tokens))

	for _, t := range tokens {
		normalized := Token(t)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	sort.Strings(result)
	return result
}

// Set builds a lookup set from already-normalized tokens.
func Set(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
