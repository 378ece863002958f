package sorter

import "strings"

// BuildQuery joins title tokens into the provider search string. Movie
// queries join with "+" and drop one leading "the" (conflict-prone in
// search results); TV queries join with spaces. Both are lower-cased.
func BuildQuery(q ParsedQuery) string {
	lowered := make([]string, len(q.TitleTokens))
	for i, tok := range q.TitleTokens {
		lowered[i] = strings.ToLower(tok)
	}

	if q.Type == MediaMovie {
		joined := strings.Join(lowered, "+")
		return strings.TrimPrefix(joined, "the+")
	}

	return strings.Join(lowered, " ")
}

// ApplySearchOverride substitutes a configured replacement query for the
// joined query string. The lookup is exact-match on the lower-cased joined
// form; queries without an override pass through unchanged. The substitution
// happens before the resolver call and is invisible downstream.
func ApplySearchOverride(query string, overrides map[string]string) string {
	if replacement, ok := overrides[query]; ok {
		return replacement
	}
	return query
}
