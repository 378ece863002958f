package sorter

import "strings"

// Tokenize splits a base filename (no extension) into word tokens.
//
// Each configured split character is tried in order; the first one whose
// split yields at least minTokens non-empty tokens wins. When none reaches
// the threshold the last attempted split is returned anyway so the pipeline
// stays total - a one-token title still gets a lookup attempt.
func Tokenize(baseName string, splitChars []string, minTokens int) []string {
	var tokens []string

	for _, sc := range splitChars {
		tokens = splitNonEmpty(baseName, sc)
		if len(tokens) >= minTokens {
			return tokens
		}
	}

	return tokens
}

// splitNonEmpty splits on a character and drops empty tokens
// (consecutive separators collapse, e.g. "a..b")
func splitNonEmpty(s, sep string) []string {
	parts := strings.Split(s, sep)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
