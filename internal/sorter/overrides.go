package sorter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ApplyNameOverride replaces a resolved title with its configured override.
// The mapping is already scoped to one media type by the caller; a TV
// override never touches a movie title. Runs before SuffixThe, so override
// values should be phrased pre-suffix.
func ApplyNameOverride(title string, overrides map[string]string) string {
	if replacement, ok := overrides[title]; ok {
		return replacement
	}
	return title
}

// SuffixThe moves a leading "The " to a trailing ", The" for sort-friendly
// display. Idempotent: its own output never starts with "The " again, and a
// title already carrying the suffix is left alone.
func SuffixThe(title string, enabled bool) string {
	if !enabled {
		return title
	}
	if strings.HasSuffix(title, ", The") {
		return title
	}
	rest, ok := strings.CutPrefix(title, "The ")
	if !ok || rest == "" {
		return title
	}
	return rest + ", The"
}

var titleCaser = cases.Title(language.English)

// LocalFallbackTitle synthesizes a display title from the parsed title
// tokens when metadata lookup fails and fallback is enabled. Tokens are
// title-cased and joined with spaces; good enough to keep the file moving
// through the library instead of stranding it in the inbox.
func LocalFallbackTitle(tokens []string) string {
	return titleCaser.String(strings.Join(tokens, " "))
}
