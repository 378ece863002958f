package sorter

import (
	"fmt"
	"regexp"

	"github.com/Nomadcxx/mediasort/internal/config"
)

// MetainfoRule is one compiled (pattern -> tag) entry. Rules are evaluated
// in declaration order; order is semantic, not incidental, because it
// defines both match precedence and output ordering.
type MetainfoRule struct {
	Pattern *regexp.Regexp
	Group   string
	Tag     string
}

// CompileMetainfoMap compiles the configured mapping, preserving order
func CompileMetainfoMap(entries []config.MetainfoEntry) ([]MetainfoRule, error) {
	rules := make([]MetainfoRule, 0, len(entries))
	for i, entry := range entries {
		re, err := regexp.Compile(entry.Pattern)
		if err != nil {
			return nil, fmt.Errorf("metainfo pattern %d (%q): %w", i, entry.Pattern, err)
		}
		rules = append(rules, MetainfoRule{
			Pattern: re,
			Group:   entry.Group,
			Tag:     entry.Tag,
		})
	}
	return rules, nil
}

// BuildMetainfo scans the original source filename against the ordered rule
// list and returns the tag sequence. Dedup is by tag value, not by pattern:
// "Blu", "BluRay" and "Blu-Ray" all map to "BD" and contribute it once, at
// the first matching rule's position. An empty result means no metainfo
// block is emitted at all.
func BuildMetainfo(sourceText string, rules []MetainfoRule) []string {
	var tags []string
	seen := make(map[string]bool)

	for _, rule := range rules {
		if seen[rule.Tag] {
			continue
		}
		if rule.Pattern.MatchString(sourceText) {
			tags = append(tags, rule.Tag)
			seen[rule.Tag] = true
		}
	}

	return tags
}
