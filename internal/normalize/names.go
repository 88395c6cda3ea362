package normalize

import (
	"regexp"
	"strings"
)

var (
	multiSpace = regexp.MustCompile(`\s+`)
	separators = strings.NewReplacer("-", " ", "_", " ", "/", " ")
)

// NormalizeLabel lowercases, turns -, _ and / into spaces, collapses
// whitespace, and trims. "Settled-Pending_Docs" → "settled pending docs".
func NormalizeLabel(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	s = separators.Replace(strings.ToLower(s))
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
