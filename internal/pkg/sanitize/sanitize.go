// Package sanitize normalizes free text coming from API callers before it is
// stored or copied into the Activity Log.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// maxPasses bounds the decode and strip loop for deeply nested encodings.
const maxPasses = 4

// Text strips all markup and trims surrounding whitespace. The result is
// stored as plain text, so entities are decoded before the policy runs and
// again after it; this repeats until the value is stable, so entity-encoded
// tags cannot come back out as markup.
func Text(s string) string {
	s = strings.TrimSpace(s)
	for i := 0; i < maxPasses && s != ""; i++ {
		next := strings.TrimSpace(html.UnescapeString(strict.Sanitize(html.UnescapeString(s))))
		if next == s {
			return s
		}
		s = next
	}
	if strings.ContainsAny(s, "<>") {
		// Still unstable: keep the escaped form rather than live markup.
		return strings.TrimSpace(strict.Sanitize(s))
	}
	return s
}

// Email trims and lowercases an address. Emails are compared in this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tags sanitizes each tag and drops the empty ones.
func Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = Text(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
