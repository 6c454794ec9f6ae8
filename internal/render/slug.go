package render

import (
	"regexp"
	"strings"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// maxSlugLen caps slugs at a filesystem- and anchor-friendly length.
const maxSlugLen = 50

// Slugify turns free text into a lower-case hyphenated identifier, safe
// for diagram node IDs, anchors, and filenames. Long inputs are truncated
// at a word boundary. Empty or fully non-alphanumeric input yields
// "untitled".
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
		if i := strings.LastIndex(s, "-"); i > 0 {
			s = s[:i]
		}
	}

	if s == "" {
		return "untitled"
	}
	return s
}
