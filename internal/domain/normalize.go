package domain

import (
	"strings"
	"unicode"
)

// NormalizeName prepares a meal name typed into the form:
//   - trims leading/trailing whitespace
//   - collapses each internal whitespace run (tabs, newlines) into one space
//
// Case, diacritics and punctuation are preserved; the name is display text.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(name))
	prevSpace := false
	for _, r := range name {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteByte(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
