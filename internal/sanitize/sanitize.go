// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sanitize maps Confluence page titles to filesystem-safe path
// segments.
package sanitize

import (
	"strings"
	"unicode"
)

// trimSet holds the separator-like characters stripped from both ends of a
// sanitized segment.
const trimSet = "-._"

// Sanitize converts a page title into a single path segment. Path separators,
// whitespace, and control characters become hyphens, and any run of two or
// more non-alphanumeric characters collapses into one hyphen, so ".." can
// never survive into the output. Leading and trailing separator-like
// characters are trimmed. Returns "untitled" when nothing remains.
//
// Distinct titles can sanitize to the same segment; collisions are not
// detected here.
func Sanitize(title string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '-'
		case unicode.IsSpace(r) || unicode.IsControl(r):
			return '-'
		default:
			return r
		}
	}, title)

	var b strings.Builder
	b.Grow(len(mapped))
	run := make([]rune, 0, 4)
	flush := func() {
		if len(run) == 1 {
			b.WriteRune(run[0])
		} else if len(run) > 1 {
			b.WriteRune('-')
		}
		run = run[:0]
	}
	for _, r := range mapped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			flush()
			b.WriteRune(r)
			continue
		}
		run = append(run, r)
	}
	flush()

	out := strings.Trim(b.String(), trimSet)
	if out == "" {
		return "untitled"
	}
	return out
}
