// Package sanitize provides filename sanitization for export artifacts.
//
// Resource names, titles and timestamps coming back from the platform API may
// contain path separators and other characters that are not valid in file
// names on common filesystems. Every string that ends up in an artifact name
// goes through this package first.
package sanitize

import (
	"strings"
	"unicode"
)

const (
	// MaxFilenameLength is the default cap for a single name component.
	MaxFilenameLength = 80

	// DefaultName is used when sanitization produces an empty result.
	DefaultName = "untitled"
)

// reserved matches characters that are invalid in file names on at least one
// of the common filesystems (POSIX, NTFS, exFAT).
func reserved(r rune) bool {
	switch r {
	case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
		return true
	}
	return r < 0x20
}

// Filename sanitizes s for use as a file name component, truncated to
// MaxFilenameLength runes.
func Filename(s string) string {
	return FilenameMax(s, MaxFilenameLength)
}

// FilenameMax sanitizes s for use as a file name component.
//
// Rules applied:
//   - a run of path separators, filesystem-reserved characters and
//     whitespace becomes a single underscore
//   - literal underscores in the input pass through unchanged, so joined
//     name segments keep their separators
//   - parentheses are stripped
//   - leading/trailing underscores, dots and dashes are trimmed
//   - result is truncated to max runes (never splitting a rune)
//   - an empty result falls back to DefaultName
//
// The function is total and deterministic: the same input always yields the
// same output, which keeps re-exports idempotent.
func FilenameMax(s string, max int) string {
	if max <= 0 {
		max = MaxFilenameLength
	}

	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			continue
		case reserved(r) || unicode.IsSpace(r):
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		default:
			b.WriteRune(r)
			lastUnderscore = false
		}
	}

	out := strings.Trim(b.String(), "_.-")
	if out == "" {
		return DefaultName
	}

	runes := []rune(out)
	if len(runes) > max {
		out = strings.Trim(string(runes[:max]), "_.-")
		if out == "" {
			return DefaultName
		}
	}
	return out
}
