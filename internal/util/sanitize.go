package util

import (
	"strings"
	"unicode"
)

// CleanText trims s, drops control and invisible format characters and
// collapses runs of whitespace into a single space. Newlines survive when
// keepNewlines is set, so descriptions keep their paragraphs.
func CleanText(s string, keepNewlines bool) string {
	builder := strings.Builder{}
	builder.Grow(len(s))

	pendingSpace := false
	for _, char := range strings.TrimSpace(s) {
		switch {
		case char == '\n' && keepNewlines:
			builder.WriteRune('\n')
			pendingSpace = false
		case unicode.IsSpace(char):
			pendingSpace = true
		case unicode.IsControl(char) || isInvisibleUnicode(char):
			continue
		default:
			if pendingSpace && builder.Len() > 0 && !strings.HasSuffix(builder.String(), "\n") {
				builder.WriteRune(' ')
			}
			pendingSpace = false
			builder.WriteRune(char)
		}
	}

	return strings.TrimSpace(builder.String())
}

// TruncateRunes cuts s to at most max runes without splitting characters.
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if max < 0 || len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // zero-width space
		'\u200C',
		'\u200D',
		'\u200E',
		'\u200F',
		'\u2060',
		'\uFEFF', // BOM
		'\uFFF9',
		'\uFFFA',
		'\uFFFB':
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
