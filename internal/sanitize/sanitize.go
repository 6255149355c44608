package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length caps applied to user-authored text before it is embedded in a
// model prompt or mirrored into the feed. Bounds token usage.
const (
	MaxTitleLen   = 200
	MaxPostLen    = 2000
	MaxProfileLen = 500
	MaxStoryLen   = 10000
)

// roleMarkerPattern matches bracketed role/instruction markers that user
// content could use to impersonate prompt structure, e.g. "[system]",
// "[/assistant]", "<|system|>", "[INST]". Stripped, never rewritten.
var roleMarkerPattern = regexp.MustCompile(`(?i)(\[/?\s*(system|assistant|user|instruction|inst|prompt)\s*\]|<\|[^|>]*\|>)`)

// excessWhitespacePattern collapses runs of blank lines and spaces.
var (
	blankLinesPattern = regexp.MustCompile(`\n{3,}`)
	spacesPattern     = regexp.MustCompile(`[ \t]{2,}`)
)

// Text removes embedded role markers, collapses excess whitespace, and
// truncates to max characters. Used on every free-text field that flows
// into a generation prompt or a published post.
func Text(s string, max int) string {
	s = roleMarkerPattern.ReplaceAllString(s, "")
	s = blankLinesPattern.ReplaceAllString(s, "\n\n")
	s = spacesPattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if max > 0 && len(s) > max {
		// Walk back to a rune boundary so multibyte text never gets cut
		// mid-rune.
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

// Title sanitizes a title-length field.
func Title(s string) string {
	return Text(s, MaxTitleLen)
}
