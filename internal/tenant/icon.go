// Package tenant holds the naming rules for tenants: which icons are
// acceptable and what a canonical subdomain looks like.
package tenant

import (
	"unicode/utf16"

	"github.com/forPelevin/gomoji"
	"golang.org/x/text/unicode/norm"
)

// MaxIconLength is the longest icon accepted, in UTF-16 code units. Browsers
// measure the form field the same way, so multi-codepoint emoji (flags, skin
// tones, ZWJ sequences) are counted exactly as the dashboard counts them.
const MaxIconLength = 10

const (
	emojiPresentation = '\ufe0f' // VARIATION SELECTOR-16
	combiningKeycap   = '\u20e3' // COMBINING ENCLOSING KEYCAP
)

// IconLength returns the length of s in UTF-16 code units.
func IconLength(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// ContainsEmoji reports whether s holds at least one emoji: a sequence from
// the Unicode emoji data, or any character turned into an emoji by a
// following presentation selector or keycap mark.
func ContainsEmoji(s string) bool {
	if gomoji.ContainsEmoji(s) {
		return true
	}

	var prev rune
	for i, r := range []rune(s) {
		if i > 0 && (r == emojiPresentation || r == combiningKeycap) && prev != emojiPresentation {
			return true
		}
		prev = r
	}
	return false
}

// IsValidIcon reports whether s is acceptable as a tenant icon: at most
// MaxIconLength long and containing at least one emoji.
func IsValidIcon(s string) bool {
	s = norm.NFC.String(s)

	n := IconLength(s)
	if n == 0 || n > MaxIconLength {
		return false
	}
	return ContainsEmoji(s)
}
