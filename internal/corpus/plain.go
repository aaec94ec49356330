package corpus

import (
	"strings"
	"unicode/utf8"
)

// extractPlain returns content as a string. Invalid UTF-8 sequences become
// U+FFFD, which is not a word rune, so they split words instead of aborting.
func extractPlain(content []byte) string {
	if !utf8.Valid(content) {
		return strings.ToValidUTF8(string(content), "\uFFFD")
	}
	return string(content)
}
