package speller

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// alphabet is the set of runes used for substitutions and insertions when
// generating edits: unaccented Latin letters plus the Portuguese accented
// letters and cedilla.
var alphabet = []rune("abcdefghijklmnopqrstuvwxyzáàâãéêíóôõúüç")

// IsWordRune reports whether r belongs to the extended-Latin letter set that
// forms words: ASCII letters and U+00C0..U+00FF except × (U+00D7) and ÷ (U+00F7).
func IsWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= 0x00C0 && r <= 0x00FF:
		return r != 0x00D7 && r != 0x00F7
	}
	return false
}

// Token is a contiguous run of the input, either a word or a separator.
type Token struct {
	Text string
	Word bool
}

// Tokenize splits text into alternating word and separator runs. A combining
// mark directly after a word rune stays in the word run, so decomposed accents
// ("a" + U+0301) do not break a word apart. Concatenating every Token.Text
// reproduces text exactly.
func Tokenize(text string) []Token {
	if text == "" {
		return nil
	}
	tokens := make([]Token, 0, 8)
	start := 0
	inWord := false
	for i, r := range text {
		word := IsWordRune(r) || (inWord && unicode.Is(unicode.Mn, r))
		if i == 0 {
			inWord = word
			continue
		}
		if word != inWord {
			tokens = append(tokens, Token{Text: text[start:i], Word: inWord})
			start = i
			inWord = word
		}
	}
	tokens = append(tokens, Token{Text: text[start:], Word: inWord})
	return tokens
}

// Words returns the word runs of text in order, NFC-normalised and lowercased.
func Words(text string) []string {
	var words []string
	for _, tok := range Tokenize(text) {
		if tok.Word {
			words = append(words, strings.ToLower(norm.NFC.String(tok.Text)))
		}
	}
	return words
}
