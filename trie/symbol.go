package trie

import "unicode/utf8"

// NextSymbol decodes the first symbol of word and its width in bytes.
// Valid UTF-8 yields its rune. A byte that does not start a valid encoding
// yields a negative symbol derived from the byte, so two different invalid
// bytes never share a node and neither matches an encoded U+FFFD.
func NextSymbol(word string) (rune, int) {
	c, size := utf8.DecodeRuneInString(word)
	if c == utf8.RuneError && size == 1 {
		return -1 - rune(word[0]), 1
	}
	return c, size
}
