package httpx

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Excerpt returns at most maxLen bytes of the trimmed body, cut on a rune
// boundary. Invalid UTF-8 in the body is dropped.
func Excerpt(body []byte, maxLen int) string {
	return strings.ToValidUTF8(string(cutRunes(bytes.TrimSpace(body), maxLen)), "")
}

func cutRunes(b []byte, maxLen int) []byte {
	if maxLen <= 0 || len(b) <= maxLen {
		return b
	}

	n := maxLen
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}

	return b[:n]
}
