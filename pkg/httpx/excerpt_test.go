package httpx_test

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"at_deals/pkg/httpx"
)

func TestExcerpt(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		body   string
		maxLen int
		want   string
	}{
		{name: "Short body is trimmed", body: "  bad gateway\n", maxLen: 256, want: "bad gateway"},
		{name: "Cut inside umlaut", body: "Größe", maxLen: 3, want: "Gr"},
		{name: "Cut after umlaut", body: "Größe", maxLen: 4, want: "Grö"},
		{name: "Cut inside CJK rune", body: "你好世界", maxLen: 4, want: "你"},
		{name: "Invalid bytes dropped", body: "\xffabc", maxLen: 256, want: "abc"},
		{name: "Zero length keeps all", body: "abc", maxLen: 0, want: "abc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			got := httpx.Excerpt([]byte(tc.body), tc.maxLen)
			rq.Equal(tc.want, got)
			rq.True(utf8.ValidString(got))
		})
	}
}
