package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"at_deals/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Password",
			input:  []byte(`{"hello":"world","password":"abc123"}`),
			output: []byte(`{"hello":"world","password":"[MASKED]"}`),
		},
		{
			name:   "Password capital letter",
			input:  []byte(`{"hello":"world","Password":"abc123"}`),
			output: []byte(`{"hello":"world","Password":"[MASKED]"}`),
		},
		{
			name:   "Access token",
			input:  []byte(`{"accessToken":"eyJhbGciOiJFUzI1NiIsInR5cC","refreshToken":"eyJhbGciOiJFUzI1NiIsInR5cCI6IkpXVCJ9"}`),
			output: []byte(`{"accessToken":"[MASKED]","refreshToken":"[MASKED]"}`),
		},
		{
			name:   "Translation api key in body",
			input:  []byte(`{"q":"Hallo","api_key":"libre-secret"}`),
			output: []byte(`{"q":"Hallo","api_key":"[MASKED]"}`),
		},
		{
			name:   "DeepL auth header",
			input:  []byte("POST /v2/translate HTTP/1.1\r\nAuthorization: DeepL-Auth-Key 0000-1111:fx\r\n"),
			output: []byte("POST /v2/translate HTTP/1.1\r\nAuthorization: DeepL-Auth-Key [MASKED]\r\n"),
		},
		{
			name:   "Upstream token header",
			input:  []byte("GET /feed HTTP/1.1\r\nX-Auth-Token: s3cr3t\r\n"),
			output: []byte("GET /feed HTTP/1.1\r\nX-Auth-Token: [MASKED]\r\n"),
		},
		{
			name:   "Query parameter key",
			input:  []byte("POST /language/translate/v2?key=AIzaSy123&format=text HTTP/1.1"),
			output: []byte("POST /language/translate/v2?key=[MASKED]&format=text HTTP/1.1"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}
