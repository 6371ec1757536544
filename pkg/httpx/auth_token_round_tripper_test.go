package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"at_deals/pkg/httpx"
)

func TestAuthTokenRoundTripper(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name  string
		token string
		opts  []httpx.AuthOption
		check func(r *http.Request)
	}{
		{
			name:  "Default bearer header",
			token: "abc",
			check: func(r *http.Request) {
				rq.Equal("Bearer abc", r.Header.Get("Authorization"))
			},
		},
		{
			name:  "Custom header",
			token: "abc",
			opts:  []httpx.AuthOption{httpx.WithAuthHeader("X-Auth-Token", "%s")},
			check: func(r *http.Request) {
				rq.Equal("abc", r.Header.Get("X-Auth-Token"))
				rq.Empty(r.Header.Get("Authorization"))
			},
		},
		{
			name:  "Query parameter",
			token: "abc",
			opts:  []httpx.AuthOption{httpx.WithAuthQueryParam("token")},
			check: func(r *http.Request) {
				rq.Equal("abc", r.URL.Query().Get("token"))
				rq.Equal("10", r.URL.Query().Get("limit"))
			},
		},
		{
			name: "Empty token is passthrough",
			check: func(r *http.Request) {
				rq.Empty(r.Header.Get("Authorization"))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			httpServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tc.check(r)
				w.WriteHeader(http.StatusOK)
			}))
			defer httpServer.Close()

			client := &http.Client{
				Transport: httpx.NewAuthTokenRoundTripper(http.DefaultTransport, tc.token, tc.opts...),
			}

			req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, httpServer.URL+"?limit=10", http.NoBody)
			rq.NoError(err)

			resp, err := client.Do(req)
			rq.NoError(err)
			resp.Body.Close()

			rq.Empty(req.Header.Get("Authorization"), "original request must stay untouched")
		})
	}
}
