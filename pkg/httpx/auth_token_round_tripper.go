package httpx

import (
	"fmt"
	"net/http"
)

// AuthTokenRoundTripper attaches a static token to every outgoing request,
// either as a header or as a query parameter.
type AuthTokenRoundTripper struct {
	next       http.RoundTripper
	header     string
	headerFmt  string
	queryParam string
	token      string
}

func NewAuthTokenRoundTripper(
	next http.RoundTripper,
	token string,
	opts ...AuthOption,
) AuthTokenRoundTripper {
	rt := AuthTokenRoundTripper{
		next:      next,
		header:    "Authorization",
		headerFmt: "Bearer %s",
		token:     token,
	}

	for _, opt := range opts {
		opt(&rt)
	}

	return rt
}

func (rt AuthTokenRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.token == "" {
		return rt.next.RoundTrip(req) //nolint:wrapcheck
	}

	// RoundTrip must not modify the caller's request.
	req = req.Clone(req.Context())

	if rt.queryParam != "" {
		q := req.URL.Query()
		q.Set(rt.queryParam, rt.token)
		req.URL.RawQuery = q.Encode()
	} else {
		req.Header.Set(rt.header, fmt.Sprintf(rt.headerFmt, rt.token))
	}

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}

type AuthOption func(*AuthTokenRoundTripper)

// WithAuthHeader sends the token in header using format (a single %s verb).
func WithAuthHeader(header, format string) AuthOption {
	return func(rt *AuthTokenRoundTripper) {
		rt.header = header
		rt.headerFmt = format
	}
}

// WithAuthQueryParam sends the token as a query parameter instead of a header.
func WithAuthQueryParam(name string) AuthOption {
	return func(rt *AuthTokenRoundTripper) {
		rt.queryParam = name
	}
}
