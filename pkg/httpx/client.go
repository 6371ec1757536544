package httpx

import (
	"net/http"
	"time"
)

// NewClient returns an http.Client with a hard per-request timeout whose
// transport is wrapped by the given decorators, outermost first.
func NewClient(timeout time.Duration, wrappers ...func(http.RoundTripper) http.RoundTripper) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport

	for i := len(wrappers) - 1; i >= 0; i-- {
		transport = wrappers[i](transport)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
