package translation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"at_deals/internal/domain"
	"at_deals/pkg/httpx"
)

const bodyExcerptLen = 256

type roundTripperWrapper = func(http.RoundTripper) http.RoundTripper

// newProviderClient puts auth innermost so the logging wrappers never see the credential.
func newProviderClient(timeout time.Duration, auth roundTripperWrapper, wrappers ...roundTripperWrapper) *http.Client {
	if auth != nil {
		wrappers = append(wrappers, auth)
	}

	return httpx.NewClient(timeout, wrappers...)
}

// do sends a request with an optional JSON body and decodes a 2xx JSON
// response into out. Non-2xx responses become domain.UpstreamFailure.
func do(ctx context.Context, client *http.Client, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return &domain.UpstreamFailure{Err: fmt.Errorf("client.Do: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.UpstreamFailure{Status: resp.StatusCode, Err: fmt.Errorf("io.ReadAll: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &domain.UpstreamFailure{Status: resp.StatusCode, BodyExcerpt: excerpt(respBody)}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	return nil
}

func excerpt(b []byte) string {
	return httpx.Excerpt(b, bodyExcerptLen)
}
