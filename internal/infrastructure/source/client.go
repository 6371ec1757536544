// Package source fetches deal listings from one upstream site.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"at_deals/internal/domain"
	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
	"at_deals/pkg/errcodes"
	"at_deals/pkg/httpx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	FormatJSON = "json"
	FormatHTML = "html"

	bodyExcerptLen  = 256
	maxBodyBytes    = 16 << 20
	defaultTimeout  = 20 * time.Second
	defaultUA       = "at-deals-ingest/1.0"
	limitQueryParam = "limit"
)

type Config struct {
	URL    string
	Site   value.SourceSite
	Format string

	Timeout   time.Duration
	UserAgent string

	AuthToken        string
	AuthHeader       string
	AuthHeaderFormat string
	AuthQueryParam   string
}

type Client struct {
	httpClient *http.Client
	cfg        Config
	now        func() time.Time
}

// NewClient wraps the transport with the given decorators, outermost first.
// The auth decorator is always innermost.
func NewClient(cfg Config, wrappers ...func(http.RoundTripper) http.RoundTripper) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUA
	}
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}

	var authOpts []httpx.AuthOption
	switch {
	case cfg.AuthQueryParam != "":
		authOpts = append(authOpts, httpx.WithAuthQueryParam(cfg.AuthQueryParam))
	case cfg.AuthHeader != "":
		format := cfg.AuthHeaderFormat
		if format == "" {
			format = "%s"
		}
		authOpts = append(authOpts, httpx.WithAuthHeader(cfg.AuthHeader, format))
	}

	wrappers = append(wrappers, func(next http.RoundTripper) http.RoundTripper {
		return httpx.NewAuthTokenRoundTripper(next, cfg.AuthToken, authOpts...)
	})

	return &Client{
		httpClient: httpx.NewClient(cfg.Timeout, wrappers...),
		cfg:        cfg,
		now:        time.Now,
	}
}

func (c *Client) Site() value.SourceSite {
	return c.cfg.Site
}

// FetchBatch performs one GET without retries. Transport failures and
// non-2xx answers carry code SourceUnavailable, unparsable 2xx bodies
// SourceFormatError. Broken items are skipped one by one.
func (c *Client) FetchBatch(ctx context.Context, limit int) ([]entity.RawDeal, error) {
	reqURL, err := c.requestURL(limit)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.SourceUnavailable, "invalid source url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.SourceUnavailable, "build source request")
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.Format == FormatHTML {
		req.Header.Set("Accept", "text/html")
	} else {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(
			&domain.UpstreamFailure{Err: fmt.Errorf("httpClient.Do: %w", err)},
			errcodes.SourceUnavailable,
			"source unavailable",
		)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.WrapError(
			&domain.UpstreamFailure{Status: resp.StatusCode, Err: fmt.Errorf("io.ReadAll: %w", err)},
			errcodes.SourceUnavailable,
			"source unavailable",
		)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domain.WrapError(
			&domain.UpstreamFailure{Status: resp.StatusCode, BodyExcerpt: excerpt(body)},
			errcodes.SourceUnavailable,
			"source unavailable",
		)
	}

	fetchedAt := c.now().UTC()

	var deals []entity.RawDeal
	switch c.cfg.Format {
	case FormatHTML:
		deals, err = parseHTML(ctx, c.cfg.Site, body, fetchedAt)
	default:
		deals, err = parseJSON(ctx, c.cfg.Site, body, fetchedAt)
	}
	if err != nil {
		return nil, domain.WrapError(
			&domain.UpstreamFailure{Status: resp.StatusCode, BodyExcerpt: excerpt(body), Err: err},
			errcodes.SourceFormatError,
			"unexpected source format",
		)
	}

	if limit > 0 && len(deals) > limit {
		deals = deals[:limit]
	}

	return deals, nil
}

func (c *Client) requestURL(limit int) (string, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("url.Parse: %w", err)
	}

	if limit > 0 {
		q := u.Query()
		q.Set(limitQueryParam, strconv.Itoa(limit))
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

func excerpt(b []byte) string {
	return httpx.Excerpt(b, bodyExcerptLen)
}
