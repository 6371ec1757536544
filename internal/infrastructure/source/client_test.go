package source_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"at_deals/internal/domain"
	"at_deals/internal/domain/value"
	"at_deals/internal/infrastructure/source"
	"at_deals/pkg/errcodes"
)

const jsonFeed = `{"items": [
	{
		"id": 4711,
		"title": "Kaffeemaschine <b>50% Rabatt</b>",
		"content": "<p>Nur heute</p>",
		"merchant": "Media Markt",
		"merchant_domain": "https://www.mediamarkt.at/de/product/4711",
		"categories": ["Elektronik", "Haushalt"],
		"price": "49,99 €",
		"original_price": 99.99,
		"published_at": "2025-03-01T10:00:00+01:00",
		"url": "/deals/4711",
		"image": "//cdn.example.at/4711.jpg"
	},
	{"id": "x-2", "title": "Defekter Preis", "price": "auf Anfrage"},
	{"id": "x-3", "title": "Defektes Datum", "published_at": "gestern"},
	{"id": "x-4", "title": "Ohne Preis", "categories": "Reisen"}
]}`

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv
}

func TestFetchBatchJSON(t *testing.T) {
	rq := require.New(t)

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("10", r.URL.Query().Get("limit"))
		rq.Equal("Bearer secret", r.Header.Get("Authorization"))
		rq.Equal("at-deals-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, jsonFeed)
	})

	client := source.NewClient(source.Config{
		URL:              srv.URL + "/api/deals",
		Site:             value.SourceSiteSparhamster,
		Format:           source.FormatJSON,
		Timeout:          time.Second,
		UserAgent:        "at-deals-test",
		AuthToken:        "secret",
		AuthHeader:       "Authorization",
		AuthHeaderFormat: "Bearer %s",
	})

	deals, err := client.FetchBatch(context.Background(), 10)
	rq.NoError(err)
	rq.Len(deals, 2)

	first := deals[0]
	rq.Equal("4711", first.SourceID)
	rq.Equal(value.SourceSiteSparhamster, first.SourceSite)
	rq.Equal("Media Markt", first.MerchantNameRaw)
	rq.Equal("www.mediamarkt.at", first.MerchantDomainRaw)
	rq.Equal([]string{"Elektronik", "Haushalt"}, first.CategoryLabelsRaw)
	rq.Equal("49.99", first.PriceCurrent.Decimal.String())
	rq.Equal("99.99", first.PriceOriginal.Decimal.String())
	rq.Equal(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), first.PublishedAt)
	rq.Nil(first.ExpiresAt)
	rq.Contains(string(first.Payload), `"id": 4711`)
	rq.False(first.FetchedAt.IsZero())

	second := deals[1]
	rq.Equal("x-4", second.SourceID)
	rq.False(second.PriceCurrent.Valid)
	rq.Equal([]string{"Reisen"}, second.CategoryLabelsRaw)
	rq.Equal(second.FetchedAt, second.PublishedAt)
}

func TestFetchBatchTopLevelArrayAndQueryAuth(t *testing.T) {
	rq := require.New(t)

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("secret", r.URL.Query().Get("token"))
		_, _ = io.WriteString(w, `[{"id": 1, "title": "A"}, {"id": 2, "title": "B"}, {"id": 3, "title": "C"}]`)
	})

	client := source.NewClient(source.Config{
		URL:            srv.URL,
		Site:           value.SourceSitePreisjaeger,
		AuthToken:      "secret",
		AuthQueryParam: "token",
	})

	deals, err := client.FetchBatch(context.Background(), 2)
	rq.NoError(err)
	rq.Len(deals, 2)
	rq.Equal("1", deals[0].SourceID)
	rq.Equal("2", deals[1].SourceID)
}

func TestFetchBatchErrors(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		status   int
		body     string
		code     string
		upstream int
	}{
		{
			name:     "Server error",
			status:   http.StatusBadGateway,
			body:     "bad gateway",
			code:     string(errcodes.SourceUnavailable),
			upstream: http.StatusBadGateway,
		},
		{
			name:     "Not found",
			status:   http.StatusNotFound,
			code:     string(errcodes.SourceUnavailable),
			upstream: http.StatusNotFound,
		},
		{
			name:     "Captcha page instead of JSON",
			status:   http.StatusOK,
			body:     "<html>captcha wall please verify</html>",
			code:     string(errcodes.SourceFormatError),
			upstream: http.StatusOK,
		},
		{
			name:     "Object without items",
			status:   http.StatusOK,
			body:     `{"data": []}`,
			code:     string(errcodes.SourceFormatError),
			upstream: http.StatusOK,
		},
		{
			name:     "Truncated JSON",
			status:   http.StatusOK,
			body:     `{"items": [{"id": 1`,
			code:     string(errcodes.SourceFormatError),
			upstream: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			client := source.NewClient(source.Config{URL: srv.URL, Site: value.SourceSiteSparhamster})

			deals, err := client.FetchBatch(context.Background(), 0)
			rq.Error(err)
			rq.Nil(deals)

			code, ok := domain.GetCode(err)
			rq.True(ok)
			rq.Equal(tc.code, code.String())

			if tc.upstream != 0 {
				var upstream *domain.UpstreamFailure
				rq.True(errors.As(err, &upstream))
				rq.Equal(tc.upstream, upstream.Status)
				rq.Equal(tc.body, upstream.BodyExcerpt)
				rq.Contains(err.Error(), tc.body)
			}
		})
	}
}

func TestFetchBatchUnreachable(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := source.NewClient(source.Config{URL: url, Site: value.SourceSiteSparhamster, Timeout: time.Second})

	_, err := client.FetchBatch(context.Background(), 0)
	rq.True(domain.HasCode(err, errcodes.SourceUnavailable))
}

const htmlFeed = `<!doctype html>
<html><body>
<section data-deal-list>
  <article data-deal-id="901">
    <h2 class="deal-title"><a href="/deal/901">Laufschuhe <em>-40%</em></a></h2>
    <div class="deal-body"><p>Viele Größen</p><script>track()</script></div>
    <span class="deal-merchant">Hervis</span>
    <a class="deal-link" href="https://www.hervis.at/schuhe">Zum Deal</a>
    <span class="deal-price">59,99 €</span>
    <span class="deal-price-original">99,99 €</span>
    <span class="deal-category">Sport</span><span class="deal-category">Mode</span>
    <time datetime="2025-03-02T08:00:00Z">gestern</time>
    <img class="deal-image" src="/img/901.jpg">
  </article>
  <article data-deal-id="902">
    <h2 class="deal-title">Kaputt</h2>
    <span class="deal-price">auf Anfrage</span>
  </article>
</section>
</body></html>`

func TestFetchBatchHTML(t *testing.T) {
	rq := require.New(t)

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("text/html", r.Header.Get("Accept"))
		_, _ = io.WriteString(w, htmlFeed)
	})

	client := source.NewClient(source.Config{URL: srv.URL, Site: value.SourceSiteMyDealzAT, Format: source.FormatHTML})

	deals, err := client.FetchBatch(context.Background(), 0)
	rq.NoError(err)
	rq.Len(deals, 1)

	d := deals[0]
	rq.Equal("901", d.SourceID)
	rq.Contains(d.TitleRaw, "Laufschuhe")
	rq.Contains(d.BodyHTMLRaw, "Viele Größen")
	rq.Equal("Hervis", d.MerchantNameRaw)
	rq.Equal("www.hervis.at", d.MerchantDomainRaw)
	rq.Equal([]string{"Sport", "Mode"}, d.CategoryLabelsRaw)
	rq.Equal("59.99", d.PriceCurrent.Decimal.String())
	rq.Equal("99.99", d.PriceOriginal.Decimal.String())
	rq.Equal(time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC), d.PublishedAt)
	rq.Equal("/deal/901", d.SourceURL)
	rq.Equal("/img/901.jpg", d.ImageURL)
	rq.Contains(string(d.Payload), `"id":"901"`)
}

func TestFetchBatchHTMLWithoutListing(t *testing.T) {
	rq := require.New(t)

	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html><body><h1>Wartungsarbeiten</h1></body></html>")
	})

	client := source.NewClient(source.Config{URL: srv.URL, Site: value.SourceSiteMyDealzAT, Format: source.FormatHTML})

	_, err := client.FetchBatch(context.Background(), 0)
	rq.True(domain.HasCode(err, errcodes.SourceFormatError))
}

const htmlFeedOutOfOrder = `<html><body><section data-deal-list>
  <article data-deal-id="903">
    <img src="/img/avatar.png">
    <h2 class="deal-title"><a href="/go/903">Zelt</a></h2>
    <time class="deal-expires" datetime="2025-12-31T00:00:00Z">bis Jahresende</time>
    <time class="deal-published" datetime="2025-03-01T12:00:00Z">heute</time>
    <a class="deal-permalink" href="/deal/903">Details</a>
    <img class="deal-image" src="/img/903.jpg">
  </article>
  <article data-deal-id="904">
    <h2 class="deal-title">Schlafsack</h2>
    <time class="deal-expires" datetime="2025-11-30T00:00:00Z">bald</time>
    <time datetime="2025-04-05T06:00:00Z">gestern</time>
  </article>
</section></body></html>`

func TestFetchBatchHTMLSelectorPriority(t *testing.T) {
	rq := require.New(t)

	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, htmlFeedOutOfOrder)
	})

	client := source.NewClient(source.Config{URL: srv.URL, Site: value.SourceSiteMyDealzAT, Format: source.FormatHTML})

	deals, err := client.FetchBatch(context.Background(), 0)
	rq.NoError(err)
	rq.Len(deals, 2)

	marked := deals[0]
	rq.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), marked.PublishedAt)
	rq.NotNil(marked.ExpiresAt)
	rq.Equal(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), *marked.ExpiresAt)
	rq.Equal("/deal/903", marked.SourceURL)
	rq.Equal("/img/903.jpg", marked.ImageURL)

	unmarked := deals[1]
	rq.Equal(time.Date(2025, 4, 5, 6, 0, 0, 0, time.UTC), unmarked.PublishedAt)
	rq.NotNil(unmarked.ExpiresAt)
	rq.Equal(time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC), *unmarked.ExpiresAt)
}
