// Package normalize turns fetched listings into clean, fingerprinted records.
package normalize

import (
	"crypto/sha1" //nolint:gosec // used as a short stable key, not for security
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"at_deals/internal/domain/entity"
)

const (
	stableKeyPrefix    = "url:"
	stableKeyHexLength = 16
	fieldSeparator     = "\x1f"
)

type Normalizer struct {
	base *url.URL
}

// NewNormalizer resolves relative links against baseURL. An unparsable or
// empty base leaves relative links untouched.
func NewNormalizer(baseURL string) *Normalizer {
	n := &Normalizer{}
	if u, err := url.Parse(strings.TrimSpace(baseURL)); err == nil && u.IsAbs() {
		n.base = u
	}

	return n
}

// Normalize is pure and total: every input yields a record, an empty title
// included. Callers decide what to do with records lacking a stable key.
func (n *Normalizer) Normalize(raw entity.RawDeal) entity.NormalizedDeal {
	body := parseFragment(raw.BodyHTMLRaw)

	nd := entity.NormalizedDeal{
		Raw:       raw,
		Title:     singleLine(htmlToText(parseFragment(raw.TitleRaw))),
		Body:      htmlToText(body),
		SourceURL: n.resolve(raw.SourceURL),
		ImageURL:  n.resolve(raw.ImageURL),
	}

	if nd.ImageURL == "" {
		if src, ok := body.Find("img[src]").First().Attr("src"); ok {
			nd.ImageURL = n.resolve(src)
		}
	}

	nd.Raw.SourceID = strings.TrimSpace(nd.Raw.SourceID)
	if nd.Raw.SourceID == "" && nd.SourceURL != "" {
		nd.Raw.SourceID = StableKey(nd.SourceURL)
	}

	nd.Fingerprint = Fingerprint(nd)

	return nd
}

// StableKey derives a record id from its resolved URL.
func StableKey(sourceURL string) string {
	sum := sha1.Sum([]byte(sourceURL)) //nolint:gosec // skip

	return stableKeyPrefix + hex.EncodeToString(sum[:])[:stableKeyHexLength]
}

// Fingerprint hashes the content fields that decide whether a stored record
// needs rewriting. Prices are rendered canonically so "19.90" equals "19.9".
func Fingerprint(nd entity.NormalizedDeal) string {
	h := sha256.New()
	h.Write([]byte(strings.Join([]string{
		string(nd.Raw.SourceSite),
		nd.Raw.SourceID,
		nd.Title,
		priceString(nd.Raw.PriceCurrent),
		priceString(nd.Raw.PriceOriginal),
		nd.Body,
	}, fieldSeparator)))

	return hex.EncodeToString(h.Sum(nil))
}

func priceString(p decimal.NullDecimal) string {
	if !p.Valid {
		return ""
	}

	return p.Decimal.String()
}

func (n *Normalizer) resolve(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if n.base != nil {
		u = n.base.ResolveReference(u)
	} else if strings.HasPrefix(raw, "//") {
		u.Scheme = "https"
	}

	return u.String()
}
