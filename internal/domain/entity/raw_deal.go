package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"at_deals/internal/domain/value"
)

// RawDeal is one upstream listing as fetched. It is never mutated after the
// source client builds it.
type RawDeal struct {
	SourceID          string
	SourceSite        value.SourceSite
	TitleRaw          string
	BodyHTMLRaw       string
	MerchantNameRaw   string
	MerchantDomainRaw string
	CategoryLabelsRaw []string
	PriceCurrent      decimal.NullDecimal
	PriceOriginal     decimal.NullDecimal
	PublishedAt       time.Time
	ExpiresAt         *time.Time
	SourceURL         string
	ImageURL          string

	// Payload is the upstream item exactly as received.
	Payload   json.RawMessage
	FetchedAt time.Time
}

// NormalizedDeal is a RawDeal after markup stripping, URL resolution and
// fingerprinting.
type NormalizedDeal struct {
	Raw RawDeal

	Title       string
	Body        string
	SourceURL   string
	ImageURL    string
	Fingerprint string
}

// HasStableKey reports whether the record can be addressed by (site, id).
func (n NormalizedDeal) HasStableKey() bool {
	return n.Raw.SourceID != "" && n.Raw.SourceSite != ""
}
