package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"at_deals/internal/domain/value"
)

type Deal struct {
	ID         int64            `json:"id"`
	SourceSite value.SourceSite `json:"sourceSite"`
	SourceID   string           `json:"sourceId"`

	TitleDE string `json:"titleDe"`
	TitleZH string `json:"titleZh"`
	BodyDE  string `json:"bodyDe"`
	BodyZH  string `json:"bodyZh"`

	MerchantCanonicalName string           `json:"merchantCanonicalName"`
	MerchantLogoURL       string           `json:"merchantLogoUrl"`
	Categories            value.Categories `json:"categories"`

	PriceCurrent    decimal.NullDecimal `json:"priceCurrent"`
	PriceOriginal   decimal.NullDecimal `json:"priceOriginal"`
	DiscountPercent int                 `json:"discountPercent"`

	PublishedAt time.Time  `json:"publishedAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	SourceURL   string     `json:"sourceUrl"`
	ImageURL    string     `json:"imageUrl,omitempty"`

	RawPayload          RawPayload `json:"-"`
	ContentFingerprint  string     `json:"-"`
	TranslationProvider string     `json:"-"`

	LastSeenAt time.Time `json:"lastSeenAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

//nolint:gochecknoglobals
var hundred = decimal.NewFromInt(100)

// DiscountPercent returns round((1 - current/original) * 100), or 0 when
// either price is missing or original does not exceed current.
func DiscountPercent(current, original decimal.NullDecimal) int {
	if !current.Valid || !original.Valid {
		return 0
	}

	if !original.Decimal.IsPositive() || original.Decimal.LessThanOrEqual(current.Decimal) {
		return 0
	}

	ratio := current.Decimal.DivRound(original.Decimal, 8)

	return int(decimal.NewFromInt(1).Sub(ratio).Mul(hundred).Round(0).IntPart())
}

// RecomputeDiscount brings DiscountPercent back in sync with the prices.
func (d *Deal) RecomputeDiscount() {
	d.DiscountPercent = DiscountPercent(d.PriceCurrent, d.PriceOriginal)
}

// Translated reports whether both German texts have their Chinese rendering.
// An empty German text needs no translation.
func (d *Deal) Translated() bool {
	return (d.TitleDE == "" || d.TitleZH != "") && (d.BodyDE == "" || d.BodyZH != "")
}
