package persistence

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const dealColumns = `
	id, source_site, source_id, title_de, title_zh, body_de, body_zh,
	merchant_canonical_name, merchant_logo_url, categories,
	price_current, price_original, discount_percent,
	published_at, expires_at, source_url, image_url,
	raw_payload, content_fingerprint, translation_provider,
	last_seen_at, created_at, updated_at`

// dealSchema строка таблицы deals.
type dealSchema struct {
	ID                    int64               `db:"id"`
	SourceSite            string              `db:"source_site"`
	SourceID              string              `db:"source_id"`
	TitleDE               string              `db:"title_de"`
	TitleZH               string              `db:"title_zh"`
	BodyDE                string              `db:"body_de"`
	BodyZH                string              `db:"body_zh"`
	MerchantCanonicalName string              `db:"merchant_canonical_name"`
	MerchantLogoURL       string              `db:"merchant_logo_url"`
	Categories            []byte              `db:"categories"`
	PriceCurrent          decimal.NullDecimal `db:"price_current"`
	PriceOriginal         decimal.NullDecimal `db:"price_original"`
	DiscountPercent       int                 `db:"discount_percent"`
	PublishedAt           time.Time           `db:"published_at"`
	ExpiresAt             *time.Time          `db:"expires_at"`
	SourceURL             string              `db:"source_url"`
	ImageURL              string              `db:"image_url"`
	RawPayload            []byte              `db:"raw_payload"`
	ContentFingerprint    string              `db:"content_fingerprint"`
	TranslationProvider   string              `db:"translation_provider"`
	LastSeenAt            time.Time           `db:"last_seen_at"`
	CreatedAt             time.Time           `db:"created_at"`
	UpdatedAt             time.Time           `db:"updated_at"`
}

func dealSchemaFrom(d *entity.Deal) (dealSchema, error) {
	categories, err := json.Marshal(value.NewCategories(d.Categories...).Strings())
	if err != nil {
		return dealSchema{}, fmt.Errorf("marshal categories: %w", err)
	}

	payload, err := json.Marshal(d.RawPayload)
	if err != nil {
		return dealSchema{}, fmt.Errorf("marshal raw payload: %w", err)
	}

	return dealSchema{
		ID:                    d.ID,
		SourceSite:            string(d.SourceSite),
		SourceID:              d.SourceID,
		TitleDE:               d.TitleDE,
		TitleZH:               d.TitleZH,
		BodyDE:                d.BodyDE,
		BodyZH:                d.BodyZH,
		MerchantCanonicalName: d.MerchantCanonicalName,
		MerchantLogoURL:       d.MerchantLogoURL,
		Categories:            categories,
		PriceCurrent:          d.PriceCurrent,
		PriceOriginal:         d.PriceOriginal,
		PublishedAt:           d.PublishedAt,
		ExpiresAt:             d.ExpiresAt,
		SourceURL:             d.SourceURL,
		ImageURL:              d.ImageURL,
		RawPayload:            payload,
		ContentFingerprint:    d.ContentFingerprint,
		TranslationProvider:   d.TranslationProvider,
		LastSeenAt:            d.LastSeenAt,
	}, nil
}

func (s dealSchema) toDomain() (*entity.Deal, error) {
	var codes []value.Category
	if len(s.Categories) > 0 {
		if err := json.Unmarshal(s.Categories, &codes); err != nil {
			return nil, fmt.Errorf("unmarshal categories: %w", err)
		}
	}

	var payload entity.RawPayload
	if len(s.RawPayload) > 0 {
		if err := json.Unmarshal(s.RawPayload, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal raw payload: %w", err)
		}
	}

	return &entity.Deal{
		ID:                    s.ID,
		SourceSite:            value.SourceSite(s.SourceSite),
		SourceID:              s.SourceID,
		TitleDE:               s.TitleDE,
		TitleZH:               s.TitleZH,
		BodyDE:                s.BodyDE,
		BodyZH:                s.BodyZH,
		MerchantCanonicalName: s.MerchantCanonicalName,
		MerchantLogoURL:       s.MerchantLogoURL,
		Categories:            value.NewCategories(codes...),
		PriceCurrent:          s.PriceCurrent,
		PriceOriginal:         s.PriceOriginal,
		DiscountPercent:       s.DiscountPercent,
		PublishedAt:           s.PublishedAt,
		ExpiresAt:             s.ExpiresAt,
		SourceURL:             s.SourceURL,
		ImageURL:              s.ImageURL,
		RawPayload:            payload,
		ContentFingerprint:    s.ContentFingerprint,
		TranslationProvider:   s.TranslationProvider,
		LastSeenAt:            s.LastSeenAt,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}, nil
}

// payloadSchema сырой payload для переклассификации.
type payloadSchema struct {
	ID         int64  `db:"id"`
	RawPayload []byte `db:"raw_payload"`
	Categories []byte `db:"categories"`
}

type categoryCountSchema struct {
	Category string `db:"category"`
	Count    int    `db:"count"`
}
