package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
	"at_deals/pkg/logx"
)

var errNoItems = errors.New(`expected an array or an object with "items"`)

// flexString accepts JSON strings and numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("json.Unmarshal: %w", err)
		}
		*f = flexString(s)
		return nil
	}

	if !json.Valid(b) {
		return fmt.Errorf("invalid json value %q", b)
	}
	*f = flexString(b)

	return nil
}

// flexStrings accepts a list of strings or a single string.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var ss []flexString
		if err := json.Unmarshal(b, &ss); err != nil {
			return fmt.Errorf("json.Unmarshal: %w", err)
		}
		*f = make(flexStrings, 0, len(ss))
		for _, s := range ss {
			*f = append(*f, string(s))
		}
		return nil
	}

	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = nil
	if s != "" {
		*f = flexStrings{string(s)}
	}

	return nil
}

type jsonItem struct {
	ID             flexString  `json:"id"`
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	Merchant       string      `json:"merchant"`
	MerchantDomain string      `json:"merchant_domain"`
	Categories     flexStrings `json:"categories"`
	Price          flexString  `json:"price"`
	OriginalPrice  flexString  `json:"original_price"`
	PublishedAt    flexString  `json:"published_at"`
	ExpiresAt      flexString  `json:"expires_at"`
	URL            string      `json:"url"`
	Image          string      `json:"image"`
}

type jsonEnvelope struct {
	Items *[]jsoniter.RawMessage `json:"items"`
}

func parseJSON(ctx context.Context, site value.SourceSite, body []byte, fetchedAt time.Time) ([]entity.RawDeal, error) {
	items, err := splitItems(body)
	if err != nil {
		return nil, err
	}

	deals := make([]entity.RawDeal, 0, len(items))
	for i, raw := range items {
		deal, err := jsonItemToRawDeal(site, raw, fetchedAt)
		if err != nil {
			logger(ctx).Warn(
				"source item skipped",
				slog.String(logx.FieldSourceSite, site.String()),
				slog.Int("index", i),
				logx.Error(err),
			)
			continue
		}
		deals = append(deals, deal)
	}

	return deals, nil
}

func splitItems(body []byte) ([]jsoniter.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errNoItems
	}

	switch body[0] {
	case '[':
		var items []jsoniter.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}
		return items, nil
	case '{':
		var env jsonEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}
		if env.Items == nil {
			return nil, errNoItems
		}
		return *env.Items, nil
	default:
		return nil, errNoItems
	}
}

func jsonItemToRawDeal(site value.SourceSite, raw jsoniter.RawMessage, fetchedAt time.Time) (entity.RawDeal, error) {
	var item jsonItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return entity.RawDeal{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	priceCurrent, err := parsePrice(string(item.Price))
	if err != nil {
		return entity.RawDeal{}, err
	}

	priceOriginal, err := parsePrice(string(item.OriginalPrice))
	if err != nil {
		return entity.RawDeal{}, err
	}

	publishedAt, err := parseTime(string(item.PublishedAt))
	if err != nil {
		return entity.RawDeal{}, err
	}
	if publishedAt.IsZero() {
		publishedAt = fetchedAt
	}

	var expiresAt *time.Time
	if t, err := parseTime(string(item.ExpiresAt)); err != nil {
		return entity.RawDeal{}, err
	} else if !t.IsZero() {
		expiresAt = &t
	}

	return entity.RawDeal{
		SourceID:          strings.TrimSpace(string(item.ID)),
		SourceSite:        site,
		TitleRaw:          item.Title,
		BodyHTMLRaw:       item.Content,
		MerchantNameRaw:   item.Merchant,
		MerchantDomainRaw: merchantDomain(item.MerchantDomain),
		CategoryLabelsRaw: cleanLabels(item.Categories),
		PriceCurrent:      priceCurrent,
		PriceOriginal:     priceOriginal,
		PublishedAt:       publishedAt,
		ExpiresAt:         expiresAt,
		SourceURL:         item.URL,
		ImageURL:          item.Image,
		Payload:           append([]byte(nil), raw...),
		FetchedAt:         fetchedAt,
	}, nil
}

// merchantDomain accepts a bare host or a link to the shop.
func merchantDomain(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "/") {
		return s
	}

	if !strings.Contains(s, "://") {
		s = "https://" + strings.TrimPrefix(s, "//")
	}

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}

	return u.Hostname()
}
