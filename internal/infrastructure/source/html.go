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

	"github.com/PuerkitoBio/goquery"

	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
	"at_deals/pkg/logx"
)

// Listing markup: one article per deal inside a container marked with
// data-deal-list.
const (
	selectorList          = "[data-deal-list]"
	selectorDeal          = "article[data-deal-id]"
	selectorTitle         = ".deal-title"
	selectorBody          = ".deal-body"
	selectorMerchant      = ".deal-merchant"
	selectorPrice         = ".deal-price"
	selectorPriceOriginal = ".deal-price-original"
	selectorCategory      = ".deal-category"
	selectorExpires       = "time[datetime].deal-expires"
	selectorMerchantLink  = "a.deal-link"
)

// Fallback selectors, most specific first.
var (
	selectorsPublished = []string{"time[datetime].deal-published", "time[datetime]:not(.deal-expires)"} //nolint:gochecknoglobals // skip
	selectorsPermalink = []string{"a.deal-permalink", ".deal-title a"}                                  //nolint:gochecknoglobals // skip
	selectorsImage     = []string{"img.deal-image", "img"}                                              //nolint:gochecknoglobals // skip
)

var errNoListing = errors.New("listing markup not found")

// htmlItem is the scraped view of one article, kept as the raw payload.
type htmlItem struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Merchant      string   `json:"merchant,omitempty"`
	MerchantLink  string   `json:"merchant_link,omitempty"`
	Categories    []string `json:"categories"`
	Price         string   `json:"price,omitempty"`
	OriginalPrice string   `json:"original_price,omitempty"`
	PublishedAt   string   `json:"published_at,omitempty"`
	ExpiresAt     string   `json:"expires_at,omitempty"`
	URL           string   `json:"url,omitempty"`
	Image         string   `json:"image,omitempty"`
	HTML          string   `json:"html"`
}

func parseHTML(ctx context.Context, site value.SourceSite, body []byte, fetchedAt time.Time) ([]entity.RawDeal, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	articles := doc.Find(selectorDeal)
	if articles.Length() == 0 && doc.Find(selectorList).Length() == 0 {
		return nil, errNoListing
	}

	deals := make([]entity.RawDeal, 0, articles.Length())
	articles.Each(func(i int, s *goquery.Selection) {
		deal, err := htmlArticleToRawDeal(site, s, fetchedAt)
		if err != nil {
			logger(ctx).Warn(
				"source item skipped",
				slog.String(logx.FieldSourceSite, site.String()),
				slog.Int("index", i),
				logx.Error(err),
			)
			return
		}
		deals = append(deals, deal)
	})

	return deals, nil
}

func htmlArticleToRawDeal(site value.SourceSite, s *goquery.Selection, fetchedAt time.Time) (entity.RawDeal, error) {
	item := htmlItem{
		ID:            strings.TrimSpace(s.AttrOr("data-deal-id", "")),
		Title:         innerHTML(s.Find(selectorTitle).First()),
		Content:       innerHTML(s.Find(selectorBody).First()),
		Merchant:      strings.TrimSpace(s.Find(selectorMerchant).First().Text()),
		MerchantLink:  strings.TrimSpace(s.Find(selectorMerchantLink).First().AttrOr("href", "")),
		Price:         strings.TrimSpace(s.Find(selectorPrice).First().Text()),
		OriginalPrice: strings.TrimSpace(s.Find(selectorPriceOriginal).First().Text()),
		PublishedAt:   firstAttr(s, "datetime", selectorsPublished...),
		ExpiresAt:     s.Find(selectorExpires).First().AttrOr("datetime", ""),
		URL:           firstAttr(s, "href", selectorsPermalink...),
		Image:         firstAttr(s, "src", selectorsImage...),
		Categories:    []string{},
	}

	s.Find(selectorCategory).Each(func(_ int, c *goquery.Selection) {
		item.Categories = append(item.Categories, c.Text())
	})
	item.Categories = cleanLabels(item.Categories)

	outer, err := goquery.OuterHtml(s)
	if err != nil {
		return entity.RawDeal{}, fmt.Errorf("goquery.OuterHtml: %w", err)
	}
	item.HTML = outer

	priceCurrent, err := parsePrice(item.Price)
	if err != nil {
		return entity.RawDeal{}, err
	}

	priceOriginal, err := parsePrice(item.OriginalPrice)
	if err != nil {
		return entity.RawDeal{}, err
	}

	publishedAt, err := parseTime(item.PublishedAt)
	if err != nil {
		return entity.RawDeal{}, err
	}
	if publishedAt.IsZero() {
		publishedAt = fetchedAt
	}

	var expiresAt *time.Time
	if t, err := parseTime(item.ExpiresAt); err != nil {
		return entity.RawDeal{}, err
	} else if !t.IsZero() {
		expiresAt = &t
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return entity.RawDeal{}, fmt.Errorf("json.Marshal: %w", err)
	}

	return entity.RawDeal{
		SourceID:          item.ID,
		SourceSite:        site,
		TitleRaw:          item.Title,
		BodyHTMLRaw:       item.Content,
		MerchantNameRaw:   item.Merchant,
		MerchantDomainRaw: linkHost(item.MerchantLink),
		CategoryLabelsRaw: item.Categories,
		PriceCurrent:      priceCurrent,
		PriceOriginal:     priceOriginal,
		PublishedAt:       publishedAt,
		ExpiresAt:         expiresAt,
		SourceURL:         item.URL,
		ImageURL:          item.Image,
		Payload:           payload,
		FetchedAt:         fetchedAt,
	}, nil
}

// firstAttr returns the attribute of the first element matched by the
// earliest selector that matches at all.
func firstAttr(s *goquery.Selection, attr string, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := s.Find(sel).First().Attr(attr); ok {
			return strings.TrimSpace(v)
		}
	}

	return ""
}

func innerHTML(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}

	h, err := s.Html()
	if err != nil {
		return s.Text()
	}

	return strings.TrimSpace(h)
}

// linkHost returns the host of an absolute or protocol-relative link.
func linkHost(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}

	return u.Hostname()
}
