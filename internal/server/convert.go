package server

import (
	"strings"

	"github.com/shopspring/decimal"

	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
	"at_deals/pkg/rest"
)

func newRESTDeal(d *entity.Deal) rest.Deal {
	return rest.Deal{
		ID:                    d.ID,
		SourceSite:            d.SourceSite.String(),
		SourceID:              d.SourceID,
		TitleDE:               d.TitleDE,
		TitleZH:               d.TitleZH,
		BodyDE:                d.BodyDE,
		BodyZH:                d.BodyZH,
		MerchantCanonicalName: d.MerchantCanonicalName,
		MerchantLogoURL:       d.MerchantLogoURL,
		Categories:            value.NewCategories(d.Categories...).Strings(),
		PriceCurrent:          price(d.PriceCurrent),
		PriceOriginal:         price(d.PriceOriginal),
		DiscountPercent:       d.DiscountPercent,
		PublishedAt:           d.PublishedAt,
		ExpiresAt:             d.ExpiresAt,
		SourceURL:             d.SourceURL,
		ImageURL:              d.ImageURL,
		UpdatedAt:             d.UpdatedAt,
	}
}

func newRESTCategory(c entity.CategoryCount) rest.Category {
	return rest.Category{Code: c.Category.String(), Count: c.Count}
}

func price(p decimal.NullDecimal) *string {
	if !p.Valid {
		return nil
	}

	s := p.Decimal.StringFixed(2)

	return &s
}

func newRESTPagination(page, pageSize, total int) rest.Pagination {
	pages := 0
	if total > 0 {
		pages = (total + pageSize - 1) / pageSize
	}

	return rest.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: pages,
	}
}

func newDealFilter(q listQuery) entity.DealFilter {
	category, _ := value.ParseCategory(q.Category)

	return entity.DealFilter{
		Category: category,
		Merchant: strings.TrimSpace(q.Merchant),
		Query:    strings.TrimSpace(q.Query),
		Limit:    q.PageSize,
		Offset:   (q.Page - 1) * q.PageSize,
	}
}
