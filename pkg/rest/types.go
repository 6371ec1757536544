// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

// Deal Сделка с оригинальным (de) и переведённым (zh) текстом
type Deal struct {
	ID                    int64      `json:"id"`
	SourceSite            string     `json:"sourceSite"`
	SourceID              string     `json:"sourceId"`
	TitleDE               string     `json:"titleDe"`
	TitleZH               string     `json:"titleZh"`
	BodyDE                string     `json:"bodyDe"`
	BodyZH                string     `json:"bodyZh"`
	MerchantCanonicalName string     `json:"merchantCanonicalName"`
	MerchantLogoURL       string     `json:"merchantLogoUrl"`
	Categories            []string   `json:"categories"`
	PriceCurrent          *string    `json:"priceCurrent"`
	PriceOriginal         *string    `json:"priceOriginal"`
	DiscountPercent       int        `json:"discountPercent"`
	PublishedAt           time.Time  `json:"publishedAt"`
	ExpiresAt             *time.Time `json:"expiresAt"`
	SourceURL             string     `json:"sourceUrl"`
	ImageURL              string     `json:"imageUrl"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// Pagination Параметры страницы
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Filters Применённые фильтры
type Filters struct {
	Category string `json:"category,omitempty"`
	Merchant string `json:"merchant,omitempty"`
	Query    string `json:"q,omitempty"`
}

type DealList struct {
	Deals      []Deal     `json:"deals"`
	Pagination Pagination `json:"pagination"`
	Filters    Filters    `json:"filters"`
}

type DealDetail struct {
	Deal *Deal `json:"deal"`
}

type Category struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

type CategoryList struct {
	Categories []Category `json:"categories"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
