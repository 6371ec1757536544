package entity

import "at_deals/internal/domain/value"

// DealFilter selects stored deals for the read API. Zero fields do not filter.
type DealFilter struct {
	Category value.Category
	Merchant string
	Query    string
	Limit    int
	Offset   int
}

type CategoryCount struct {
	Category value.Category `json:"category"`
	Count    int            `json:"count"`
}

// StoredPayload is what reclassification needs from a stored row.
type StoredPayload struct {
	ID         int64
	RawPayload []byte
	Categories value.Categories
}
