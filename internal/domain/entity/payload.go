package entity

import (
	"encoding/json"
	"time"

	"at_deals/internal/domain/value"
)

// RawPayload is the envelope stored verbatim in deals.raw_payload. It keeps
// the original category labels next to the upstream item so categories can
// be recomputed from the store alone.
type RawPayload struct {
	SourceSite     value.SourceSite `json:"sourceSite"`
	SourceID       string           `json:"sourceId"`
	CategoryLabels []string         `json:"categoryLabels"`
	FetchedAt      time.Time        `json:"fetchedAt"`
	Item           json.RawMessage  `json:"item,omitempty"`
}

func NewRawPayload(raw RawDeal) RawPayload {
	labels := raw.CategoryLabelsRaw
	if labels == nil {
		labels = []string{}
	}

	return RawPayload{
		SourceSite:     raw.SourceSite,
		SourceID:       raw.SourceID,
		CategoryLabels: labels,
		FetchedAt:      raw.FetchedAt,
		Item:           raw.Payload,
	}
}
