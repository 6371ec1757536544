// Package dedup decides what the store has to do with a fetched record.
package dedup

import (
	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
)

type Planner struct{}

func NewPlanner() *Planner {
	return &Planner{}
}

// Plan compares a normalized record against its stored version, if any.
// Records without a stable key are skipped; logging them is up to the caller.
func (p *Planner) Plan(nd entity.NormalizedDeal, existing *entity.Deal) value.Action {
	if !nd.HasStableKey() {
		return value.ActionSkip
	}

	if existing == nil {
		return value.ActionInsert
	}

	if existing.ContentFingerprint == nd.Fingerprint {
		return value.ActionTouchOnly
	}

	return value.ActionUpdateContent
}
