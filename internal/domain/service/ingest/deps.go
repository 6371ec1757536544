package ingest

import (
	"context"

	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
)

type source interface {
	Site() value.SourceSite
	FetchBatch(ctx context.Context, limit int) ([]entity.RawDeal, error)
}

type normalizer interface {
	Normalize(raw entity.RawDeal) entity.NormalizedDeal
}

type merchantResolver interface {
	Resolve(nameRaw, domain string) value.Merchant
}

type classifier interface {
	Classify(labels []string) value.Categories
}

type planner interface {
	Plan(nd entity.NormalizedDeal, existing *entity.Deal) value.Action
}

type translator interface {
	TranslatePair(ctx context.Context, title, body string) (entity.TranslationPair, error)
}

type dealStore interface {
	FindByKeys(ctx context.Context, site value.SourceSite, sourceIDs []string) (map[string]*entity.Deal, error)
	Apply(ctx context.Context, action value.Action, deal *entity.Deal) error
}

// Notifier is told about every newly inserted deal.
type Notifier interface {
	DealInserted(ctx context.Context, deal *entity.Deal)
}

// Observer receives cycle outcomes for metrics.
type Observer interface {
	CycleCompleted(report Report, err error)
}
