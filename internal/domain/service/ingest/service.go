// Package ingest runs one fetch, normalize, classify, translate and store cycle.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"at_deals/internal/domain"
	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
	"at_deals/pkg/contextx"
	"at_deals/pkg/errcodes"
	"at_deals/pkg/logx"
)

const (
	defaultBatchLimit         = 100
	defaultWorkers            = 8
	defaultTranslationWorkers = 4
	defaultWriteTimeout       = 10 * time.Second
	defaultCycleBudget        = 5 * time.Minute
)

type Config struct {
	BatchLimit         int
	Workers            int
	TranslationWorkers int
	WriteTimeout       time.Duration
	CycleBudget        time.Duration
}

type Service struct {
	source     source
	normalizer normalizer
	merchants  merchantResolver
	classifier classifier
	planner    planner
	translator translator
	store      dealStore
	notifier   Notifier
	observer   Observer
	cfg        Config
	now        func() time.Time
}

type Option func(*Service)

// WithTranslator enables translation. Without it deals are stored with empty
// Chinese texts.
func WithTranslator(t translator) Option {
	return func(s *Service) {
		s.translator = t
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

func WithConfig(cfg Config) Option {
	return func(s *Service) {
		if cfg.BatchLimit > 0 {
			s.cfg.BatchLimit = cfg.BatchLimit
		}
		if cfg.Workers > 0 {
			s.cfg.Workers = cfg.Workers
		}
		if cfg.TranslationWorkers > 0 {
			s.cfg.TranslationWorkers = cfg.TranslationWorkers
		}
		if cfg.WriteTimeout > 0 {
			s.cfg.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.CycleBudget > 0 {
			s.cfg.CycleBudget = cfg.CycleBudget
		}
	}
}

func NewService(
	src source,
	n normalizer,
	m merchantResolver,
	c classifier,
	p planner,
	store dealStore,
	opts ...Option,
) *Service {
	s := &Service{
		source:     src,
		normalizer: n,
		merchants:  m,
		classifier: c,
		planner:    p,
		store:      store,
		cfg: Config{
			BatchLimit:         defaultBatchLimit,
			Workers:            defaultWorkers,
			TranslationWorkers: defaultTranslationWorkers,
			WriteTimeout:       defaultWriteTimeout,
			CycleBudget:        defaultCycleBudget,
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// record is one fetched listing on its way to the store.
type record struct {
	nd         entity.NormalizedDeal
	merchant   value.Merchant
	categories value.Categories
	existing   *entity.Deal
	action     value.Action
}

// RunCycle processes one batch. Source and lookup failures abort the cycle;
// per-record failures are counted in the report and never abort the batch.
// Cancelling ctx stops new records from starting while in-flight writes
// finish on a detached context.
func (s *Service) RunCycle(ctx context.Context) (Report, error) {
	cycleID := contextx.NewTraceID().String()
	ctx = contextx.WithTraceID(ctx, contextx.TraceID(cycleID))
	ctx = contextx.WithLogger(ctx, logger(ctx).With(
		slog.String(logx.FieldCycleID, cycleID),
		slog.String(logx.FieldSourceSite, s.source.Site().String()),
	))

	ctx, cancel := context.WithTimeout(ctx, s.cfg.CycleBudget)
	defer cancel()

	t := &tally{r: Report{CycleID: cycleID, Site: s.source.Site(), Started: s.now()}}

	err := s.runCycle(ctx, t)

	report := t.report()
	report.Duration = s.now().Sub(report.Started)

	if s.observer != nil {
		s.observer.CycleCompleted(report, err)
	}

	if err != nil {
		logger(ctx).Error("ingest cycle aborted", append(report.LogAttrs(), logx.Error(err))...)
		return report, err
	}

	logger(ctx).Info("ingest cycle completed", report.LogAttrs()...)

	return report, nil
}

func (s *Service) runCycle(ctx context.Context, t *tally) error {
	raws, err := s.source.FetchBatch(ctx, s.cfg.BatchLimit)
	if err != nil {
		return fmt.Errorf("source.FetchBatch: %w", err)
	}
	t.r.Fetched = len(raws)

	if len(raws) == 0 {
		return nil
	}

	records := s.prepare(ctx, raws)
	records = s.dropUnkeyed(ctx, records, t)

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.nd.Raw.SourceID)
	}

	existing, err := s.store.FindByKeys(ctx, s.source.Site(), ids)
	if err != nil {
		return fmt.Errorf("store.FindByKeys: %w", err)
	}

	for i := range records {
		rec := &records[i]
		rec.existing = existing[rec.nd.Raw.SourceID]
		rec.action = s.planner.Plan(rec.nd, rec.existing)

		// Rows stored while translation was off are backfilled once it is on.
		if s.translator != nil && rec.action == value.ActionTouchOnly && !rec.existing.Translated() {
			rec.action = value.ActionUpdateContent
		}
	}

	s.process(ctx, records, t)

	return nil
}

// prepare runs the pure per-record stages in parallel, keeping input order.
func (s *Service) prepare(ctx context.Context, raws []entity.RawDeal) []record {
	records := make([]record, len(raws))

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Workers)

	for i, raw := range raws {
		g.Go(func() error {
			nd := s.normalizer.Normalize(raw)
			records[i] = record{
				nd:         nd,
				merchant:   s.merchants.Resolve(raw.MerchantNameRaw, raw.MerchantDomainRaw),
				categories: s.classifier.Classify(raw.CategoryLabelsRaw),
			}
			return nil
		})
	}

	_ = g.Wait()

	logger(ctx).Debug("records prepared", slog.Int("count", len(records)))

	return records
}

// dropUnkeyed removes records without a stable key and repeated keys; the
// first occurrence of a key wins.
func (s *Service) dropUnkeyed(ctx context.Context, records []record, t *tally) []record {
	seen := make(map[string]struct{}, len(records))
	kept := records[:0]

	for _, rec := range records {
		if !rec.nd.HasStableKey() {
			logger(ctx).Warn("record without stable key skipped", slog.String("title", rec.nd.Title))
			t.written(value.ActionSkip)
			continue
		}

		if _, dup := seen[rec.nd.Raw.SourceID]; dup {
			logger(ctx).Warn("duplicate record in batch skipped",
				slog.String(logx.FieldSourceID, rec.nd.Raw.SourceID))
			t.written(value.ActionSkip)
			continue
		}

		seen[rec.nd.Raw.SourceID] = struct{}{}
		kept = append(kept, rec)
	}

	return kept
}

// process translates and stores records with at most TranslationWorkers in
// flight. A record that has not started when ctx is done is deferred.
func (s *Service) process(ctx context.Context, records []record, t *tally) {
	g := new(errgroup.Group)
	g.SetLimit(s.cfg.TranslationWorkers)

	for i := range records {
		rec := records[i]

		if ctx.Err() != nil {
			t.deferred()
			continue
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				t.deferred()
				return nil
			}
			s.processRecord(ctx, rec, t)
			return nil
		})
	}

	_ = g.Wait()
}

func (s *Service) processRecord(ctx context.Context, rec record, t *tally) {
	ctx = contextx.WithLogger(ctx, logger(ctx).With(
		slog.String(logx.FieldSourceID, rec.nd.Raw.SourceID),
		slog.String(logx.FieldAction, rec.action.String()),
	))

	deal := s.buildDeal(rec)

	if rec.action.NeedsContent() && s.translator != nil {
		pair, err := s.translator.TranslatePair(ctx, rec.nd.Title, rec.nd.Body)
		if err != nil {
			if domain.HasCode(err, errcodes.AllProvidersExhausted) {
				logger(ctx).Warn("translation unavailable, record deferred", logx.Error(err))
			} else {
				logger(ctx).Warn("translation failed, record deferred", logx.Error(err))
			}
			t.deferred()
			return
		}

		deal.TitleZH = pair.Title.TranslatedText
		deal.BodyZH = pair.Body.TranslatedText
		deal.TranslationProvider = pair.Title.ProviderName
		if deal.TranslationProvider == "" {
			deal.TranslationProvider = pair.Body.ProviderName
		}
	}

	// The write outlives cancellation of the cycle so a started record is
	// either fully stored or not at all.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
	defer cancel()

	if err := s.store.Apply(wctx, rec.action, deal); err != nil {
		logger(ctx).Error("store.Apply", logx.Error(err))
		t.failed()
		return
	}

	t.written(rec.action)

	logger(ctx).Debug("record stored")

	if rec.action == value.ActionInsert && s.notifier != nil {
		s.notifier.DealInserted(wctx, deal)
	}
}

func (s *Service) buildDeal(rec record) *entity.Deal {
	nd := rec.nd

	deal := &entity.Deal{
		SourceSite:            nd.Raw.SourceSite,
		SourceID:              nd.Raw.SourceID,
		TitleDE:               nd.Title,
		BodyDE:                nd.Body,
		MerchantCanonicalName: rec.merchant.CanonicalName,
		MerchantLogoURL:       rec.merchant.LogoURL,
		Categories:            rec.categories,
		PriceCurrent:          nd.Raw.PriceCurrent,
		PriceOriginal:         nd.Raw.PriceOriginal,
		PublishedAt:           nd.Raw.PublishedAt,
		ExpiresAt:             nd.Raw.ExpiresAt,
		SourceURL:             nd.SourceURL,
		ImageURL:              nd.ImageURL,
		RawPayload:            entity.NewRawPayload(nd.Raw),
		ContentFingerprint:    nd.Fingerprint,
		LastSeenAt:            s.now(),
	}
	deal.RecomputeDiscount()

	if rec.existing != nil {
		deal.ID = rec.existing.ID
		deal.CreatedAt = rec.existing.CreatedAt
	}

	return deal
}
