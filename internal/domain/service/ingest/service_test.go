package ingest_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"at_deals/internal/domain"
	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/service/category"
	"at_deals/internal/domain/service/dedup"
	"at_deals/internal/domain/service/ingest"
	"at_deals/internal/domain/service/merchant"
	"at_deals/internal/domain/service/normalize"
	"at_deals/internal/domain/value"
	"at_deals/pkg/errcodes"
)

type fakeSource struct {
	mu    sync.Mutex
	deals []entity.RawDeal
	err   error
}

func (f *fakeSource) Site() value.SourceSite { return value.SourceSiteSparhamster }

func (f *fakeSource) FetchBatch(context.Context, int) ([]entity.RawDeal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]entity.RawDeal(nil), f.deals...), f.err
}

type fakeStore struct {
	mu      sync.Mutex
	deals   map[string]*entity.Deal
	actions map[value.Action]int
	failOn  string
	nextID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{deals: map[string]*entity.Deal{}, actions: map[value.Action]int{}}
}

func (f *fakeStore) FindByKeys(_ context.Context, _ value.SourceSite, ids []string) (map[string]*entity.Deal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := map[string]*entity.Deal{}
	for _, id := range ids {
		if d, ok := f.deals[id]; ok {
			cp := *d
			out[id] = &cp
		}
	}

	return out, nil
}

func (f *fakeStore) Apply(ctx context.Context, action value.Action, deal *entity.Deal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if deal.SourceID == f.failOn {
		return domain.NewError(errcodes.PersistenceError, "boom")
	}

	f.actions[action]++

	switch action {
	case value.ActionTouchOnly:
		f.deals[deal.SourceID].LastSeenAt = deal.LastSeenAt
	case value.ActionInsert, value.ActionUpdateContent:
		cp := *deal
		if existing, ok := f.deals[deal.SourceID]; ok {
			cp.ID = existing.ID
		} else {
			f.nextID++
			cp.ID = f.nextID
		}
		f.deals[deal.SourceID] = &cp
	}

	return nil
}

type fakeTranslator struct {
	mu    sync.Mutex
	calls int
	err   error
	delay time.Duration
}

func (f *fakeTranslator) TranslatePair(ctx context.Context, title, body string) (entity.TranslationPair, error) {
	f.mu.Lock()
	f.calls++
	err := f.err
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return entity.TranslationPair{}, ctx.Err()
		}
	}

	if err != nil {
		return entity.TranslationPair{}, err
	}

	return entity.TranslationPair{
		Title: entity.TranslationResult{TranslatedText: "ZH:" + title, ProviderName: "fake"},
		Body:  entity.TranslationResult{TranslatedText: "ZH:" + body, ProviderName: "fake"},
	}, nil
}

func (f *fakeTranslator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

type fakeNotifier struct {
	mu       sync.Mutex
	inserted []string
}

func (f *fakeNotifier) DealInserted(_ context.Context, deal *entity.Deal) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inserted = append(f.inserted, deal.SourceID)
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func rawDeal(id, title string) entity.RawDeal {
	return entity.RawDeal{
		SourceID:          id,
		SourceSite:        value.SourceSiteSparhamster,
		TitleRaw:          title,
		BodyHTMLRaw:       "<p>Angebot " + id + "</p>",
		MerchantNameRaw:   "Media Markt",
		CategoryLabelsRaw: []string{"Elektronik"},
		PriceCurrent:      price("10.00"),
		PriceOriginal:     price("20.00"),
		PublishedAt:       time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		SourceURL:         "/deals/" + id,
		Payload:           []byte(`{"id":"` + id + `","categories":["Elektronik"]}`),
	}
}

func newService(src *fakeSource, store *fakeStore, opts ...ingest.Option) *ingest.Service {
	return ingest.NewService(
		src,
		normalize.NewNormalizer("https://www.sparhamster.at"),
		merchant.NewResolver("/static/merchants"),
		category.NewClassifier(),
		dedup.NewPlanner(),
		store,
		opts...,
	)
}

func TestRunCycleEndToEnd(t *testing.T) {
	rq := require.New(t)

	src := &fakeSource{deals: []entity.RawDeal{rawDeal("123", "<b>50% Rabatt</b>")}}
	store := newFakeStore()
	tr := &fakeTranslator{}
	notifier := &fakeNotifier{}

	svc := newService(src, store, ingest.WithTranslator(tr), ingest.WithNotifier(notifier))

	report, err := svc.RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal(1, report.Fetched)
	rq.Equal(1, report.Inserted)
	rq.NotEmpty(report.CycleID)

	deal := store.deals["123"]
	rq.NotNil(deal)
	rq.Equal("50% Rabatt", deal.TitleDE)
	rq.Equal("ZH:50% Rabatt", deal.TitleZH)
	rq.Equal("ZH:Angebot 123", deal.BodyZH)
	rq.Equal("fake", deal.TranslationProvider)
	rq.Equal(value.Categories{value.CategoryElectronics}, deal.Categories)
	rq.Equal(50, deal.DiscountPercent)
	rq.Equal("MediaMarkt", deal.MerchantCanonicalName)
	rq.Equal("https://www.sparhamster.at/deals/123", deal.SourceURL)
	rq.Equal([]string{"Elektronik"}, deal.RawPayload.CategoryLabels)
	rq.JSONEq(`{"id":"123","categories":["Elektronik"]}`, string(deal.RawPayload.Item))
	rq.Equal([]string{"123"}, notifier.inserted)
}

func TestRunCycleIdempotent(t *testing.T) {
	rq := require.New(t)

	src := &fakeSource{deals: []entity.RawDeal{rawDeal("1", "Eins"), rawDeal("2", "Zwei")}}
	store := newFakeStore()
	tr := &fakeTranslator{}

	svc := newService(src, store, ingest.WithTranslator(tr))

	first, err := svc.RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal(2, first.Inserted)
	rq.Equal(2, tr.callCount())

	second, err := svc.RunCycle(context.Background())
	rq.NoError(err)
	rq.Zero(second.Inserted)
	rq.Zero(second.Updated)
	rq.Equal(2, second.Touched)
	rq.Equal(2, tr.callCount())
	rq.Zero(store.actions[value.ActionUpdateContent])

	// Whitespace churn upstream is still the same content.
	src.deals[0].TitleRaw = "  Eins \n"
	third, err := svc.RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal(2, third.Touched)

	src.deals[1].PriceCurrent = price("15.00")
	fourth, err := svc.RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal(1, fourth.Updated)
	rq.Equal(1, fourth.Touched)
	rq.Equal(3, tr.callCount())
	rq.Equal(25, store.deals["2"].DiscountPercent)
}

func TestRunCycleProvidersExhausted(t *testing.T) {
	rq := require.New(t)

	src := &fakeSource{deals: []entity.RawDeal{rawDeal("1", "Eins")}}
	store := newFakeStore()
	tr := &fakeTranslator{err: domain.NewError(errcodes.AllProvidersExhausted, "all translation providers exhausted")}

	svc := newService(src, store, ingest.WithTranslator(tr))

	report, err := svc.RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal(1, report.Deferred)
	rq.Empty(store.deals)

	tr.err = nil
	report, err = svc.RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal(1, report.Inserted)
}

func TestRunCycleSourceError(t *testing.T) {
	rq := require.New(t)

	src := &fakeSource{err: domain.NewError(errcodes.SourceUnavailable, "source unavailable")}
	store := newFakeStore()

	report, err := newService(src, store).RunCycle(context.Background())
	rq.Error(err)
	rq.True(domain.HasCode(err, errcodes.SourceUnavailable))
	rq.Zero(report.Fetched)
}

func TestRunCycleRecordErrorsDoNotAbort(t *testing.T) {
	rq := require.New(t)

	noKey := rawDeal("", "Ohne Schlüssel")
	noKey.SourceURL = ""

	src := &fakeSource{deals: []entity.RawDeal{
		rawDeal("1", "Eins"),
		noKey,
		rawDeal("1", "Eins doppelt"),
		rawDeal("bad", "Fehler"),
		rawDeal("3", "Drei"),
	}}
	store := newFakeStore()
	store.failOn = "bad"

	report, err := newService(src, store, ingest.WithTranslator(&fakeTranslator{})).RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal(5, report.Fetched)
	rq.Equal(2, report.Inserted)
	rq.Equal(2, report.Skipped)
	rq.Equal(1, report.Failed)
	rq.Equal("Eins", store.deals["1"].TitleDE)
}

func TestRunCycleWithoutTranslator(t *testing.T) {
	rq := require.New(t)

	src := &fakeSource{deals: []entity.RawDeal{rawDeal("1", "Eins")}}
	store := newFakeStore()

	report, err := newService(src, store).RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal(1, report.Inserted)
	rq.Empty(store.deals["1"].TitleZH)

	// Once translation is available the untranslated row is backfilled.
	tr := &fakeTranslator{}
	report, err = newService(src, store, ingest.WithTranslator(tr)).RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal(1, report.Updated)
	rq.Equal("ZH:Eins", store.deals["1"].TitleZH)

	report, err = newService(src, store, ingest.WithTranslator(tr)).RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal(1, report.Touched)
	rq.Equal(1, tr.callCount())
}

func TestRunCycleStopsStartingRecordsOnCancel(t *testing.T) {
	rq := require.New(t)

	var deals []entity.RawDeal
	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		deals = append(deals, rawDeal(id, "Titel "+id))
	}

	src := &fakeSource{deals: deals}
	store := newFakeStore()
	tr := &fakeTranslator{delay: 50 * time.Millisecond}

	svc := newService(src, store,
		ingest.WithTranslator(tr),
		ingest.WithConfig(ingest.Config{TranslationWorkers: 1, CycleBudget: 80 * time.Millisecond}),
	)

	report, err := svc.RunCycle(context.Background())
	rq.NoError(err)
	rq.Equal(6, report.Fetched)
	rq.Equal(6, report.Inserted+report.Deferred)
	rq.Positive(report.Inserted)
	rq.Positive(report.Deferred)
	rq.Len(store.deals, report.Inserted)
}
