package ingest

import (
	"log/slog"
	"sync"
	"time"

	"at_deals/internal/domain/value"
	"at_deals/pkg/logx"
)

// Report summarizes one cycle.
type Report struct {
	CycleID  string
	Site     value.SourceSite
	Started  time.Time
	Duration time.Duration

	Fetched  int
	Inserted int
	Updated  int
	Touched  int
	// Skipped counts records without a stable key and in-batch duplicates.
	Skipped int
	// Deferred records were neither translated nor written; the next cycle retries them.
	Deferred int
	Failed   int
}

func (r Report) LogAttrs() []any {
	return []any{
		slog.String(logx.FieldCycleID, r.CycleID),
		slog.String(logx.FieldSourceSite, r.Site.String()),
		slog.Int("fetched", r.Fetched),
		slog.Int("inserted", r.Inserted),
		slog.Int("updated", r.Updated),
		slog.Int("touched", r.Touched),
		slog.Int("skipped", r.Skipped),
		slog.Int("deferred", r.Deferred),
		slog.Int("failed", r.Failed),
		slog.Int64(logx.FieldDurationMs, r.Duration.Milliseconds()),
	}
}

// tally is the concurrent-safe accumulator behind a Report.
type tally struct {
	mu sync.Mutex
	r  Report
}

func (t *tally) written(action value.Action) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch action {
	case value.ActionInsert:
		t.r.Inserted++
	case value.ActionUpdateContent:
		t.r.Updated++
	case value.ActionTouchOnly:
		t.r.Touched++
	case value.ActionSkip:
		t.r.Skipped++
	}
}

func (t *tally) deferred() {
	t.mu.Lock()
	t.r.Deferred++
	t.mu.Unlock()
}

func (t *tally) failed() {
	t.mu.Lock()
	t.r.Failed++
	t.mu.Unlock()
}

func (t *tally) report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.r
}
