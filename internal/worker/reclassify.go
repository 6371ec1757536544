package worker

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
	"at_deals/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	TaskReclassify = "deals:reclassify"
	QueueDefault   = "default"

	defaultReclassifyBatch = 500
)

type ReclassifyPayload struct {
	BatchSize int  `json:"batchSize,omitempty"`
	DryRun    bool `json:"dryRun,omitempty"`
}

type ReclassifyResult struct {
	Scanned int
	Changed int
	Invalid int
}

type payloadStore interface {
	ListRawPayloads(ctx context.Context, afterID int64, limit int) ([]entity.StoredPayload, error)
	UpdateCategories(ctx context.Context, id int64, categories value.Categories) error
}

type reclassifier interface {
	Reclassify(rawPayload []byte) (value.Categories, error)
}

// Reclassifier re-derives categories of stored deals from their raw payload
// after the label table changed.
type Reclassifier struct {
	store      payloadStore
	classifier reclassifier
	onChanged  func(n int)
}

func NewReclassifier(store payloadStore, classifier reclassifier) *Reclassifier {
	return &Reclassifier{
		store:      store,
		classifier: classifier,
		onChanged:  func(int) {},
	}
}

func (r *Reclassifier) WithObserver(onChanged func(n int)) *Reclassifier {
	r.onChanged = onChanged
	return r
}

func NewReclassifyTask(p ReclassifyPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TaskReclassify, b, asynq.MaxRetry(3), asynq.Timeout(30*time.Minute)), nil
}

// HandleTask is the asynq handler for TaskReclassify.
func (r *Reclassifier) HandleTask(ctx context.Context, task *asynq.Task) error {
	var p ReclassifyPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", TaskReclassify, err, asynq.SkipRetry)
		}
	}

	res, err := r.Run(ctx, p)
	if err != nil {
		return fmt.Errorf("reclassify: %w", err)
	}

	logger(ctx).Info("reclassification finished",
		slog.Int("scanned", res.Scanned),
		slog.Int("changed", res.Changed),
		slog.Int("invalid", res.Invalid),
		slog.Bool("dry-run", p.DryRun),
	)

	return nil
}

// Run walks all stored deals in id order. Rows whose payload cannot be decoded
// are counted and left untouched.
func (r *Reclassifier) Run(ctx context.Context, p ReclassifyPayload) (ReclassifyResult, error) {
	batch := p.BatchSize
	if batch <= 0 {
		batch = defaultReclassifyBatch
	}

	var (
		res     ReclassifyResult
		afterID int64
	)

	for {
		rows, err := r.store.ListRawPayloads(ctx, afterID, batch)
		if err != nil {
			return res, fmt.Errorf("list payloads after %d: %w", afterID, err)
		}

		for _, row := range rows {
			afterID = row.ID
			res.Scanned++

			cats, err := r.classifier.Reclassify(row.RawPayload)
			if err != nil {
				res.Invalid++
				logger(ctx).Warn("stored payload is not reclassifiable",
					slog.Int64("deal-id", row.ID), logx.Error(err))
				continue
			}

			if slices.Equal(cats, row.Categories) {
				continue
			}

			if !p.DryRun {
				if err := r.store.UpdateCategories(ctx, row.ID, cats); err != nil {
					return res, fmt.Errorf("update categories of %d: %w", row.ID, err)
				}
			}
			res.Changed++
		}

		if len(rows) < batch {
			break
		}
	}

	if !p.DryRun {
		r.onChanged(res.Changed)
	}

	return res, nil
}
