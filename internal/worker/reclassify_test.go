package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/service/category"
	"at_deals/internal/domain/value"
)

type fakePayloadStore struct {
	rows    []entity.StoredPayload
	updated map[int64]value.Categories
	listErr error
}

func (f *fakePayloadStore) ListRawPayloads(_ context.Context, afterID int64, limit int) ([]entity.StoredPayload, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	var out []entity.StoredPayload
	for _, row := range f.rows {
		if row.ID > afterID && len(out) < limit {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakePayloadStore) UpdateCategories(_ context.Context, id int64, cats value.Categories) error {
	if f.updated == nil {
		f.updated = map[int64]value.Categories{}
	}
	f.updated[id] = cats
	return nil
}

func payload(labels string) []byte {
	return []byte(`{"sourceSite":"sparhamster","sourceId":"1","categoryLabels":` + labels +
		`,"fetchedAt":"2025-03-01T10:00:00Z","item":{}}`)
}

func newStore() *fakePayloadStore {
	return &fakePayloadStore{rows: []entity.StoredPayload{
		{ID: 1, RawPayload: payload(`["Elektronik"]`), Categories: value.Categories{value.CategoryElectronics}},
		{ID: 2, RawPayload: payload(`["Mode"]`), Categories: value.Categories{value.CategoryOther}},
		{ID: 3, RawPayload: []byte(`not json`), Categories: value.Categories{value.CategoryOther}},
		{ID: 5, RawPayload: payload(`["Reisen"]`), Categories: value.Categories{value.CategoryOther}},
	}}
}

func TestReclassifier_Run(t *testing.T) {
	rq := require.New(t)

	store := newStore()
	var observed int
	r := NewReclassifier(store, category.NewClassifier()).WithObserver(func(n int) { observed = n })

	res, err := r.Run(context.Background(), ReclassifyPayload{BatchSize: 2})
	rq.NoError(err)
	rq.Equal(ReclassifyResult{Scanned: 4, Changed: 2, Invalid: 1}, res)
	rq.Equal(value.Categories{value.CategoryFashion}, store.updated[2])
	rq.Equal(value.Categories{value.CategoryTravel}, store.updated[5])
	rq.NotContains(store.updated, int64(1))
	rq.Equal(2, observed)
}

func TestReclassifier_DryRun(t *testing.T) {
	rq := require.New(t)

	store := newStore()
	res, err := NewReclassifier(store, category.NewClassifier()).
		Run(context.Background(), ReclassifyPayload{DryRun: true})
	rq.NoError(err)
	rq.Equal(2, res.Changed)
	rq.Empty(store.updated)
}

func TestReclassifier_HandleTask(t *testing.T) {
	rq := require.New(t)

	r := NewReclassifier(newStore(), category.NewClassifier())

	task, err := NewReclassifyTask(ReclassifyPayload{BatchSize: 10})
	rq.NoError(err)
	rq.Equal(TaskReclassify, task.Type())
	rq.NoError(r.HandleTask(context.Background(), task))

	err = r.HandleTask(context.Background(), asynq.NewTask(TaskReclassify, []byte("{")))
	rq.ErrorIs(err, asynq.SkipRetry)

	failing := NewReclassifier(&fakePayloadStore{listErr: errors.New("db down")}, category.NewClassifier())
	rq.Error(failing.HandleTask(context.Background(), task))
}
