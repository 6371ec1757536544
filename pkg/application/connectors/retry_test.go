package connectors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRetry(t *testing.T) {
	errDown := errors.New("down")

	testCases := []struct {
		name      string
		attempts  int
		failFirst int
		wantCalls int
		wantErr   error
	}{
		{name: "First try", attempts: 3, failFirst: 0, wantCalls: 1},
		{name: "Second try", attempts: 3, failFirst: 1, wantCalls: 2},
		{name: "Exhausted", attempts: 2, failFirst: 5, wantCalls: 2, wantErr: errDown},
		{name: "Zero attempts means one", attempts: 0, failFirst: 5, wantCalls: 1, wantErr: errDown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			calls := 0
			err := retry(context.Background(), tc.attempts, func(context.Context) error {
				calls++
				if calls <= tc.failFirst {
					return errDown
				}
				return nil
			})

			rq.Equal(tc.wantCalls, calls)
			if tc.wantErr != nil {
				rq.ErrorIs(err, tc.wantErr)
			} else {
				rq.NoError(err)
			}
		})
	}
}

func TestRetry_Cancelled(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry(ctx, 5, func(context.Context) error { return errors.New("down") })
	rq.ErrorIs(err, context.Canceled)
}
