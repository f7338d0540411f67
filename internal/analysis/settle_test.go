package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettleWithDefault_Success(t *testing.T) {
	got, err := settleWithDefault(context.Background(), time.Second, -1,
		func(ctx context.Context) (int, error) {
			return 42, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestSettleWithDefault_OpError(t *testing.T) {
	opErr := errors.New("upstream down")

	got, err := settleWithDefault(context.Background(), time.Second, "fallback",
		func(ctx context.Context) (string, error) {
			return "", opErr
		})

	assert.Equal(t, "fallback", got)
	assert.ErrorIs(t, err, opErr)
}

func TestSettleWithDefault_Timeout(t *testing.T) {
	start := time.Now()
	got, err := settleWithDefault(context.Background(), 20*time.Millisecond, "fallback",
		func(ctx context.Context) (string, error) {
			select {
			case <-time.After(5 * time.Second):
				return "too late", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		})

	assert.Equal(t, "fallback", got)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "settle must not wait for the slow op")
}

func TestSettleWithDefault_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := settleWithDefault(ctx, time.Second, 7,
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})

	assert.Equal(t, 7, got)
	assert.Error(t, err)
}
