package fanout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMergesAllKeys(t *testing.T) {
	instances := map[string][]string{
		"type1": {"policy1"},
		"type2": {"policy2", "policy3"},
		"type3": nil,
	}

	got, err := Run(context.Background(), 2, []string{"type1", "type2", "type3"},
		func(_ context.Context, key string) ([]string, error) {
			return instances[key], nil
		})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"policy1", "policy2", "policy3"}, got)
}

func TestRunRespectsLimit(t *testing.T) {
	for _, limit := range []int{0, 1, 3} {
		var inFlight, peak int32
		keys := []int{1, 2, 3, 4, 5, 6, 7, 8}

		_, err := Run(context.Background(), limit, keys, func(_ context.Context, key int) ([]int, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return []int{key}, nil
		})
		require.NoError(t, err)

		want := int32(limit)
		if limit < 1 {
			want = DefaultLimit
		}
		assert.LessOrEqual(t, atomic.LoadInt32(&peak), want, "limit %d", limit)
	}
}

func TestRunFailsWhenAnyKeyFails(t *testing.T) {
	boom := errors.New("boom")

	_, err := Run(context.Background(), 1, []string{"a", "b", "c"}, func(_ context.Context, key string) ([]string, error) {
		if key == "b" {
			return nil, boom
		}
		return []string{key}, nil
	})

	require.ErrorIs(t, err, boom)
}

func TestStreamDoesNotCancelSiblingsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	var completed sync.Map

	results := Stream(context.Background(), 3, []string{"slow1", "fail", "slow2"}, func(ctx context.Context, key string) ([]string, error) {
		if key == "fail" {
			return nil, boom
		}
		select {
		case <-time.After(20 * time.Millisecond):
			completed.Store(key, true)
			return []string{key}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	var errs []error
	var items []string
	for res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
			continue
		}
		items = append(items, res.Items...)
	}

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
	assert.ElementsMatch(t, []string{"slow1", "slow2"}, items)
	_, ok1 := completed.Load("slow1")
	_, ok2 := completed.Load("slow2")
	assert.True(t, ok1 && ok2, "siblings should run to completion")
}

func TestRunPropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var sawCancel atomic.Bool

	done := make(chan error, 1)
	go func() {
		_, err := Run(ctx, 1, []string{"a", "b"}, func(ctx context.Context, key string) ([]string, error) {
			if key == "a" {
				close(started)
			}
			<-ctx.Done()
			sawCancel.Store(true)
			return nil, ctx.Err()
		})
		done <- err
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.True(t, sawCancel.Load())
}

func TestRunEmptyKeys(t *testing.T) {
	got, err := Run(context.Background(), 1, nil, func(context.Context, string) ([]string, error) {
		t.Fatal("op must not be called")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}
