// Package fanout runs a per-key operation over a set of keys with a bounded
// number of operations in flight and merges their results into one stream.
//
// It is used to spread requests over a single southbound endpoint without
// flooding it: the ceiling applies per invocation, so two concurrent
// invocations may each have Limit operations in flight.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the number of per-key operations allowed in flight against
// one remote endpoint when no limit is configured.
const DefaultLimit = 1

// Result is the outcome of one key's operation.
type Result[K comparable, T any] struct {
	Key   K
	Items []T
	Err   error
}

// Stream starts op for every key, keeping at most limit operations in flight,
// and returns a channel carrying one Result per started key. Results arrive in
// completion order, not key order. A failed key does not stop its siblings.
//
// The channel is closed once every started operation has finished. Canceling
// ctx stops new keys from starting and is propagated to in-flight operations;
// a consumer that stops reading must cancel ctx so the workers can exit.
func Stream[K comparable, T any](ctx context.Context, limit int, keys []K, op func(ctx context.Context, key K) ([]T, error)) <-chan Result[K, T] {
	if limit < 1 {
		limit = DefaultLimit
	}
	out := make(chan Result[K, T])

	go func() {
		defer close(out)

		var g errgroup.Group
		g.SetLimit(limit)
		for _, key := range keys {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				items, err := op(ctx, key)
				select {
				case out <- Result[K, T]{Key: key, Items: items, Err: err}:
				case <-ctx.Done():
				}
				return nil
			})
		}
		_ = g.Wait()
	}()

	return out
}

// Collect drains results until the channel closes or the first failure is
// observed, whichever comes first, and returns the merged items. It does not
// cancel anything itself; see Run.
func Collect[K comparable, T any](results <-chan Result[K, T]) ([]T, error) {
	var merged []T
	for res := range results {
		if res.Err != nil {
			return merged, res.Err
		}
		merged = append(merged, res.Items...)
	}
	return merged, nil
}

// Run is Stream followed by Collect. On the first observed failure the
// remaining in-flight operations are canceled and waited for before the error
// is returned, so nothing keeps consuming the endpoint's budget afterwards.
func Run[K comparable, T any](ctx context.Context, limit int, keys []K, op func(ctx context.Context, key K) ([]T, error)) ([]T, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := Stream(runCtx, limit, keys, op)
	merged, err := Collect(results)
	if err != nil {
		cancel()
		for range results {
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return merged, nil
}
