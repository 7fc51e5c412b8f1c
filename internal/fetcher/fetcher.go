// Package fetcher runs a batch of per-wallet API fetches under a bounded
// concurrency cap. Pacing between requests is the API client's concern; the
// batcher only limits how many fetches are in flight and joins them all.
package fetcher

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// FetchFunc fetches the payload for one wallet address.
type FetchFunc[T any] func(ctx context.Context, address string) (T, error)

// Result pairs an address with its fetched payload or error. A failed fetch
// carries its error here; it never aborts the rest of the batch.
type Result[T any] struct {
	Address string
	Payload T
	Err     error
}

// All fetches every address and returns one result per address, keyed by
// lower-cased address. It returns only once every fetch has completed or
// failed. Each task writes to its own result slot, so no locking is needed.
func All[T any](ctx context.Context, addresses []string, concurrency int, log *logrus.Logger, fetch FetchFunc[T]) map[string]Result[T] {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result[T], len(addresses))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, address := range addresses {
		i, address := i, address
		g.Go(func() error {
			payload, err := fetch(ctx, address)
			results[i] = Result[T]{Address: address, Payload: payload, Err: err}
			if err != nil {
				log.WithError(err).WithField("wallet", address).Warn("Fetch failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	byAddress := make(map[string]Result[T], len(results))
	for _, r := range results {
		byAddress[strings.ToLower(r.Address)] = r
	}
	return byAddress
}
