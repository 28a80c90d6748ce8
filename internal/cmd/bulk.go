package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency caps parallel requests of multi-id commands.
const DefaultConcurrency = 5

// BulkResult is one id's outcome in a multi-id command.
type BulkResult struct {
	ID      int    `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// fetchEach calls fetch once per distinct id, at most limit at a time, and
// echoes each failure to errOut as "<id>: <error>". Results keep the order
// in which ids were first given. Ids not started before ctx ended have no
// result.
func fetchEach[T any](ctx context.Context, ids []int, limit int64, errOut io.Writer, fetch func(context.Context, int) (T, error)) []BulkResult {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	ids = dedupeIDs(ids)
	slots := make([]*BulkResult, len(ids))
	sem := semaphore.NewWeighted(limit)
	var errMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		if err := sem.Acquire(gctx, 1); err != nil || gctx.Err() != nil {
			break
		}
		i, id := i, id
		g.Go(func() error {
			defer sem.Release(1)
			data, err := fetch(gctx, id)
			if err != nil {
				if errOut != nil {
					errMu.Lock()
					_, _ = fmt.Fprintf(errOut, "%d: %s\n", id, err)
					errMu.Unlock()
				}
				slots[i] = &BulkResult{ID: id, Error: err.Error()}
				return nil
			}
			slots[i] = &BulkResult{ID: id, Success: true, Data: data}
			return nil
		})
	}
	_ = g.Wait()

	results := make([]BulkResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results
}

// countResults splits results into successes and failures.
func countResults(results []BulkResult) (ok, failed int) {
	for _, r := range results {
		if r.Success {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}

// dedupeIDs keeps the first occurrence of each id.
func dedupeIDs(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
