package repository

import (
	"context"
	"sync"

	"milk-admin/src/models"
)

// ListDays calls list once per day with at most concurrency requests in
// flight and concatenates the results in day order. The first failure
// cancels the remaining requests and is returned.
func ListDays[T any](ctx context.Context, days []models.Date, concurrency int, list func(context.Context, models.Date) ([]T, error)) ([]T, error) {
	if len(days) == 0 {
		return []T{}, nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([][]T, len(days))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var once sync.Once
	var firstErr error

	for i, d := range days {
		wg.Add(1)
		go func(i int, d models.Date) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			entries, err := list(ctx, d)
			if err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			results[i] = entries
		}(i, d)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// cancel has not run yet, so this is the caller's context ending
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]T, 0)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
