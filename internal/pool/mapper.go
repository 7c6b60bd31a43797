// Package pool provides the ordered fan-out primitive the harvest
// pipeline is built from: run one operation per input under a fixed
// concurrency ceiling and reassemble the results in input order.
package pool

import (
	"context"
	"sync"
	"time"
)

// Options controls a mapped fan-out.
type Options struct {
	// Limit is the maximum number of in-flight operations. Values < 1
	// are treated as 1.
	Limit int
	// Delay is slept by each operation before it starts, staggering
	// call starts against the remote portal.
	Delay time.Duration
}

// Map runs op once per item, at most opts.Limit concurrently, and
// returns the kept results in the order of items. An operation reports
// ok=false to skip its item; a skipped item never affects its siblings.
func Map[T, R any](ctx context.Context, items []T, opts Options, op func(context.Context, T) (R, bool)) []R {
	limit := opts.Limit
	if limit < 1 {
		limit = 1
	}

	type slot struct {
		val R
		ok  bool
	}

	// Each operation writes its own index; no lock is needed.
	slots := make([]slot, len(items))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, item := range items {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			defer func() { <-sem }()
			if opts.Delay > 0 {
				time.Sleep(opts.Delay)
			}
			val, ok := op(ctx, item)
			slots[i] = slot{val: val, ok: ok}
		}(i, item)
	}
	wg.Wait()

	out := make([]R, 0, len(items))
	for _, s := range slots {
		if s.ok {
			out = append(out, s.val)
		}
	}
	return out
}

// FlatMap is Map for operations yielding zero or more results per item.
// Per-item groups are concatenated in input order; empty groups vanish.
func FlatMap[T, R any](ctx context.Context, items []T, opts Options, op func(context.Context, T) []R) []R {
	groups := Map(ctx, items, opts, func(ctx context.Context, item T) ([]R, bool) {
		group := op(ctx, item)
		return group, len(group) > 0
	})

	total := 0
	for _, g := range groups {
		total += len(g)
	}
	out := make([]R, 0, total)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
