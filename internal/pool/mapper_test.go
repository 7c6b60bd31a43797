package pool

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMap_PreservesInputOrderUnderConcurrency(t *testing.T) {
	t.Parallel()

	items := []string{"A", "B", "C", "D", "E"}
	// Earlier items sleep longer, so completion order is roughly the
	// reverse of input order.
	out := Map(context.Background(), items, Options{Limit: 2},
		func(_ context.Context, item string) (string, bool) {
			delay := time.Duration(len(items)-strings.Index("ABCDE", item)) * 10 * time.Millisecond
			time.Sleep(delay)
			return strings.ToLower(item), true
		})

	require.Equal(t, []string{"a", "b", "c", "d", "e"}, out)
}

func TestMap_SkippedItemIsIsolated(t *testing.T) {
	t.Parallel()

	items := []string{"A", "B", "C", "D", "E"}
	out := Map(context.Background(), items, Options{Limit: 3},
		func(_ context.Context, item string) (string, bool) {
			if item == "C" {
				return "", false
			}
			return item, true
		})

	require.Equal(t, []string{"A", "B", "D", "E"}, out)
}

func TestMap_RespectsConcurrencyCeiling(t *testing.T) {
	t.Parallel()

	var inFlight, peak int64
	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}

	Map(context.Background(), items, Options{Limit: 2},
		func(_ context.Context, item int) (int, bool) {
			n := atomic.AddInt64(&inFlight, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&inFlight, -1)
			return item, true
		})

	require.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
}

func TestMap_AppliesStartDelay(t *testing.T) {
	t.Parallel()

	start := time.Now()
	out := Map(context.Background(), []int{1, 2}, Options{Limit: 1, Delay: 20 * time.Millisecond},
		func(_ context.Context, item int) (int, bool) { return item, true })

	require.Equal(t, []int{1, 2}, out)
	require.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestFlatMap_FlattensInOrderAndDropsEmptyGroups(t *testing.T) {
	t.Parallel()

	out := FlatMap(context.Background(), []int{1, 2, 3}, Options{Limit: 3},
		func(_ context.Context, item int) []int {
			if item == 2 {
				return nil
			}
			return []int{item * 10, item*10 + 1}
		})

	require.Equal(t, []int{10, 11, 30, 31}, out)
}

func TestMap_EmptyInput(t *testing.T) {
	t.Parallel()

	out := Map(context.Background(), nil, Options{Limit: 4},
		func(_ context.Context, item int) (int, bool) { return item, true })
	require.Empty(t, out)
}
