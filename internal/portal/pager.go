package portal

import "context"

// Page is one slice of a paginated portal listing. Total is the item
// count the endpoint reports for the whole listing; portals that do not
// report one leave it zero.
type Page[T any] struct {
	Total int
	Items []T
}

// FetchAll drains a paged endpoint, starting at page 1 with a fixed page
// size. It stops once the reported total is reached, when a page comes
// back short, or on the first failed page. A failed page is never
// retried; pagination simply ends with whatever accumulated so far.
func FetchAll[T any](ctx context.Context, size int, fetch func(ctx context.Context, page, size int) (*Page[T], error)) []T {
	if size < 1 {
		size = 1
	}

	var acc []T
	for page := 1; ; page++ {
		p, err := fetch(ctx, page, size)
		if err != nil || p == nil {
			return acc
		}
		acc = append(acc, p.Items...)

		if len(p.Items) < size {
			return acc
		}
		if p.Total > 0 && len(acc) >= p.Total {
			return acc
		}
	}
}
