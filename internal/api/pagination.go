package api

import (
	"context"
	"errors"
	"fmt"
)

// PageInfo mirrors the pageInfo block of a GraphQL connection
type PageInfo struct {
	EndCursor   string
	HasNextPage bool
}

// ErrMissingCursor reports a page that claims a successor but carries no
// cursor to reach it. Stopping there would return a collection that looks
// complete but is not.
var ErrMissingCursor = errors.New("response reports another page but no end cursor")

// A PageFunc fetches one page of a remote collection. The first call
// receives an empty cursor; each later call receives the cursor from the
// page before it.
type PageFunc[T any] func(ctx context.Context, cursor string) ([]T, PageInfo, error)

// CollectPages walks a cursor-paginated collection from the first page to
// the last and returns the items concatenated in page order.
func CollectPages[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var all []T
	cursor := ""
	for page := 1; ; page++ {
		items, info, err := fetch(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}
		all = append(all, items...)
		if !info.HasNextPage {
			return all, nil
		}
		if info.EndCursor == "" {
			return nil, fmt.Errorf("page %d: %w", page, ErrMissingCursor)
		}
		cursor = info.EndCursor
	}
}
