package repository

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ListOptions controls sorting and pagination of a list call.
type ListOptions struct {
	// Sort names a scalar field; empty keeps the entity's default order.
	Sort string
	// Order is "asc" or "desc". Empty means desc when Sort is set.
	Order  string
	Offset int
	// Limit <= 0 uses the entity's default page size.
	Limit int
}

// comparators maps a sort key to an ascending comparison.
type comparators[T any] map[string]func(a, b T) int

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func compareTime(a, b time.Time) int { return a.Compare(b) }

// sortItems sorts in place. The sort is stable, so ties keep store order.
func sortItems[T any](items []T, keys comparators[T], field, order string) error {
	if field == "" {
		return nil
	}
	less, ok := keys[field]
	if !ok {
		return fmt.Errorf("%w: unknown sort field %q", ErrInvalidFilter, field)
	}
	desc := !strings.EqualFold(order, "asc")
	slices.SortStableFunc(items, func(a, b T) int {
		if desc {
			return less(b, a)
		}
		return less(a, b)
	})
	return nil
}

func paginate[T any](items []T, offset, limit int) []T {
	offset = max(offset, 0)
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// list applies filter, sort and pagination and returns the page with the filtered total.
func list[T any](items []T, keep func(T) bool, keys comparators[T], opts ListOptions, defaultSort string, defaultLimit int) ([]T, int, error) {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if keep == nil || keep(item) {
			filtered = append(filtered, item)
		}
	}
	field, order := opts.Sort, opts.Order
	if field == "" {
		field, order = defaultSort, "desc"
	}
	if err := sortItems(filtered, keys, field, order); err != nil {
		return nil, 0, err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	return paginate(filtered, opts.Offset, limit), len(filtered), nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// stringCmp builds a comparator over a string field.
func stringCmp[T any](get func(T) string) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(get(a), get(b)) }
}
