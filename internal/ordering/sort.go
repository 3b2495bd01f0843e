package ordering

import (
	"slices"
	"strings"
	"time"
)

// Sort stably orders items by the key of their names.
func Sort[T any](items []T, name func(T) string) {
	SortByCreated(items, name, nil)
}

// SortByCreated is Sort with a creation-time tiebreak for dash-prefixed
// names: two "-" names with equal bucket, group and order compare by created
// before falling back to the lowercase name. A nil created behaves like
// Sort.
func SortByCreated[T any](items []T, name func(T) string, created func(T) time.Time) {
	type keyed struct {
		key     Key
		dash    bool
		created time.Time
		item    T
	}

	tmp := make([]keyed, len(items))
	for i, item := range items {
		n := name(item)
		tmp[i] = keyed{key: SortKey(n), dash: strings.HasPrefix(n, "-"), item: item}
		if created != nil && tmp[i].dash {
			tmp[i].created = created(item)
		}
	}

	slices.SortStableFunc(tmp, func(a, b keyed) int {
		if c := a.key.comparePosition(b.key); c != 0 {
			return c
		}
		if created != nil && a.dash && b.dash {
			if c := a.created.Compare(b.created); c != 0 {
				return c
			}
		}
		return strings.Compare(a.key.Tiebreak, b.key.Tiebreak)
	})

	for i := range tmp {
		items[i] = tmp[i].item
	}
}
