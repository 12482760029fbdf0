package query

import "slices"

// Comparator orders two rows of an in-memory result.
type Comparator[T any] func(a, b T) int

// OrderAndPage sorts rows computed outside the database with the same
// allow-list and tiebreak rules as Sorter, then returns the requested window.
// The input slice is not modified.
func OrderAndPage[T any](rows []T, fields []SortField, comparators map[string]Comparator[T], tiebreak string, page Page) []T {
	type step struct {
		cmp Comparator[T]
		dir Direction
	}

	seen := make(map[string]bool)
	var steps []step
	for _, f := range fields {
		cmp, ok := comparators[f.Field]
		if !ok || seen[f.Field] {
			continue
		}
		seen[f.Field] = true
		steps = append(steps, step{cmp, f.Direction.Normalize()})
	}
	if cmp, ok := comparators[tiebreak]; ok && !seen[tiebreak] {
		steps = append(steps, step{cmp, Asc})
	}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b T) int {
		for _, s := range steps {
			c := s.cmp(a, b)
			if s.dir == Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	lo, hi := page.Bounds(len(sorted))
	return sorted[lo:hi]
}
