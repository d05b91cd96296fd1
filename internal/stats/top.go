package stats

import (
	"sort"

	"github.com/verte-zerg/typestyle/internal/model"
)

// TopKeysByFrequency returns the top N keys by press count. Ties sort by key.
func TopKeysByFrequency(counts []model.KeyCount, n int) []model.KeyCount {
	if n <= 0 || len(counts) == 0 {
		return nil
	}
	items := make([]model.KeyCount, len(counts))
	copy(items, counts)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Key < items[j].Key
		}
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
