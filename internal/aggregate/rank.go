package aggregate

import (
	"sort"

	"github.com/keilerkonzept/topk"
	"github.com/keilerkonzept/topk/heap"

	"github.com/keilerkonzept/creature-dash/internal/creature"
)

// TopNByHeight returns the n tallest records, tallest first. Records of equal
// height keep their input order.
func TopNByHeight(records []creature.Record, n int) []creature.Record {
	if n <= 0 || len(records) == 0 {
		return []creature.Record{}
	}
	sorted := cloneRecords(records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Height > sorted[j].Height
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func cloneRecords(in []creature.Record) []creature.Record {
	out := make([]creature.Record, len(in))
	copy(out, in)
	return out
}

// TypeCount is how many records carry a type label.
type TypeCount struct {
	Label string
	Count int
}

// Sketch dimensions for the type leaderboard. A catalog has a few dozen
// distinct labels at most, far below the width, so the counts come out exact.
const (
	typeSketchWidth = 1024
	typeSketchDepth = 4
)

// TypeLeaderboard returns the k most common type labels, most common first,
// ties by label. The sketch tracks every distinct label so that ties at the
// k-th place are cut by label, not by arrival order.
func TypeLeaderboard(records []creature.Record, k int) []TypeCount {
	if k <= 0 || len(records) == 0 {
		return []TypeCount{}
	}
	distinct := make(map[string]struct{})
	for _, r := range records {
		for _, label := range r.Type {
			if label != "" {
				distinct[label] = struct{}{}
			}
		}
	}
	if len(distinct) == 0 {
		return []TypeCount{}
	}

	sketch := topk.New(len(distinct),
		topk.WithWidth(typeSketchWidth),
		topk.WithDepth(typeSketchDepth),
	)
	for _, r := range records {
		for _, label := range r.Type {
			if label == "" {
				continue
			}
			sketch.Incr(label)
		}
	}
	out := typeCounts(sketch.SortedSlice())
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func typeCounts(items []heap.Item) []TypeCount {
	out := make([]TypeCount, 0, len(items))
	for _, it := range items {
		if it.Count == 0 {
			continue
		}
		out = append(out, TypeCount{Label: it.Item, Count: int(it.Count)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
