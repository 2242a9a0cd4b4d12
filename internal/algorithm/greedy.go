package algorithm

import (
	"math"
	"sort"
)

// rankedItem pairs an item with its value/weight ratio for sorting.
type rankedItem struct {
	item  Item
	ratio float64
}

// ratio returns value/weight. Items with a non-positive weight rank first
// when they have a positive value and last otherwise.
func ratio(item Item) float64 {
	if item.Weight <= 0 {
		if item.Value > 0 {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	return float64(item.Value) / float64(item.Weight)
}

// rankItems returns the items with supply sorted by descending ratio.
// Equal ratios keep their relative input order.
func rankItems(items []Item) []rankedItem {
	ranked := make([]rankedItem, 0, len(items))
	for _, item := range items {
		if !item.Amount.HasSupply() {
			continue
		}
		ranked = append(ranked, rankedItem{item: item, ratio: ratio(item)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ratio > ranked[j].ratio
	})
	return ranked
}

// Greedy is the single-copy heuristic: items are scanned once in descending
// value/weight order and each one that still fits is taken.
type Greedy struct{}

// Name returns the registry name of the solver.
func (Greedy) Name() string { return "greedy" }

// FindSolution never fails; the error is part of the Solver contract.
func (Greedy) FindSolution(ds Dataset) (Solution, error) {
	solution := emptySolution()
	for _, r := range rankItems(ds.Items) {
		solution.Iterations++
		if solution.TotalWeight+r.item.Weight > ds.MaxWeight {
			continue
		}
		solution.TotalWeight += r.item.Weight
		solution.TotalValue += r.item.Value
		solution.SelectedItems = append(solution.SelectedItems, r.item.WithAmount(Bounded(1)))
		if solution.TotalWeight == ds.MaxWeight {
			break
		}
	}
	return solution, nil
}

// GreedyMultiple is the heuristic for bounded and unlimited amounts. Copies of
// the best-ranked item are added until its supply or the capacity runs out,
// then the next item is tried.
//
// Time Complexity: O(n log n + k), k being the number of attempted copies
type GreedyMultiple struct{}

// Name returns the registry name of the solver.
func (GreedyMultiple) Name() string { return "greedy-multiple" }

// FindSolution never fails; the error is part of the Solver contract.
func (GreedyMultiple) FindSolution(ds Dataset) (Solution, error) {
	solution := emptySolution()
	for _, r := range rankItems(ds.Items) {
		item := r.item
		var taken int
		if item.Weight <= 0 && !item.Amount.IsUnlimited() {
			taken = takeFreeCopies(&solution, item, ds.MaxWeight)
		} else {
			taken = takeCopies(&solution, item, ds.MaxWeight)
		}
		if taken > 0 {
			solution.SelectedItems = append(solution.SelectedItems, item.WithAmount(Bounded(taken)))
		}
		if solution.TotalWeight == ds.MaxWeight {
			break
		}
	}
	return solution, nil
}

// takeCopies adds copies of item one at a time until its supply or the
// capacity runs out.
func takeCopies(solution *Solution, item Item, capacity int) int {
	taken := 0
	for canTakeAnother(item, taken) {
		solution.Iterations++
		if solution.TotalWeight+item.Weight > capacity {
			break
		}
		solution.TotalWeight += item.Weight
		solution.TotalValue += item.Value
		taken++
	}
	return taken
}

// takeFreeCopies adds the whole supply of a bounded item whose weight is not
// positive in one step. Once the first copy fits every further copy fits too,
// so the result and the iteration count match attempting copies one by one.
func takeFreeCopies(solution *Solution, item Item, capacity int) int {
	count := item.Amount.Count()
	if count <= 0 {
		return 0
	}
	if solution.TotalWeight+item.Weight > capacity {
		solution.Iterations++
		return 0
	}
	solution.Iterations += count
	solution.TotalWeight += count * item.Weight
	solution.TotalValue += count * item.Value
	return count
}

// canTakeAnother reports whether another copy may be attempted. Unlimited
// items without a positive weight are never attempted.
func canTakeAnother(item Item, taken int) bool {
	if item.Amount.IsUnlimited() {
		return item.Weight > 0
	}
	return taken < item.Amount.Count()
}
