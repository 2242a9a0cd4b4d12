package algorithm

import "fmt"

// BruteforceMultiple is the exact solver for bounded and unlimited amounts.
// Every item is unpacked into single-copy slots which are then enumerated
// like Bruteforce does with items, so the search space is 2^m - 1 where m is
// the total number of slots.
type BruteforceMultiple struct{}

// Name returns the registry name of the solver.
func (BruteforceMultiple) Name() string { return "bruteforce-multiple" }

// FindSolution returns the optimal packing of ds honouring item amounts.
func (BruteforceMultiple) FindSolution(ds Dataset) (Solution, error) {
	slots, err := unpackSlots(ds.Items, ds.MaxWeight)
	if err != nil {
		return Solution{}, err
	}

	best, err := findOptimum(slots, ds.MaxWeight)
	if err != nil {
		return Solution{}, err
	}

	packed := make([]int, len(ds.Items))
	for _, j := range selectedPositions(best.combination, len(slots)) {
		packed[slots[j].origin]++
	}

	solution := emptySolution()
	solution.TotalWeight = best.weight
	solution.TotalValue = best.value
	solution.Iterations = best.iterations
	for i, count := range packed {
		if count > 0 {
			solution.SelectedItems = append(solution.SelectedItems, ds.Items[i].WithAmount(Bounded(count)))
		}
	}
	return solution, nil
}

// unpackSlots expands items into one slot per available copy. The slot total
// is checked against MaxEnumerationItems before any slot is built.
func unpackSlots(items []Item, capacity int) ([]unit, error) {
	total := 0
	for _, item := range items {
		total += slotCount(item, capacity)
		if total > MaxEnumerationItems {
			return nil, fmt.Errorf("%w: more than %d positions",
				ErrTooManyItems, MaxEnumerationItems)
		}
	}

	slots := make([]unit, 0, total)
	for i, item := range items {
		copies := slotCount(item, capacity)
		for c := 0; c < copies; c++ {
			slots = append(slots, unit{weight: item.Weight, value: item.Value, origin: i})
		}
	}
	return slots, nil
}

// slotCount is the number of copies of item worth enumerating. An unlimited
// item contributes as many copies as fit by weight alone, and none at all when
// its weight is not positive.
func slotCount(item Item, capacity int) int {
	if !item.Amount.IsUnlimited() {
		return max(0, item.Amount.Count())
	}
	if item.Weight <= 0 {
		return 0
	}
	return max(0, capacity/item.Weight)
}
