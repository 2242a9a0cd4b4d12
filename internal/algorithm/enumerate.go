package algorithm

import "fmt"

// unit is a single enumerable position: one copy of the item at origin.
type unit struct {
	weight int
	value  int
	origin int
}

// optimum is the best combination found by findOptimum.
type optimum struct {
	combination uint64
	weight      int
	value       int
	iterations  int
}

// findOptimum examines every non-empty combination of units, bit j of the
// combination standing for units[j]. A combination replaces the current best
// when its value is strictly greater, or equal with a strictly lower weight.
// The empty selection is the starting point and is never examined.
func findOptimum(units []unit, capacity int) (optimum, error) {
	if len(units) > MaxEnumerationItems {
		return optimum{}, fmt.Errorf("%w: %d positions exceed the limit of %d",
			ErrTooManyItems, len(units), MaxEnumerationItems)
	}

	var best optimum
	limit := uint64(1) << uint(len(units))
	for combination := uint64(1); combination < limit; combination++ {
		best.iterations++
		weight, value, tooHeavy := packCombination(units, combination, capacity)
		if tooHeavy {
			continue
		}
		if value > best.value {
			best.combination = combination
			best.value = value
			best.weight = weight
		} else if value == best.value && weight < best.weight {
			best.combination = combination
			best.weight = weight
		}
	}
	return best, nil
}

// packCombination sums the units selected by combination, stopping as soon as
// the running weight exceeds capacity.
func packCombination(units []unit, combination uint64, capacity int) (weight, value int, tooHeavy bool) {
	for j := range units {
		if combination&(uint64(1)<<uint(j)) == 0 {
			continue
		}
		weight += units[j].weight
		value += units[j].value
		if weight > capacity {
			return weight, value, true
		}
	}
	return weight, value, false
}

// selectedPositions lists the unit indexes set in combination, ascending.
func selectedPositions(combination uint64, n int) []int {
	positions := make([]int, 0, n)
	for j := 0; j < n; j++ {
		if combination&(uint64(1)<<uint(j)) != 0 {
			positions = append(positions, j)
		}
	}
	return positions
}
