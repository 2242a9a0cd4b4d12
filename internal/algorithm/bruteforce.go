package algorithm

// Bruteforce is the exact single-copy solver. It enumerates all 2^n - 1
// non-empty subsets of the items that have at least one copy available.
//
// Time Complexity: O(2^n * n)
type Bruteforce struct{}

// Name returns the registry name of the solver.
func (Bruteforce) Name() string { return "bruteforce" }

// FindSolution returns the optimal 0/1 packing of ds.
func (Bruteforce) FindSolution(ds Dataset) (Solution, error) {
	units := make([]unit, 0, len(ds.Items))
	for i, item := range ds.Items {
		if !item.Amount.HasSupply() {
			continue
		}
		units = append(units, unit{weight: item.Weight, value: item.Value, origin: i})
	}

	best, err := findOptimum(units, ds.MaxWeight)
	if err != nil {
		return Solution{}, err
	}

	solution := emptySolution()
	solution.TotalWeight = best.weight
	solution.TotalValue = best.value
	solution.Iterations = best.iterations
	for _, j := range selectedPositions(best.combination, len(units)) {
		solution.SelectedItems = append(solution.SelectedItems, ds.Items[units[j].origin].WithAmount(Bounded(1)))
	}
	return solution, nil
}
