package algorithm

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(weight, value, amount int) Item {
	return Item{Weight: weight, Value: value, Amount: AmountFromInt(amount)}
}

func TestSolvers_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		solver         Solver
		dataset        Dataset
		wantWeight     int
		wantValue      int
		wantIterations int
		wantItems      []Item
	}{
		{
			name:   "Bruteforce: finds the optimal pair",
			solver: Bruteforce{},
			dataset: Dataset{
				MaxWeight: 10,
				Items:     []Item{item(5, 10, 1), item(4, 40, 1), item(6, 30, 1)},
			},
			wantWeight:     10,
			wantValue:      70,
			wantIterations: 7,
			wantItems:      []Item{item(4, 40, 1), item(6, 30, 1)},
		},
		{
			name:   "Greedy: ratio order fills capacity exactly",
			solver: Greedy{},
			dataset: Dataset{
				MaxWeight: 10,
				Items:     []Item{item(5, 10, 1), item(4, 40, 1), item(6, 30, 1)},
			},
			wantWeight:     10,
			wantValue:      70,
			wantIterations: 2,
			wantItems:      []Item{item(4, 40, 1), item(6, 30, 1)},
		},
		{
			name:   "Bruteforce: zero capacity",
			solver: Bruteforce{},
			dataset: Dataset{
				MaxWeight: 0,
				Items:     []Item{item(5, 10, 1), item(4, 40, 1)},
			},
			wantIterations: 3,
			wantItems:      []Item{},
		},
		{
			name:   "Greedy: zero capacity scans every item",
			solver: Greedy{},
			dataset: Dataset{
				MaxWeight: 0,
				Items:     []Item{item(5, 10, 1), item(4, 40, 1)},
			},
			wantIterations: 2,
			wantItems:      []Item{},
		},
		{
			name:   "BruteforceMultiple: zero capacity",
			solver: BruteforceMultiple{},
			dataset: Dataset{
				MaxWeight: 0,
				Items:     []Item{item(5, 10, 1), item(4, 40, 1)},
			},
			wantIterations: 3,
			wantItems:      []Item{},
		},
		{
			name:   "GreedyMultiple: zero capacity stops after the first attempt",
			solver: GreedyMultiple{},
			dataset: Dataset{
				MaxWeight: 0,
				Items:     []Item{item(5, 10, 1), item(4, 40, 1)},
			},
			wantIterations: 1,
			wantItems:      []Item{},
		},
		{
			name:   "GreedyMultiple: unlimited item packs three copies",
			solver: GreedyMultiple{},
			dataset: Dataset{
				MaxWeight: 10,
				Items:     []Item{item(3, 9, -1)},
			},
			wantWeight:     9,
			wantValue:      27,
			wantIterations: 4,
			wantItems:      []Item{item(3, 9, 3)},
		},
		{
			name:   "BruteforceMultiple: unlimited item packs three copies",
			solver: BruteforceMultiple{},
			dataset: Dataset{
				MaxWeight: 10,
				Items:     []Item{item(3, 9, -1)},
			},
			wantWeight:     9,
			wantValue:      27,
			wantIterations: 7,
			wantItems:      []Item{item(3, 9, 3)},
		},
		{
			name:   "BruteforceMultiple: bounded amounts",
			solver: BruteforceMultiple{},
			dataset: Dataset{
				MaxWeight: 10,
				Items:     []Item{item(4, 10, 2), item(3, 7, 3)},
			},
			wantWeight:     10,
			wantValue:      24,
			wantIterations: 31,
			wantItems:      []Item{item(4, 10, 1), item(3, 7, 2)},
		},
		{
			name:   "GreedyMultiple: bounded amounts",
			solver: GreedyMultiple{},
			dataset: Dataset{
				MaxWeight: 10,
				Items:     []Item{item(4, 10, 2), item(3, 7, 3)},
			},
			wantWeight:     8,
			wantValue:      20,
			wantIterations: 3,
			wantItems:      []Item{item(4, 10, 2)},
		},
		{
			name:   "Greedy: misses the optimum",
			solver: Greedy{},
			dataset: Dataset{
				MaxWeight: 10,
				Items:     []Item{item(6, 60, 1), item(5, 45, 1), item(5, 45, 1)},
			},
			wantWeight:     6,
			wantValue:      60,
			wantIterations: 3,
			wantItems:      []Item{item(6, 60, 1)},
		},
		{
			name:   "Bruteforce: beats greedy",
			solver: Bruteforce{},
			dataset: Dataset{
				MaxWeight: 10,
				Items:     []Item{item(6, 60, 1), item(5, 45, 1), item(5, 45, 1)},
			},
			wantWeight:     10,
			wantValue:      90,
			wantIterations: 7,
			wantItems:      []Item{item(5, 45, 1), item(5, 45, 1)},
		},
		{
			name:           "Bruteforce: empty dataset",
			solver:         Bruteforce{},
			dataset:        Dataset{MaxWeight: 10},
			wantIterations: 0,
			wantItems:      []Item{},
		},
		{
			name:           "GreedyMultiple: empty dataset",
			solver:         GreedyMultiple{},
			dataset:        Dataset{MaxWeight: 10},
			wantIterations: 0,
			wantItems:      []Item{},
		},
		{
			name:   "Bruteforce: single-copy solvers ignore amounts above one",
			solver: Bruteforce{},
			dataset: Dataset{
				MaxWeight: 10,
				Items:     []Item{item(3, 9, 5)},
			},
			wantWeight:     3,
			wantValue:      9,
			wantIterations: 1,
			wantItems:      []Item{item(3, 9, 1)},
		},
		{
			name:   "Greedy: items without supply are not scanned",
			solver: Greedy{},
			dataset: Dataset{
				MaxWeight: 10,
				Items:     []Item{item(1, 100, 0), item(2, 4, 1), item(1, 50, -5)},
			},
			wantWeight:     2,
			wantValue:      4,
			wantIterations: 1,
			wantItems:      []Item{item(2, 4, 1)},
		},
		{
			name:   "Bruteforce: items without supply are not enumerated",
			solver: Bruteforce{},
			dataset: Dataset{
				MaxWeight: 10,
				Items:     []Item{item(1, 100, 0), item(2, 4, 1)},
			},
			wantWeight:     2,
			wantValue:      4,
			wantIterations: 1,
			wantItems:      []Item{item(2, 4, 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			solution, err := tt.solver.FindSolution(tt.dataset)
			require.NoError(t, err)

			assert.Equal(t, tt.wantWeight, solution.TotalWeight, "TotalWeight")
			assert.Equal(t, tt.wantValue, solution.TotalValue, "TotalValue")
			assert.Equal(t, tt.wantIterations, solution.Iterations, "Iterations")
			assert.Equal(t, tt.wantItems, solution.SelectedItems, "SelectedItems")
		})
	}
}

func TestBruteforce_TieBreakPrefersLowerWeight(t *testing.T) {
	ds := Dataset{
		MaxWeight: 4,
		Items:     []Item{item(3, 10, 1), item(2, 10, 1), item(4, 10, 1)},
	}

	solution, err := Bruteforce{}.FindSolution(ds)
	require.NoError(t, err)

	assert.Equal(t, 10, solution.TotalValue)
	assert.Equal(t, 2, solution.TotalWeight)
	assert.Equal(t, []Item{item(2, 10, 1)}, solution.SelectedItems)
}

func TestGreedy_StableOnEqualRatios(t *testing.T) {
	ds := Dataset{
		MaxWeight: 3,
		Items:     []Item{item(2, 4, 1), item(1, 2, 1), item(3, 6, 1)},
	}

	solution, err := Greedy{}.FindSolution(ds)
	require.NoError(t, err)

	assert.Equal(t, []Item{item(2, 4, 1), item(1, 2, 1)}, solution.SelectedItems)
	assert.Equal(t, 2, solution.Iterations)
}

func TestZeroWeightItems(t *testing.T) {
	t.Run("bounded free item is packed by every solver", func(t *testing.T) {
		ds := Dataset{MaxWeight: 5, Items: []Item{item(0, 5, 1)}}

		for _, solver := range []Solver{Bruteforce{}, Greedy{}, BruteforceMultiple{}, GreedyMultiple{}} {
			solution, err := solver.FindSolution(ds)
			require.NoError(t, err, solver.Name())
			assert.Equal(t, 0, solution.TotalWeight, solver.Name())
			assert.Equal(t, 5, solution.TotalValue, solver.Name())
			assert.Equal(t, 1, solution.Iterations, solver.Name())
			assert.Equal(t, []Item{item(0, 5, 1)}, solution.SelectedItems, solver.Name())
		}
	})

	t.Run("unlimited free item contributes nothing", func(t *testing.T) {
		ds := Dataset{MaxWeight: 5, Items: []Item{item(0, 5, -1), item(2, 3, 1)}}

		exact, err := BruteforceMultiple{}.FindSolution(ds)
		require.NoError(t, err)
		assert.Equal(t, 1, exact.Iterations)
		assert.Equal(t, []Item{item(2, 3, 1)}, exact.SelectedItems)

		heuristic, err := GreedyMultiple{}.FindSolution(ds)
		require.NoError(t, err)
		assert.Equal(t, 1, heuristic.Iterations)
		assert.Equal(t, []Item{item(2, 3, 1)}, heuristic.SelectedItems)
	})

	t.Run("free item with no value ranks last", func(t *testing.T) {
		ranked := rankItems([]Item{item(0, 0, 1), item(2, 2, 1), item(0, 7, 1)})
		require.Len(t, ranked, 3)
		assert.Equal(t, item(0, 7, 1), ranked[0].item)
		assert.Equal(t, item(2, 2, 1), ranked[1].item)
		assert.Equal(t, item(0, 0, 1), ranked[2].item)
	})
}

func TestUnpackSlots(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		capacity int
		want     int
	}{
		{name: "bounded", item: item(3, 1, 4), capacity: 10, want: 4},
		{name: "bounded zero", item: item(3, 1, 0), capacity: 10, want: 0},
		{name: "bounded negative", item: item(3, 1, -3), capacity: 10, want: 0},
		{name: "unlimited", item: item(3, 1, -1), capacity: 10, want: 3},
		{name: "unlimited zero capacity", item: item(3, 1, -1), capacity: 0, want: 0},
		{name: "unlimited negative capacity", item: item(3, 1, -1), capacity: -7, want: 0},
		{name: "unlimited zero weight", item: item(0, 1, -1), capacity: 10, want: 0},
		{name: "unlimited negative weight", item: item(-2, 1, -1), capacity: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slotCount(tt.item, tt.capacity))
			slots, err := unpackSlots([]Item{tt.item}, tt.capacity)
			require.NoError(t, err)
			assert.Len(t, slots, tt.want)
		})
	}
}

func TestExactSolvers_TooManyItems(t *testing.T) {
	ds := Dataset{MaxWeight: 100}
	for i := 0; i <= MaxEnumerationItems; i++ {
		ds.AddItem(item(1, 1, 1))
	}

	_, err := Bruteforce{}.FindSolution(ds)
	assert.True(t, errors.Is(err, ErrTooManyItems), "Bruteforce error = %v", err)

	multiple := Dataset{MaxWeight: MaxEnumerationItems + 1, Items: []Item{item(1, 1, -1)}}
	_, err = BruteforceMultiple{}.FindSolution(multiple)
	assert.True(t, errors.Is(err, ErrTooManyItems), "BruteforceMultiple error = %v", err)

	// The heuristics have no enumeration limit.
	solution, err := GreedyMultiple{}.FindSolution(multiple)
	require.NoError(t, err)
	assert.Equal(t, MaxEnumerationItems+1, solution.TotalWeight)
}

func TestBruteforceMultiple_HugeSupplyFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		dataset Dataset
	}{
		{
			name:    "unlimited item with huge capacity",
			dataset: Dataset{MaxWeight: 1 << 40, Items: []Item{item(1, 1, -1)}},
		},
		{
			name:    "bounded item with huge amount",
			dataset: Dataset{MaxWeight: 10, Items: []Item{item(1, 1, 1 << 40)}},
		},
		{
			name:    "limit crossed by the last item",
			dataset: Dataset{MaxWeight: 10, Items: []Item{item(1, 1, MaxEnumerationItems), item(2, 3, 1)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)

			_, err := BruteforceMultiple{}.FindSolution(tt.dataset)

			runtime.ReadMemStats(&after)
			assert.True(t, errors.Is(err, ErrTooManyItems), "error = %v", err)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20), "allocated before failing")
		})
	}
}

func TestGreedyMultiple_FreeBoundedItem(t *testing.T) {
	const supply = 1 << 40

	ds := Dataset{MaxWeight: 10, Items: []Item{item(0, 5, supply), item(4, 8, 1)}}
	solution, err := GreedyMultiple{}.FindSolution(ds)
	require.NoError(t, err)

	assert.Equal(t, 4, solution.TotalWeight)
	assert.Equal(t, 5*supply+8, solution.TotalValue)
	assert.Equal(t, supply+1, solution.Iterations)
	assert.Equal(t, []Item{item(0, 5, supply), item(4, 8, 1)}, solution.SelectedItems)
}

func TestGreedyMultiple_FreeItemMatchesCopyByCopy(t *testing.T) {
	tests := []struct {
		name    string
		dataset Dataset
	}{
		{name: "zero weight", dataset: Dataset{MaxWeight: 6, Items: []Item{item(0, 3, 4), item(3, 4, 2)}}},
		{name: "negative weight", dataset: Dataset{MaxWeight: 6, Items: []Item{item(-1, 2, 3), item(4, 5, 3)}}},
		{name: "zero capacity", dataset: Dataset{MaxWeight: 0, Items: []Item{item(0, 1, 5)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			solution, err := GreedyMultiple{}.FindSolution(tt.dataset)
			require.NoError(t, err)

			want := greedyCopyByCopy(tt.dataset)
			assert.Equal(t, want.TotalWeight, solution.TotalWeight)
			assert.Equal(t, want.TotalValue, solution.TotalValue)
			assert.Equal(t, want.Iterations, solution.Iterations)
			assert.Equal(t, want.SelectedItems, solution.SelectedItems)
		})
	}
}

// greedyCopyByCopy is the plain per-copy greedy loop, used as a reference
// for small supplies.
func greedyCopyByCopy(ds Dataset) Solution {
	solution := emptySolution()
	for _, r := range rankItems(ds.Items) {
		taken := 0
		for canTakeAnother(r.item, taken) {
			solution.Iterations++
			if solution.TotalWeight+r.item.Weight > ds.MaxWeight {
				break
			}
			solution.TotalWeight += r.item.Weight
			solution.TotalValue += r.item.Value
			taken++
		}
		if taken > 0 {
			solution.SelectedItems = append(solution.SelectedItems, r.item.WithAmount(Bounded(taken)))
		}
		if solution.TotalWeight == ds.MaxWeight {
			break
		}
	}
	return solution
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		solver, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, solver.Name())
	}

	_, err := Lookup("dynamic")
	assert.ErrorIs(t, err, ErrUnknownSolver)
	assert.Equal(t, []string{"bruteforce", "bruteforce-multiple", "greedy", "greedy-multiple"}, Names())
}

func TestPairFor(t *testing.T) {
	single := Dataset{Items: []Item{item(1, 1, 1)}}
	multiple := Dataset{Items: []Item{item(1, 1, 1), item(1, 1, -1)}}

	tests := []struct {
		name          string
		mode          string
		dataset       Dataset
		wantExact     string
		wantHeuristic string
		wantErr       bool
	}{
		{name: "single", mode: ModeSingle, dataset: multiple, wantExact: "bruteforce", wantHeuristic: "greedy"},
		{name: "multiple", mode: ModeMultiple, dataset: single, wantExact: "bruteforce-multiple", wantHeuristic: "greedy-multiple"},
		{name: "auto single", mode: ModeAuto, dataset: single, wantExact: "bruteforce", wantHeuristic: "greedy"},
		{name: "auto multiple", mode: ModeAuto, dataset: multiple, wantExact: "bruteforce-multiple", wantHeuristic: "greedy-multiple"},
		{name: "unknown", mode: "fractional", dataset: single, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := PairFor(tt.mode, tt.dataset)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, ValidMode(tt.mode))
				return
			}
			require.NoError(t, err)
			assert.True(t, ValidMode(tt.mode))
			assert.Equal(t, tt.wantExact, pair.Exact.Name())
			assert.Equal(t, tt.wantHeuristic, pair.Heuristic.Name())
		})
	}
}
