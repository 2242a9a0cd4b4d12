package algorithm

import (
	"fmt"
	"sort"
)

// Solver computes a Solution for a Dataset without modifying it.
type Solver interface {
	Name() string
	FindSolution(ds Dataset) (Solution, error)
}

// Comparison modes accepted by PairFor.
const (
	ModeSingle   = "single"
	ModeMultiple = "multiple"
	ModeAuto     = "auto"
)

var solvers = map[string]Solver{
	Bruteforce{}.Name():         Bruteforce{},
	Greedy{}.Name():             Greedy{},
	BruteforceMultiple{}.Name(): BruteforceMultiple{},
	GreedyMultiple{}.Name():     GreedyMultiple{},
}

// Lookup returns the solver registered under name.
func Lookup(name string) (Solver, error) {
	s, ok := solvers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, name)
	}
	return s, nil
}

// Names returns the registered solver names in sorted order.
func Names() []string {
	names := make([]string, 0, len(solvers))
	for name := range solvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pair is an exact solver and the heuristic it is compared against.
type Pair struct {
	Exact     Solver
	Heuristic Solver
}

// SinglePair compares the 0/1 solvers.
func SinglePair() Pair {
	return Pair{Exact: Bruteforce{}, Heuristic: Greedy{}}
}

// MultiplePair compares the solvers that honour item amounts.
func MultiplePair() Pair {
	return Pair{Exact: BruteforceMultiple{}, Heuristic: GreedyMultiple{}}
}

// ValidMode reports whether mode is accepted by PairFor.
func ValidMode(mode string) bool {
	switch mode {
	case ModeSingle, ModeMultiple, ModeAuto:
		return true
	}
	return false
}

// PairFor selects the solver pair for mode. ModeAuto uses the multi-copy
// solvers only when the dataset has an item with more than one copy.
func PairFor(mode string, ds Dataset) (Pair, error) {
	switch mode {
	case ModeSingle:
		return SinglePair(), nil
	case ModeMultiple:
		return MultiplePair(), nil
	case ModeAuto:
		if ds.HasMultiples() {
			return MultiplePair(), nil
		}
		return SinglePair(), nil
	}
	return Pair{}, fmt.Errorf("unknown comparison mode %q", mode)
}
