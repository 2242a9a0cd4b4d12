package algorithm

import (
	"fmt"
	"strconv"
	"strings"
)

// unlimitedSentinel is the external representation of an unlimited supply
// used by dataset files, JSON payloads and the sqlite catalog.
const unlimitedSentinel = -1

// Amount is the available (or packed) number of copies of an item.
// It is either a bounded count or an unlimited supply.
type Amount struct {
	count     int
	unlimited bool
}

// Bounded returns an Amount of exactly n copies. Counts <= 0 mean no copies.
func Bounded(n int) Amount {
	return Amount{count: n}
}

// Unlimited returns an Amount with no upper bound.
func Unlimited() Amount {
	return Amount{unlimited: true}
}

// AmountFromInt converts the external integer form, where -1 means unlimited.
func AmountFromInt(n int) Amount {
	if n == unlimitedSentinel {
		return Unlimited()
	}
	return Bounded(n)
}

// Int returns the external integer form of the amount.
func (a Amount) Int() int {
	if a.unlimited {
		return unlimitedSentinel
	}
	return a.count
}

// IsUnlimited reports whether the supply has no upper bound.
func (a Amount) IsUnlimited() bool {
	return a.unlimited
}

// Count returns the bounded count, or 0 for an unlimited amount.
func (a Amount) Count() int {
	if a.unlimited {
		return 0
	}
	return a.count
}

// HasSupply reports whether at least one copy is available.
func (a Amount) HasSupply() bool {
	return a.unlimited || a.count > 0
}

func (a Amount) String() string {
	if a.unlimited {
		return "unlimited"
	}
	return strconv.Itoa(a.count)
}

// Item is one kind of purchasable unit.
type Item struct {
	Weight int
	Value  int
	Amount Amount
}

// NewItem returns a single-copy item.
func NewItem(weight, value int) Item {
	return Item{Weight: weight, Value: value, Amount: Bounded(1)}
}

// WithAmount returns a copy of the item carrying a different amount.
func (i Item) WithAmount(a Amount) Item {
	i.Amount = a
	return i
}

func (i Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Item(weight: %d, value: %d", i.Weight, i.Value)
	if i.Amount.IsUnlimited() || i.Amount.Count() > 1 {
		fmt.Fprintf(&b, ", amount: %s", i.Amount)
	}
	b.WriteString(")")
	return b.String()
}

// Dataset is an ordered collection of items plus the backpack capacity.
// Solvers treat it as read-only.
type Dataset struct {
	Items     []Item
	MaxWeight int
}

// AddItem appends an item to the dataset.
func (d *Dataset) AddItem(item Item) {
	d.Items = append(d.Items, item)
}

// HasMultiples reports whether any item may be packed more than once.
func (d Dataset) HasMultiples() bool {
	for _, item := range d.Items {
		if item.Amount.IsUnlimited() || item.Amount.Count() > 1 {
			return true
		}
	}
	return false
}

// Validate checks the invariants the solvers rely on.
func (d Dataset) Validate() error {
	if d.MaxWeight < 0 {
		return fmt.Errorf("%w: max weight must be >= 0, got %d", ErrInvalidDataset, d.MaxWeight)
	}
	return nil
}

// Solution is the result of a single solver run.
type Solution struct {
	TotalWeight   int
	TotalValue    int
	SelectedItems []Item // each carries the packed quantity in Amount
	Iterations    int    // elementary enumeration or decision steps
}

func emptySolution() Solution {
	return Solution{SelectedItems: []Item{}}
}
