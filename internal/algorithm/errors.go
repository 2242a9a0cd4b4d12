package algorithm

import "errors"

// MaxEnumerationItems bounds the number of positions an exact solver enumerates.
const MaxEnumerationItems = 30

var (
	// ErrInvalidDataset is returned when capacity or item fields are malformed.
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrTooManyItems is returned when an exact search space exceeds MaxEnumerationItems positions.
	ErrTooManyItems = errors.New("too many items to enumerate")
	// ErrUnknownSolver is returned by Lookup for an unregistered solver name.
	ErrUnknownSolver = errors.New("unknown solver")
)
