package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/osm"
)

var (
	// ErrEmptyInput is returned when there are no segments to chain.
	ErrEmptyInput = errors.New("no segments to chain")

	// ErrBrokenChain matches any *BrokenChainError with errors.Is.
	ErrBrokenChain = errors.New("broken chain")
)

// BrokenChainError reports a chain that could not be continued or closed.
type BrokenChainError struct {
	// Last is the way at the open end of the chain.
	Last osm.WayID

	// Unmatched are the ways still left in the pool, in pool order.
	Unmatched []osm.WayID

	// Unclosed is set when the pool ran out with the final chain still open,
	// which is only an error in strict mode.
	Unclosed bool
}

func (e *BrokenChainError) Error() string {
	if e.Unclosed {
		return fmt.Sprintf("final chain ending with way #%d does not close", e.Last)
	}
	ids := make([]string, 0, len(e.Unmatched))
	for _, id := range e.Unmatched {
		ids = append(ids, fmt.Sprint(int64(id)))
	}
	return fmt.Sprintf("can't continue chain: no next way after #%d among ways %s",
		e.Last, strings.Join(ids, ", "))
}

func (e *BrokenChainError) Is(target error) bool {
	return target == ErrBrokenChain
}
