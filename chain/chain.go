// Package chain reassembles unordered, arbitrarily oriented border segments
// into closed rings by matching segment endpoints.
package chain

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/paulmach/osm"
	"github.com/rotblauer/osmborders/types/border"
)

type Option func(*assembler)

// WithStrict makes an unclosed final chain an error.
// By default the final chain is yielded when the pool runs out,
// whether or not it closed.
func WithStrict(strict bool) Option {
	return func(a *assembler) {
		a.strict = strict
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(a *assembler) {
		a.logger = logger
	}
}

// Assemble chains segments into rings, yielding each ring as soon as it closes.
//
// A chain is seeded with the first segment left in the pool and grown by taking
// the first pooled segment that starts (as is) or ends (reversed) at the chain's
// open end. There is no look-ahead and no backtracking.
// If nothing continues the chain, a *BrokenChainError is yielded and the sequence stops.
// An empty input yields ErrEmptyInput.
//
// The sequence is single-pass: the pool is consumed while iterating,
// and ranging over it a second time yields nothing.
// The input slice itself is not modified.
func Assemble(segments []border.Segment, opts ...Option) iter.Seq2[border.Ring, error] {
	a := &assembler{
		pool:   slices.Clone(segments),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	done := false
	return func(yield func(border.Ring, error) bool) {
		if done {
			return
		}
		done = true
		a.run(yield)
	}
}

// Collect drains Assemble, returning all rings or the first error.
func Collect(segments []border.Segment, opts ...Option) ([]border.Ring, error) {
	var rings []border.Ring
	for ring, err := range Assemble(segments, opts...) {
		if err != nil {
			return nil, err
		}
		rings = append(rings, ring)
	}
	return rings, nil
}

type assembler struct {
	pool   []border.Segment
	strict bool
	logger *slog.Logger
}

func (a *assembler) run(yield func(border.Ring, error) bool) {
	if len(a.pool) == 0 {
		yield(nil, ErrEmptyInput)
		return
	}
	a.logger.Debug("Chaining segments", "count", len(a.pool))

	chain := border.Ring{a.take(0, false)}
	for len(a.pool) > 0 {
		if chain.Closed() {
			a.found(chain)
			if !yield(chain, nil) {
				return
			}
			chain = border.Ring{a.take(0, false)}
			continue
		}
		i, reversed, ok := a.next(chain.End())
		if !ok {
			yield(nil, &BrokenChainError{
				Last:      chain[len(chain)-1].WayID,
				Unmatched: a.remaining(),
			})
			return
		}
		chain = append(chain, a.take(i, reversed))
	}

	// The pool is empty. The last chain is yielded even if it never closed,
	// unless strict.
	if !chain.Closed() {
		if a.strict {
			yield(nil, &BrokenChainError{Last: chain[len(chain)-1].WayID, Unclosed: true})
			return
		}
		a.logger.Warn("Final chain is not closed",
			"segments", len(chain), "start", chain.Start(), "end", chain.End())
	}
	a.found(chain)
	yield(chain, nil)
}

// next finds the first pooled segment continuing from p.
// A segment touching p at both ends is taken forward.
func (a *assembler) next(p border.Point) (index int, reversed bool, ok bool) {
	for i, s := range a.pool {
		if s.StartsWith(p) {
			return i, false, true
		}
		if s.EndsWith(p) {
			return i, true, true
		}
	}
	return -1, false, false
}

// take removes the segment at index i from the pool.
func (a *assembler) take(i int, reversed bool) border.Segment {
	s := a.pool[i]
	a.pool = slices.Delete(a.pool, i, i+1)
	if reversed {
		return s.Reversed()
	}
	return s
}

func (a *assembler) remaining() []osm.WayID {
	ids := make([]osm.WayID, 0, len(a.pool))
	for _, s := range a.pool {
		ids = append(ids, s.WayID)
	}
	return ids
}

func (a *assembler) found(chain border.Ring) {
	a.logger.Info("Found chain", "segments", len(chain), "points", chain.Len())
}
