package border

import (
	"iter"

	"github.com/paulmach/orb"
)

// Ring is an ordered chain of segments, each oriented so that
// its start is the previous segment's end.
// A finished ring is (nominally) closed: the first start equals the last end.
type Ring []Segment

func (r Ring) Start() Point {
	return r[0].Start()
}

func (r Ring) End() Point {
	return r[len(r)-1].End()
}

// Closed is true when the ring has segments and returns to its start point.
func (r Ring) Closed() bool {
	if len(r) == 0 {
		return false
	}
	return r.Start().Equal(r.End())
}

// WayIDs lists the segment way IDs in chain order.
func (r Ring) WayIDs() []int64 {
	ids := make([]int64, 0, len(r))
	for _, s := range r {
		ids = append(ids, int64(s.WayID))
	}
	return ids
}

// Len is the number of points Points will yield.
func (r Ring) Len() int {
	n := 0
	for _, s := range r {
		n += len(s.Points)
	}
	return n
}

// Points flattens the ring into its point sequence, segment by segment.
// Junction points appear twice, once as the end of a segment and once
// as the start of the next; they are not deduplicated.
func (r Ring) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, s := range r {
			for _, p := range s.Points {
				if !yield(p) {
					return
				}
			}
		}
	}
}

// LineString converts the flattened ring to an orb.LineString.
func (r Ring) LineString() orb.LineString {
	ls := make(orb.LineString, 0, r.Len())
	for p := range r.Points() {
		ls = append(ls, p.Orb())
	}
	return ls
}

// Bound is the lon/lat bounding box of the ring.
func (r Ring) Bound() orb.Bound {
	return r.LineString().Bound()
}
